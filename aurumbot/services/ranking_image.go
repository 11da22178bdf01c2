package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

// RankingImageService renders the top of the ranking as an image card by
// screenshotting a small HTML page in headless Chrome. Image generation is
// best effort; callers fall back to the text ranking when it fails.
type RankingImageService struct {
	log       *slog.Logger
	available bool
}

type rankingTemplateData struct {
	Timestamp string
	Entries   []rankingTemplateEntry
}

type rankingTemplateEntry struct {
	Position int
	Symbol   string
	Name     string
	Points   int
	Level    string
}

func NewRankingImageService() *RankingImageService {
	s := &RankingImageService{
		log: slog.With(slog.String("service", "ranking_image")),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	chromedpCtx, cancelCtx := chromedp.NewContext(ctx)
	defer cancelCtx()

	if err := chromedp.Run(chromedpCtx, chromedp.Navigate("data:text/html,<html><body>test</body></html>")); err != nil {
		s.log.Warn("chromedp not available, ranking images disabled",
			slog.String("error", err.Error()))
	} else {
		s.available = true
	}
	return s
}

func (s *RankingImageService) Available() bool {
	return s.available
}

// Generate renders the top entries. symbols and levels are positional
// decorations supplied by the caller.
func (s *RankingImageService) Generate(ctx context.Context, entries []game.RankEntry, symbols []string, levelFor func(int) string) ([]byte, error) {
	if !s.available {
		return nil, fmt.Errorf("image generation unavailable")
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no ranking entries to render")
	}
	if len(entries) > 5 {
		entries = entries[:5]
	}

	data := rankingTemplateData{Timestamp: time.Now().Format("15:04 MST")}
	for i, e := range entries {
		symbol := "•"
		if i < len(symbols) {
			symbol = symbols[i]
		}
		data.Entries = append(data.Entries, rankingTemplateEntry{
			Position: i + 1,
			Symbol:   symbol,
			Name:     e.DisplayName,
			Points:   e.Points,
			Level:    levelFor(e.Points),
		})
	}

	htmlContent, err := s.renderHTML(data)
	if err != nil {
		return nil, err
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()
	chromedpCtx, cancelTimeout := context.WithTimeout(chromedpCtx, 15*time.Second)
	defer cancelTimeout()

	var imageBytes []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("data:text/html,"+htmlContent),
		chromedp.WaitVisible("#ranking-container", chromedp.ByID),
		chromedp.Sleep(300*time.Millisecond),
		chromedp.Screenshot("#ranking-container", &imageBytes, chromedp.ByID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render ranking image: %w", err)
	}
	return imageBytes, nil
}

var rankingTemplate = template.Must(template.New("ranking").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { margin: 0; background: transparent; font-family: 'Segoe UI', sans-serif; }
  #ranking-container {
    width: 460px; padding: 24px; border-radius: 16px;
    background: linear-gradient(160deg, %231f2430, %23101318);
    color: %23f5f0e1;
  }
  h1 { font-size: 20px; margin: 0 0 4px; color: %23ffd700; }
  .timestamp { font-size: 11px; color: %238a8f9c; margin-bottom: 16px; }
  .row { display: flex; align-items: center; padding: 8px 10px; border-radius: 8px; }
  .row:nth-child(odd) { background: rgba(255, 215, 0, 0.06); }
  .symbol { width: 32px; font-size: 18px; }
  .name { flex: 1; font-size: 15px; }
  .points { font-size: 15px; font-weight: bold; color: %23ffd700; }
  .level { font-size: 11px; color: %238a8f9c; margin-left: 8px; }
</style>
</head>
<body>
<div id="ranking-container">
  <h1>🏆 Aurum Mining Ranking</h1>
  <div class="timestamp">{{.Timestamp}}</div>
  {{range .Entries}}
  <div class="row">
    <span class="symbol">{{.Symbol}}</span>
    <span class="name">{{.Name}}</span>
    <span class="points">{{.Points}} pts</span>
    <span class="level">{{.Level}}</span>
  </div>
  {{end}}
</div>
</body>
</html>`))

func (s *RankingImageService) renderHTML(data rankingTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := rankingTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute ranking template: %w", err)
	}
	// The page is loaded through a data: URL; escape the fragment marker.
	htmlContent := strings.ReplaceAll(buf.String(), "#", "%23")
	return strings.ReplaceAll(htmlContent, "\n", ""), nil
}
