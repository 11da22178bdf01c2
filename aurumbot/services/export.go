package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

// ExportService renders award history windows as CSV for the weekly export.
type ExportService struct {
	loc *time.Location
}

func NewExportService(loc *time.Location) *ExportService {
	return &ExportService{loc: loc}
}

// CurrentWeek returns the Monday..Sunday window containing now, in the
// reference timezone.
func (s *ExportService) CurrentWeek(now time.Time) (game.Date, game.Date) {
	local := now.In(s.loc)
	// time.Weekday starts the week on Sunday; shift so Monday is day 0.
	offset := (int(local.Weekday()) + 6) % 7
	monday := local.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return game.DateOf(monday), game.DateOf(sunday)
}

// Filename names a weekly export file after its window.
func (s *ExportService) Filename(start, end game.Date) string {
	return fmt.Sprintf("aurum_export_%s_%s.csv", start, end)
}

// BuildCSV renders the awards to CSV in insertion order.
func (s *ExportService) BuildCSV(awards []game.Award) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"user_id", "display_name", "points", "delta_points", "timestamp", "special_sunday"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	for _, a := range awards {
		record := []string{
			a.UserID,
			a.DisplayName,
			strconv.Itoa(a.Total),
			strconv.Itoa(a.Delta),
			a.WonAt.Format(time.RFC3339),
			strconv.FormatBool(a.SpecialDay),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}
	return buf.Bytes(), nil
}
