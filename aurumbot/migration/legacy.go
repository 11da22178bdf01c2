package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/database/repositories"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

// legacyFile mirrors the aurum_data.json layout of the original bot.
type legacyFile struct {
	Points     map[string]int    `json:"points"`
	Names      map[string]string `json:"names"`
	History    []legacyAward     `json:"history"`
	CurrentDay string            `json:"current_day"`
}

type legacyAward struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	DisplayName   string `json:"display_name"`
	DeltaPoints   int    `json:"delta_points"`
	Points        int    `json:"points"`
	Timestamp     string `json:"timestamp"`
	SpecialSunday bool   `json:"special_sunday"`
}

// timestamps were written as naive UTC ISO strings, with or without
// fractional seconds
var legacyTimeLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ImportLegacyJSON reads an aurum_data.json file from the original bot,
// converts it into a snapshot and persists it through the repository. It
// returns the imported snapshot so the caller can seed the engine directly.
func ImportLegacyJSON(ctx context.Context, path string, repo repositories.SnapshotRepository) (game.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to read legacy data file: %w", err)
	}

	var legacy legacyFile
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to parse legacy data file: %w", err)
	}

	snap := game.Snapshot{
		Points: legacy.Points,
		Names:  map[string]string{},
	}
	for id, name := range legacy.Names {
		if name != "" {
			snap.Names[id] = name
		}
	}

	if legacy.CurrentDay != "" {
		day, err := game.ParseDate(legacy.CurrentDay)
		if err != nil {
			return game.Snapshot{}, fmt.Errorf("legacy current_day: %w", err)
		}
		snap.CurrentDay = day
	}

	var skipped int
	for _, a := range legacy.History {
		wonAt, err := parseLegacyTime(a.Timestamp)
		if err != nil {
			skipped++
			continue
		}
		name := a.DisplayName
		if name == "" {
			name = a.Username
		}
		snap.History = append(snap.History, game.Award{
			UserID:      a.UserID,
			DisplayName: name,
			Delta:       a.DeltaPoints,
			Total:       a.Points,
			WonAt:       wonAt,
			SpecialDay:  a.SpecialSunday,
		})
	}
	if skipped > 0 {
		slog.Warn("Skipped legacy history entries with unparseable timestamps",
			slog.String("type", "db"),
			slog.Int("skipped", skipped))
	}

	if err := repo.Save(ctx, snap); err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to persist imported snapshot: %w", err)
	}

	slog.Info("Imported legacy data",
		slog.String("type", "db"),
		slog.String("file", path),
		slog.Int("miners", len(snap.Points)),
		slog.Int("awards", len(snap.History)))
	return snap, nil
}

func parseLegacyTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range legacyTimeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
