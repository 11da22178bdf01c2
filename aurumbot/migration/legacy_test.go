package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

type memoryRepo struct {
	saved *game.Snapshot
	err   error
}

func (m *memoryRepo) Save(_ context.Context, snap game.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.saved = &snap
	return nil
}

func (m *memoryRepo) Load(context.Context) (game.Snapshot, error) {
	if m.saved == nil {
		return game.Snapshot{}, nil
	}
	return *m.saved, nil
}

const legacyFixture = `{
	"points": {"101": 5, "102": 2},
	"names": {"101": "Alice", "102": ""},
	"history": [
		{
			"user_id": "101",
			"username": "alice_tg",
			"display_name": "Alice",
			"delta_points": 1,
			"points": 5,
			"timestamp": "2025-03-10T14:00:00.123456",
			"special_sunday": false
		},
		{
			"user_id": "102",
			"username": "bob_tg",
			"display_name": "",
			"delta_points": 2,
			"points": 2,
			"timestamp": "2025-03-09T11:00:00",
			"special_sunday": true
		}
	],
	"current_day": "2025-03-10"
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aurum_data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportLegacyJSON(t *testing.T) {
	repo := &memoryRepo{}
	snap, err := ImportLegacyJSON(context.Background(), writeFixture(t, legacyFixture), repo)
	if err != nil {
		t.Fatalf("ImportLegacyJSON: %v", err)
	}

	if snap.Points["101"] != 5 || snap.Points["102"] != 2 {
		t.Errorf("points = %v", snap.Points)
	}
	if snap.Names["101"] != "Alice" {
		t.Errorf("names = %v", snap.Names)
	}
	if _, ok := snap.Names["102"]; ok {
		t.Error("empty legacy names should be dropped")
	}
	if got := snap.CurrentDay.String(); got != "2025-03-10" {
		t.Errorf("current day = %s", got)
	}

	if len(snap.History) != 2 {
		t.Fatalf("history length = %d", len(snap.History))
	}
	first := snap.History[0]
	if first.UserID != "101" || first.Delta != 1 || first.Total != 5 || first.SpecialDay {
		t.Errorf("first award = %+v", first)
	}
	if got := first.WonAt.Format("2006-01-02 15:04:05"); got != "2025-03-10 14:00:00" {
		t.Errorf("first award time = %s", got)
	}
	// missing display name falls back to the telegram username
	if snap.History[1].DisplayName != "bob_tg" {
		t.Errorf("second award name = %q", snap.History[1].DisplayName)
	}

	if repo.saved == nil {
		t.Fatal("snapshot was not persisted")
	}
	if len(repo.saved.History) != 2 {
		t.Errorf("persisted history length = %d", len(repo.saved.History))
	}
}

func TestImportLegacyJSONSkipsBadTimestamps(t *testing.T) {
	const fixture = `{
		"points": {"101": 1},
		"names": {"101": "Alice"},
		"history": [
			{"user_id": "101", "display_name": "Alice", "delta_points": 1, "points": 1, "timestamp": "not-a-time"}
		],
		"current_day": "2025-03-10"
	}`
	repo := &memoryRepo{}
	snap, err := ImportLegacyJSON(context.Background(), writeFixture(t, fixture), repo)
	if err != nil {
		t.Fatalf("ImportLegacyJSON: %v", err)
	}
	if len(snap.History) != 0 {
		t.Errorf("expected unparseable entries to be skipped, got %d", len(snap.History))
	}
}

func TestImportLegacyJSONMissingFile(t *testing.T) {
	_, err := ImportLegacyJSON(context.Background(), filepath.Join(t.TempDir(), "missing.json"), &memoryRepo{})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportLegacyJSONMalformed(t *testing.T) {
	_, err := ImportLegacyJSON(context.Background(), writeFixture(t, "{not json"), &memoryRepo{})
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
}
