package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/database/models"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

// SnapshotRepository persists and restores the full game snapshot: the points
// ledger, the name cache, the award history and the current game day.
// It implements game.Persister.
type SnapshotRepository interface {
	Save(ctx context.Context, snap game.Snapshot) error
	Load(ctx context.Context) (game.Snapshot, error)
}

type snapshotRepository struct {
	db *bun.DB
}

func NewSnapshotRepository(db *bun.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(ctx context.Context, snap game.Snapshot) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.saveMiners(ctx, snap) })
	g.Go(func() error { return r.saveAwards(ctx, snap.History) })
	g.Go(func() error { return r.saveGameDay(ctx, snap.CurrentDay) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepository) saveMiners(ctx context.Context, snap game.Snapshot) error {
	now := time.Now()
	miners := make([]models.Miner, 0, len(snap.Names))
	seen := make(map[string]struct{}, len(snap.Names))
	for id, name := range snap.Names {
		miners = append(miners, models.Miner{
			UserID:      id,
			DisplayName: name,
			Points:      snap.Points[id],
			UpdatedAt:   now,
		})
		seen[id] = struct{}{}
	}
	// Points without a cached name can happen after a legacy import.
	for id, pts := range snap.Points {
		if _, ok := seen[id]; ok {
			continue
		}
		miners = append(miners, models.Miner{UserID: id, Points: pts, UpdatedAt: now})
	}
	if len(miners) == 0 {
		return nil
	}

	_, err := r.db.NewInsert().
		Model(&miners).
		On("CONFLICT (user_id) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Set("points = EXCLUDED.points").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// saveAwards appends history rows that are not stored yet. History is
// append-only, so rows at or below the stored high-water mark are already
// identical in the database.
func (r *snapshotRepository) saveAwards(ctx context.Context, history []game.Award) error {
	var maxSeq int
	err := r.db.NewSelect().
		Model((*models.Award)(nil)).
		ColumnExpr("COALESCE(MAX(seq), -1)").
		Scan(ctx, &maxSeq)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if maxSeq >= len(history)-1 {
		return nil
	}

	rows := make([]models.Award, 0, len(history)-maxSeq-1)
	for seq := maxSeq + 1; seq < len(history); seq++ {
		a := history[seq]
		rows = append(rows, models.Award{
			Seq:         seq,
			UserID:      a.UserID,
			DisplayName: a.DisplayName,
			Delta:       a.Delta,
			Total:       a.Total,
			WonAt:       a.WonAt,
			SpecialDay:  a.SpecialDay,
		})
	}
	_, err = r.db.NewInsert().
		Model(&rows).
		On("CONFLICT (seq) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *snapshotRepository) saveGameDay(ctx context.Context, day game.Date) error {
	if day.IsZero() {
		return nil
	}
	row := models.GameDay{
		ID:         models.GameDayID,
		CurrentDay: day.String(),
		UpdatedAt:  time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("current_day = EXCLUDED.current_day").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *snapshotRepository) Load(ctx context.Context) (game.Snapshot, error) {
	snap := game.Snapshot{
		Points: make(map[string]int),
		Names:  make(map[string]string),
	}

	var miners []models.Miner
	if err := r.db.NewSelect().Model(&miners).Scan(ctx); err != nil {
		return snap, fmt.Errorf("failed to load miners: %w", err)
	}
	for _, m := range miners {
		if m.DisplayName != "" {
			snap.Names[m.UserID] = m.DisplayName
		}
		if m.Points > 0 {
			snap.Points[m.UserID] = m.Points
		}
	}

	var awards []models.Award
	if err := r.db.NewSelect().Model(&awards).Order("seq ASC").Scan(ctx); err != nil {
		return snap, fmt.Errorf("failed to load awards: %w", err)
	}
	snap.History = make([]game.Award, 0, len(awards))
	for _, a := range awards {
		snap.History = append(snap.History, game.Award{
			UserID:      a.UserID,
			DisplayName: a.DisplayName,
			Delta:       a.Delta,
			Total:       a.Total,
			WonAt:       a.WonAt.UTC(),
			SpecialDay:  a.SpecialDay,
		})
	}

	day := new(models.GameDay)
	err := r.db.NewSelect().Model(day).Where("id = ?", models.GameDayID).Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Fresh database: the engine rolls over on the first event.
	case err != nil:
		return snap, fmt.Errorf("failed to load game day: %w", err)
	default:
		parsed, perr := game.ParseDate(day.CurrentDay)
		if perr != nil {
			slog.Warn("Ignoring malformed persisted game day",
				slog.String("type", "db"),
				slog.String("value", day.CurrentDay),
				slog.Any("error", perr))
		} else {
			snap.CurrentDay = parsed
		}
	}

	return snap, nil
}
