package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const persistTimeout = 10 * time.Second

// Persister writes a snapshot to durable storage. Save is called after every
// state-changing event; a failure is logged and the in-memory state stays
// authoritative until the next save.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
}

// Engine owns the whole game state behind one mutex. Every operation that
// touches more than one field runs as a single critical section; outbound
// notifications and snapshot writes happen after the lock is released, once
// the decision is already committed.
type Engine struct {
	cfg       Config
	clock     Clock
	notifier  Notifier
	persister Persister
	log       *slog.Logger

	mu sync.Mutex
	st state
}

func New(cfg Config, clock Clock, notifier Notifier, persister Persister) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return &Engine{
		cfg:       cfg,
		clock:     clock,
		notifier:  notifier,
		persister: persister,
		log:       slog.With(slog.String("type", "game")),
		st:        newState(),
	}, nil
}

// Restore loads a previously persisted snapshot. Call before serving events.
func (e *Engine) Restore(snap Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.restore(snap)
	e.log.Info("Game state restored",
		slog.Int("miners", len(e.st.points)),
		slog.Int("history", len(e.st.history)),
		slog.String("day", e.st.currentDay.String()))
}

// ensureRolloverLocked resets the per-day counters the first time any
// operation observes a new reference-timezone date. Callers hold e.mu.
func (e *Engine) ensureRolloverLocked() {
	today := DateOf(e.clock.Now().In(e.cfg.Location))
	if today == e.st.currentDay {
		return
	}
	e.st.currentDay = today
	e.st.messageCount = 0
	e.st.dropIndex = 0
	e.st.dailyTotal = 0
	e.st.dailyWinners = make(map[string]struct{})
	e.log.Info("New game day, counters reset", slog.String("day", today.String()))
}

func (e *Engine) specialDay(now time.Time) bool {
	return e.cfg.SundaySpecial && now.In(e.cfg.Location).Weekday() == time.Sunday
}

// OnMessage counts a chat message toward the drop schedule. Crossing the
// current threshold opens a drop; the check-and-increment is one critical
// section, so concurrent messages open at most one drop per crossing.
func (e *Engine) OnMessage(userID, displayName string, textLen int) {
	if textLen < e.cfg.MinMessageLength {
		return
	}

	e.mu.Lock()
	e.ensureRolloverLocked()
	e.st.names[userID] = displayName

	if e.st.dailyTotal >= e.cfg.DailyMaxWinners || e.st.dropIndex >= len(e.cfg.Thresholds) {
		e.mu.Unlock()
		return
	}

	e.st.messageCount++
	count := e.st.messageCount
	idx := e.st.dropIndex
	threshold := e.cfg.Thresholds[idx]
	crossed := count >= threshold
	if crossed {
		e.st.messageCount = 0
		e.st.dropIndex++
	}
	e.mu.Unlock()

	e.log.Debug("Message counted",
		slog.Int("count", count),
		slog.Int("threshold", threshold),
		slog.Int("drop_index", idx))

	if crossed {
		e.openDrop()
	}
}

// openDrop transitions IDLE -> OPEN. It refuses silently while a drop is
// live or the daily cap is already reached. Both timers are armed here, once;
// they re-validate state when they fire so stale firings are no-ops.
func (e *Engine) openDrop() {
	now := e.clock.Now()

	e.mu.Lock()
	e.ensureRolloverLocked()
	if e.st.dailyTotal >= e.cfg.DailyMaxWinners {
		e.mu.Unlock()
		e.log.Warn("Drop refused: daily limit reached")
		return
	}
	if e.st.active != nil {
		e.mu.Unlock()
		e.log.Warn("Drop refused: another drop is already live")
		return
	}
	d := &drop{
		openedAt: now,
		deadline: now.Add(e.cfg.ResponseWindow),
	}
	e.st.active = d
	e.st.lastWon = nil
	e.mu.Unlock()

	e.clock.AfterFunc(e.cfg.ResponseWindow, func() { e.dropTimeout(d) })
	e.clock.AfterFunc(e.cfg.ResponseWindow+e.cfg.Grace, func() { e.dropCleanup(d) })

	msgID, err := e.notifier.DropOpened(e.cfg.ResponseWindow)

	e.mu.Lock()
	if e.st.active == d {
		d.message = msgID
	}
	e.mu.Unlock()

	if err != nil {
		// The drop stays live and will time out on its own; the decision
		// to open it is already committed.
		e.log.Error("Failed to announce drop", slog.Any("error", err))
		return
	}
	e.log.Info("Drop opened",
		slog.String("message_id", msgID.String()),
		slog.Time("deadline", d.deadline))
}

// dropTimeout fires when the response window elapses. It announces the
// timeout once, only if the drop is still live and unwon.
func (e *Engine) dropTimeout(d *drop) {
	e.mu.Lock()
	live := e.st.active == d && d.winner == "" && !e.clock.Now().Before(d.deadline)
	e.mu.Unlock()
	if !live {
		return
	}
	e.notifier.DropTimedOut()
	e.log.Info("Drop timed out with no winner")
}

// dropCleanup fires when the grace period after the deadline elapses. It
// clears a still-unwon drop and persists.
func (e *Engine) dropCleanup(d *drop) {
	e.mu.Lock()
	if e.st.active != d || d.winner != "" {
		e.mu.Unlock()
		return
	}
	e.st.active = nil
	msg := d.message
	snap := e.st.snapshot()
	e.mu.Unlock()

	if msg != 0 {
		e.notifier.ClaimOutcome(msg, OutcomeExpired)
	}
	e.persist(snap)
	e.log.Info("Drop cleaned up after grace period")
}

// Claim resolves one claim attempt. The whole decision runs under the lock;
// the eligibility checks run in a fixed order because each branch carries a
// distinct side effect: limit and already-claimed terminate the drop early,
// while losing the race to another winner must not touch anything.
func (e *Engine) Claim(userID, displayName string, message snowflake.ID) ClaimResult {
	now := e.clock.Now()

	e.mu.Lock()
	e.ensureRolloverLocked()
	e.st.names[userID] = displayName

	d := e.st.active
	var (
		res  ClaimResult
		snap *Snapshot
	)
	switch {
	case d == nil:
		if lw := e.st.lastWon; lw != nil && lw.winner != "" && !now.After(lw.deadline.Add(e.cfg.Grace)) {
			res.Outcome = OutcomeAlreadyWon
		} else {
			res.Outcome = OutcomeNoActiveDrop
		}

	case now.After(d.deadline.Add(e.cfg.Grace)):
		res.Outcome = OutcomeExpired

	case e.st.dailyTotal >= e.cfg.DailyMaxWinners:
		res.Outcome = OutcomeLimitReached
		e.st.active = nil
		e.st.lastWon = nil
		s := e.st.snapshot()
		snap = &s

	case e.cfg.OneWinPerUser && e.wonTodayLocked(userID):
		res.Outcome = OutcomeAlreadyClaimed
		e.st.active = nil
		e.st.lastWon = nil
		s := e.st.snapshot()
		snap = &s

	case d.winner != "":
		res.Outcome = OutcomeAlreadyWon

	default:
		special := e.specialDay(now)
		delta := 1
		if special {
			delta = 2
		}
		d.winner = userID
		e.st.points[userID] += delta
		total := e.st.points[userID]
		e.st.history = append(e.st.history, Award{
			UserID:      userID,
			DisplayName: displayName,
			Delta:       delta,
			Total:       total,
			WonAt:       now.UTC(),
			SpecialDay:  special,
		})
		e.st.dailyTotal++
		e.st.dailyWinners[userID] = struct{}{}
		e.st.active = nil
		e.st.lastWon = d
		res = ClaimResult{
			Outcome: OutcomeAwarded,
			Delta:   delta,
			Total:   total,
			Level:   e.cfg.LevelFor(total),
			Special: special,
		}
		s := e.st.snapshot()
		snap = &s
	}
	e.mu.Unlock()

	e.log.Info("Claim resolved",
		slog.String("user_id", userID),
		slog.String("user_name", displayName),
		slog.String("outcome", res.Outcome.String()))

	if res.Outcome == OutcomeAwarded {
		e.notifier.AwardWon(displayName, res.Delta, res.Total, res.Level, res.Special)
	}
	e.notifier.ClaimOutcome(message, res.Outcome)
	if snap != nil {
		e.persist(*snap)
	}
	return res
}

func (e *Engine) wonTodayLocked(userID string) bool {
	_, ok := e.st.dailyWinners[userID]
	return ok
}

func (e *Engine) persist(snap Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := e.persister.Save(ctx, snap); err != nil {
		e.log.Error("Failed to persist snapshot",
			slog.String("type", "db"),
			slog.Any("error", err))
	}
}

// Persist writes the current state out, for the periodic snapshot loop and
// for shutdown.
func (e *Engine) Persist(ctx context.Context) error {
	e.mu.Lock()
	snap := e.st.snapshot()
	e.mu.Unlock()
	return e.persister.Save(ctx, snap)
}

// PointsOf reports a user's points and level, refreshing their cached
// display name on the way.
func (e *Engine) PointsOf(userID, displayName string) (int, string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureRolloverLocked()
	if displayName != "" {
		e.st.names[userID] = displayName
	}
	pts := e.st.points[userID]
	return pts, e.cfg.LevelFor(pts)
}

type RankEntry struct {
	UserID      string
	DisplayName string
	Points      int
}

// Ranking returns users ordered by points, highest first. topN <= 0 returns
// everyone.
func (e *Engine) Ranking(topN int) []RankEntry {
	e.mu.Lock()
	e.ensureRolloverLocked()
	entries := make([]RankEntry, 0, len(e.st.points))
	for id, pts := range e.st.points {
		name := e.st.names[id]
		if name == "" {
			name = id
		}
		entries = append(entries, RankEntry{UserID: id, DisplayName: name, Points: pts})
	}
	e.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})
	if topN > 0 && len(entries) > topN {
		entries = entries[:topN]
	}
	return entries
}

type DashboardStats struct {
	Day            Date
	MessageCount   int
	DropsTriggered int
	ScheduleLen    int
	UniqueWinners  int
	MaxWinners     int
}

func (e *Engine) Dashboard() DashboardStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureRolloverLocked()
	return DashboardStats{
		Day:            e.st.currentDay,
		MessageCount:   e.st.messageCount,
		DropsTriggered: e.st.dropIndex,
		ScheduleLen:    len(e.cfg.Thresholds),
		UniqueWinners:  len(e.st.dailyWinners),
		MaxWinners:     e.cfg.DailyMaxWinners,
	}
}

// HistoryWindow returns the awards won between start and end inclusive,
// dated in the reference timezone, in insertion order.
func (e *Engine) HistoryWindow(start, end Date) []Award {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ensureRolloverLocked()
	var out []Award
	for _, a := range e.st.history {
		day := DateOf(a.WonAt.In(e.cfg.Location))
		if day.Before(start) || day.After(end) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Level exposes the cosmetic level name for a point total.
func (e *Engine) Level(points int) string {
	return e.cfg.LevelFor(points)
}

// Rules exposes the display-relevant parts of the configuration. The slices
// are copied so callers cannot reach back into the engine's config.
func (e *Engine) Rules() Config {
	cfg := e.cfg
	cfg.Thresholds = append([]int(nil), e.cfg.Thresholds...)
	cfg.Levels = append([]Level(nil), e.cfg.Levels...)
	return cfg
}
