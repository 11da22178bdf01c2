package game

import (
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Date is a calendar day in the reference timezone. Days are compared field
// by field rather than through string formatting so rollover cannot be fooled
// by formatting drift.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO date (2006-01-02), the persisted form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

// Award is one history entry. History is append-only; entries are never
// mutated or removed.
type Award struct {
	UserID      string
	DisplayName string
	Delta       int
	Total       int
	WonAt       time.Time // UTC
	SpecialDay  bool
}

// drop is the at-most-one live drop. Winner is set at most once, under the
// engine lock, by the claim that wins the race.
type drop struct {
	openedAt time.Time
	message  snowflake.ID
	winner   string
	deadline time.Time
}

// state is the single exclusively-owned container for all mutable game data.
// Every multi-field read or read-then-write happens under Engine.mu.
type state struct {
	points  map[string]int
	names   map[string]string
	history []Award

	active *drop
	// lastWon remembers the most recently decided drop so that claims
	// racing just behind the winner read as "too slow" rather than
	// "expired" for the rest of the drop's window.
	lastWon *drop

	currentDay   Date
	messageCount int
	dropIndex    int
	dailyTotal   int
	dailyWinners map[string]struct{}
}

func newState() state {
	return state{
		points:       make(map[string]int),
		names:        make(map[string]string),
		dailyWinners: make(map[string]struct{}),
	}
}

// Snapshot is the persisted view of the game: points ledger, name cache,
// full history and the current game day. It round-trips losslessly through
// the Persister.
type Snapshot struct {
	Points     map[string]int
	Names      map[string]string
	History    []Award
	CurrentDay Date
}

func (s *state) snapshot() Snapshot {
	snap := Snapshot{
		Points:     make(map[string]int, len(s.points)),
		Names:      make(map[string]string, len(s.names)),
		History:    make([]Award, len(s.history)),
		CurrentDay: s.currentDay,
	}
	for id, pts := range s.points {
		snap.Points[id] = pts
	}
	for id, name := range s.names {
		snap.Names[id] = name
	}
	copy(snap.History, s.history)
	return snap
}

func (s *state) restore(snap Snapshot) {
	s.points = make(map[string]int, len(snap.Points))
	for id, pts := range snap.Points {
		s.points[id] = pts
	}
	s.names = make(map[string]string, len(snap.Names))
	for id, name := range snap.Names {
		s.names[id] = name
	}
	s.history = make([]Award, len(snap.History))
	copy(s.history, snap.History)
	s.currentDay = snap.CurrentDay
}
