package game

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Outcome is the result of a single claim attempt. None of these are errors;
// each maps to a distinct user-facing acknowledgement.
type Outcome int

const (
	OutcomeAwarded Outcome = iota
	OutcomeNoActiveDrop
	OutcomeExpired
	OutcomeLimitReached
	OutcomeAlreadyClaimed
	OutcomeAlreadyWon
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAwarded:
		return "awarded"
	case OutcomeNoActiveDrop:
		return "no_active_drop"
	case OutcomeExpired:
		return "expired"
	case OutcomeLimitReached:
		return "limit_reached"
	case OutcomeAlreadyClaimed:
		return "already_claimed"
	case OutcomeAlreadyWon:
		return "already_won"
	default:
		return "unknown"
	}
}

// ClaimResult carries the outcome of a claim plus, for awards, the points
// actually granted.
type ClaimResult struct {
	Outcome Outcome
	Delta   int
	Total   int
	Level   string
	Special bool
}

// Notifier is the outbound transport boundary. Calls happen outside the
// engine lock; failures are the implementation's problem and never undo a
// decision the engine already committed.
type Notifier interface {
	// DropOpened announces a new drop and returns the handle of the
	// announcement message.
	DropOpened(window time.Duration) (snowflake.ID, error)
	DropTimedOut()
	AwardWon(displayName string, delta, total int, level string, special bool)
	// ClaimOutcome acknowledges a claim by editing the drop message.
	ClaimOutcome(message snowflake.ID, outcome Outcome)
}
