package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GameDayID is the primary key of the single game_days row.
const GameDayID = 1

// GameDay is a singleton row holding the reference-timezone date the daily
// counters belong to.
type GameDay struct {
	bun.BaseModel `bun:"table:game_days,alias:gd"`

	ID         int64     `bun:"id,pk"`
	CurrentDay string    `bun:"current_day,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}
