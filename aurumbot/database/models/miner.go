package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Miner is one chat participant: the persisted points ledger entry plus the
// last display name we saw for them. Participants who chatted but never won
// sit at zero points.
type Miner struct {
	bun.BaseModel `bun:"table:miners,alias:m"`

	UserID      string    `bun:"user_id,pk"`
	DisplayName string    `bun:"display_name,notnull,default:''"`
	Points      int       `bun:"points,notnull,default:0"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
