package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Award is one persisted history entry. Seq is the entry's position in the
// in-memory history, so snapshot writes only append rows that are not stored
// yet and loads rebuild the history in insertion order.
type Award struct {
	bun.BaseModel `bun:"table:awards,alias:a"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Seq         int       `bun:"seq,notnull,unique"`
	UserID      string    `bun:"user_id,notnull"`
	DisplayName string    `bun:"display_name,notnull"`
	Delta       int       `bun:"delta,notnull"`
	Total       int       `bun:"total,notnull"`
	WonAt       time.Time `bun:"won_at,notnull"`
	SpecialDay  bool      `bun:"special_day,notnull,default:false"`
}
