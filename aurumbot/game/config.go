package game

import (
	"fmt"
	"time"
)

// Config holds the game rules. It is fixed at startup; the engine never
// mutates it.
type Config struct {
	ResponseWindow   time.Duration
	Grace            time.Duration
	MinMessageLength int

	// Thresholds is the per-day drop schedule: the n-th drop of the day
	// opens once Thresholds[n] qualifying messages have been counted since
	// the previous drop (or since rollover).
	Thresholds []int

	DailyMaxWinners int
	OneWinPerUser   bool
	SundaySpecial   bool

	// Location is the reference timezone for day rollover, special-day
	// checks and export windows.
	Location *time.Location

	// Levels are cosmetic display tiers, ordered by ascending MinPoints.
	Levels []Level
}

type Level struct {
	MinPoints int
	Name      string
}

// DefaultLevels returns the standard Aurum level ladder.
func DefaultLevels() []Level {
	return []Level{
		{0, "🟢 Starter"},
		{30, "🥉 Bronze"},
		{50, "🥈 Silver"},
		{100, "🥇 Golden"},
		{200, "🛡️ Platinum"},
		{300, "💎 Diamond"},
		{500, "👑 Legendary"},
	}
}

func (c *Config) Validate() error {
	if c.ResponseWindow <= 0 {
		return fmt.Errorf("response window must be positive, got %s", c.ResponseWindow)
	}
	if c.Grace < 0 {
		return fmt.Errorf("grace period must not be negative, got %s", c.Grace)
	}
	if len(c.Thresholds) == 0 {
		return fmt.Errorf("drop schedule is empty")
	}
	for i, t := range c.Thresholds {
		if t <= 0 {
			return fmt.Errorf("drop schedule entry %d must be positive, got %d", i, t)
		}
	}
	if c.DailyMaxWinners <= 0 {
		return fmt.Errorf("daily max winners must be positive, got %d", c.DailyMaxWinners)
	}
	if c.MinMessageLength < 0 {
		return fmt.Errorf("minimum message length must not be negative, got %d", c.MinMessageLength)
	}
	if c.Location == nil {
		return fmt.Errorf("reference timezone is not set")
	}
	for i := 1; i < len(c.Levels); i++ {
		if c.Levels[i].MinPoints <= c.Levels[i-1].MinPoints {
			return fmt.Errorf("level thresholds must be strictly increasing, got %d after %d",
				c.Levels[i].MinPoints, c.Levels[i-1].MinPoints)
		}
	}
	return nil
}

// LevelFor returns the display name of the highest level tier reached.
func (c *Config) LevelFor(points int) string {
	for i := len(c.Levels) - 1; i >= 0; i-- {
		if points >= c.Levels[i].MinPoints {
			return c.Levels[i].Name
		}
	}
	if len(c.Levels) > 0 {
		return c.Levels[0].Name
	}
	return ""
}
