package aurumbot

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/database"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Bot    BotConfig         `toml:"bot"`
	DB     database.DBConfig `toml:"db"`
	Game   GameConfig        `toml:"game"`
	Spaces SpacesConfig      `toml:"spaces"`
}

type BotConfig struct {
	Token     string         `toml:"token"`
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	// ChannelID is the single group channel the game runs in.
	ChannelID snowflake.ID `toml:"channel_id"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type SpacesConfig struct {
	Key        string `toml:"key"`
	Secret     string `toml:"secret"`
	Region     string `toml:"region"`
	Bucket     string `toml:"bucket"`
	ExportRoot string `toml:"export_root"`
}

// GameConfig is the TOML shape of the game rules. Zero values fall back to
// the classic Aurum defaults.
type GameConfig struct {
	ResponseWindowSeconds int           `toml:"response_window_seconds"`
	GraceSeconds          int           `toml:"grace_seconds"`
	MinMessageLength      int           `toml:"min_message_length"`
	Thresholds            []int         `toml:"thresholds"`
	DailyMaxWinners       int           `toml:"daily_max_winners"`
	OneWinPerUser         *bool         `toml:"one_win_per_user"`
	SundaySpecial         *bool         `toml:"sunday_special"`
	Timezone              string        `toml:"timezone"`
	Levels                []LevelConfig `toml:"levels"`
}

type LevelConfig struct {
	MinPoints int    `toml:"min_points"`
	Name      string `toml:"name"`
}

var defaultThresholds = []int{20, 40, 60, 100, 100, 100, 50, 80, 120, 150}

// ToGame resolves defaults and builds the validated engine configuration.
func (c GameConfig) ToGame() (game.Config, error) {
	cfg := game.Config{
		ResponseWindow:   30 * time.Second,
		Grace:            2 * time.Second,
		MinMessageLength: 5,
		Thresholds:       defaultThresholds,
		DailyMaxWinners:  10,
		OneWinPerUser:    true,
		SundaySpecial:    true,
		Levels:           game.DefaultLevels(),
	}

	if c.ResponseWindowSeconds > 0 {
		cfg.ResponseWindow = time.Duration(c.ResponseWindowSeconds) * time.Second
	}
	if c.GraceSeconds > 0 {
		cfg.Grace = time.Duration(c.GraceSeconds) * time.Second
	}
	if c.MinMessageLength > 0 {
		cfg.MinMessageLength = c.MinMessageLength
	}
	if len(c.Thresholds) > 0 {
		cfg.Thresholds = c.Thresholds
	}
	if c.DailyMaxWinners > 0 {
		cfg.DailyMaxWinners = c.DailyMaxWinners
	}
	if c.OneWinPerUser != nil {
		cfg.OneWinPerUser = *c.OneWinPerUser
	}
	if c.SundaySpecial != nil {
		cfg.SundaySpecial = *c.SundaySpecial
	}
	if len(c.Levels) > 0 {
		cfg.Levels = make([]game.Level, 0, len(c.Levels))
		for _, l := range c.Levels {
			cfg.Levels = append(cfg.Levels, game.Level{MinPoints: l.MinPoints, Name: l.Name})
		}
	}

	tz := c.Timezone
	if tz == "" {
		tz = "Europe/Paris"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return game.Config{}, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}
