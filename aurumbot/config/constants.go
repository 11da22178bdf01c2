package config

import "time"

// UI constants
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	EmbedDefaultColor = 0x2B2D31
	GoldColor         = 0xFFD700

	RankingPageSize = 10
)

// RankSymbols decorate the top ranking positions, in order.
var RankSymbols = []string{"🥇", "🥈", "🥉", "🎯", "🔥", "⚡", "🌟", "🪙", "🚀", "💎"}

// Timeouts
const (
	CommandExecutionTimeout = 10 * time.Second
	DefaultQueryTimeout     = 30 * time.Second
	ExportUploadTimeout     = 60 * time.Second
	SnapshotInterval        = 5 * time.Minute
)
