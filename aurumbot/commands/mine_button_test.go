package commands

import (
	"strings"
	"testing"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

func TestClaimReply(t *testing.T) {
	tests := []struct {
		name   string
		result game.ClaimResult
		want   string
	}{
		{
			name:   "awarded",
			result: game.ClaimResult{Outcome: game.OutcomeAwarded, Delta: 1, Total: 7, Level: "🥉 Bronze"},
			want:   "+1",
		},
		{
			name:   "awarded special sunday",
			result: game.ClaimResult{Outcome: game.OutcomeAwarded, Delta: 2, Total: 4, Level: "🟢 Starter", Special: true},
			want:   "Sunday special",
		},
		{
			name:   "no active drop",
			result: game.ClaimResult{Outcome: game.OutcomeNoActiveDrop},
			want:   "no gold",
		},
		{
			name:   "expired",
			result: game.ClaimResult{Outcome: game.OutcomeExpired},
			want:   "Too slow",
		},
		{
			name:   "limit reached",
			result: game.ClaimResult{Outcome: game.OutcomeLimitReached},
			want:   "exhausted",
		},
		{
			name:   "already claimed",
			result: game.ClaimResult{Outcome: game.OutcomeAlreadyClaimed},
			want:   "already struck gold",
		},
		{
			name:   "already won",
			result: game.ClaimResult{Outcome: game.OutcomeAlreadyWon},
			want:   "beat you to it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := claimReply("@miner", tt.result)
			if !strings.Contains(got, tt.want) {
				t.Errorf("claimReply(%s) = %q, want substring %q", tt.result.Outcome, got, tt.want)
			}
		})
	}
}

func TestMinerNamesFuzzySource(t *testing.T) {
	entries := minerNames{
		{UserID: "1", DisplayName: "Alice", Points: 5},
		{UserID: "2", DisplayName: "Bob", Points: 3},
	}
	if entries.Len() != 2 {
		t.Errorf("Len = %d", entries.Len())
	}
	if entries.String(1) != "Bob" {
		t.Errorf("String(1) = %q", entries.String(1))
	}
}
