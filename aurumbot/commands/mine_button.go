package commands

import (
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	lru "github.com/hashicorp/golang-lru"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

const seenInteractions = 2048

// MineButtonHandler resolves Mine! button presses. The gateway can redeliver
// an interaction after a reconnect, so presses are deduplicated by
// interaction ID before they reach the claim path.
func MineButtonHandler(b *aurumbot.Bot) handler.ComponentHandler {
	seen, _ := lru.New(seenInteractions)

	return func(e *handler.ComponentEvent) error {
		if ok, _ := seen.ContainsOrAdd(e.ID(), struct{}{}); ok {
			slog.Debug("Dropping redelivered interaction",
				slog.String("type", "component"),
				slog.String("interaction_id", e.ID().String()))
			return e.DeferUpdateMessage()
		}

		result := b.Engine.Claim(e.User().ID.String(), e.User().Username, e.Message.ID)

		slog.Info("Claim resolved",
			slog.String("type", "game"),
			slog.String("user_id", e.User().ID.String()),
			slog.String("outcome", result.Outcome.String()))

		return e.CreateMessage(discord.MessageCreate{
			Content: claimReply(e.User().Mention(), result),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}

func claimReply(mention string, r game.ClaimResult) string {
	switch r.Outcome {
	case game.OutcomeAwarded:
		msg := fmt.Sprintf("⛏️ You struck gold, %s! **+%d** point(s), **%d** total — %s",
			mention, r.Delta, r.Total, r.Level)
		if r.Special {
			msg += "\n✨ Sunday special: double points!"
		}
		return msg
	case game.OutcomeNoActiveDrop:
		return "There's no gold to mine right now. Keep chatting!"
	case game.OutcomeExpired:
		return "⏱️ Too slow, the gold vein collapsed. Next time!"
	case game.OutcomeLimitReached:
		return "🌙 The mine is exhausted for today. Come back tomorrow!"
	case game.OutcomeAlreadyClaimed:
		return "You already struck gold today. Leave some for the others!"
	case game.OutcomeAlreadyWon:
		return "Someone beat you to it by a hair. Better luck on the next drop!"
	default:
		return "The mine shifted unexpectedly. Try again."
	}
}
