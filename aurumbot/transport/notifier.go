// Package transport sends the game's outbound notifications over Discord.
// Failures here are logged and swallowed: by the time a notification is
// published the engine has already committed the decision.
package transport

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

// MineButtonID is the custom ID of the drop claim button, routed to the
// component handler.
const MineButtonID = "/mine/now"

type Notifier struct {
	client    bot.Client
	channelID snowflake.ID
	log       *slog.Logger
}

var _ game.Notifier = (*Notifier)(nil)

func NewNotifier(client bot.Client, channelID snowflake.ID) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
		log:       slog.With(slog.String("type", "game")),
	}
}

// SetClient attaches the gateway client once the bot is set up. The engine
// is constructed before the client exists; no drops open until the gateway
// is receiving messages.
func (n *Notifier) SetClient(client bot.Client) {
	n.client = client
}

func (n *Notifier) DropOpened(window time.Duration) (snowflake.ID, error) {
	msg, err := n.client.Rest().CreateMessage(n.channelID, discord.NewMessageCreateBuilder().
		SetContentf("💥 **Mining drop is live!**\n⏳ Open for %d seconds.\nClick the button below to mine!", int(window.Seconds())).
		AddActionRow(discord.NewPrimaryButton("🪙 Mine coin", MineButtonID)).
		Build())
	if err != nil {
		return 0, fmt.Errorf("failed to announce drop: %w", err)
	}
	return msg.ID, nil
}

func (n *Notifier) DropTimedOut() {
	_, err := n.client.Rest().CreateMessage(n.channelID, discord.NewMessageCreateBuilder().
		SetContent("⏳ Time is up! Nobody mined in time.").
		Build())
	if err != nil {
		n.log.Error("Failed to send timeout notification", slog.Any("error", err))
	}
}

func (n *Notifier) AwardWon(displayName string, delta, total int, level string, special bool) {
	extra := ""
	if special {
		extra = " 🎉 Sunday special! (+2 points)"
	}
	_, err := n.client.Rest().CreateMessage(n.channelID, discord.NewMessageCreateBuilder().
		SetEmbeds(discord.Embed{
			Description: fmt.Sprintf("🏁 **%s** mined the coin!%s\nTotal: %d pts • Level: %s",
				displayName, extra, total, level),
			Color: config.GoldColor,
		}).
		Build())
	if err != nil {
		n.log.Error("Failed to send award notification", slog.Any("error", err))
	}
}

// ClaimOutcome edits the drop message to acknowledge how a claim resolved,
// replacing the button so the race visibly ends.
func (n *Notifier) ClaimOutcome(message snowflake.ID, outcome game.Outcome) {
	if message == 0 {
		return
	}
	_, err := n.client.Rest().UpdateMessage(n.channelID, message, discord.NewMessageUpdateBuilder().
		SetContent(outcomeText(outcome)).
		ClearContainerComponents().
		Build())
	if err != nil {
		n.log.Error("Failed to edit drop message",
			slog.String("message_id", message.String()),
			slog.String("outcome", outcome.String()),
			slog.Any("error", err))
	}
}

func outcomeText(outcome game.Outcome) string {
	switch outcome {
	case game.OutcomeAwarded:
		return "✅ Coin mined successfully!"
	case game.OutcomeNoActiveDrop:
		return "⛏️ This drop has expired."
	case game.OutcomeExpired:
		return "⏳ This drop already expired."
	case game.OutcomeLimitReached:
		return "⚠️ Daily limit reached. Come back tomorrow."
	case game.OutcomeAlreadyClaimed:
		return "🚫 You already mined today. Come back tomorrow!"
	case game.OutcomeAlreadyWon:
		return "💨 Someone already mined this coin."
	default:
		return "⛏️ This drop is closed."
	}
}
