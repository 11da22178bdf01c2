package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
)

var Info = discord.SlashCommandCreate{
	Name:        "info",
	Description: "ℹ️ Game rules and level ladder",
}

func InfoHandler(b *aurumbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		rules := b.Engine.Rules()

		var levels strings.Builder
		for _, l := range rules.Levels {
			levels.WriteString(fmt.Sprintf("%s — from **%d** pts\n", l.Name, l.MinPoints))
		}

		special := "off"
		if rules.SundaySpecial {
			special = "double points every Sunday"
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "ℹ️ Aurum Mining Rules",
				Color: config.InfoColor,
				Fields: []discord.EmbedField{
					{
						Name: "How it works",
						Value: fmt.Sprintf(
							"Chat activity triggers gold drops (up to **%d** per day). "+
								"Hit **Mine!** within **%d seconds** to claim one. "+
								"Messages shorter than %d characters don't count.",
							len(rules.Thresholds),
							int(rules.ResponseWindow.Seconds()),
							rules.MinMessageLength),
					},
					{
						Name: "Daily limits",
						Value: fmt.Sprintf(
							"Max **%d** winners per day · one win per miner per day · "+
								"days roll over at midnight %s",
							rules.DailyMaxWinners, rules.Location),
					},
					{
						Name:  "Special days",
						Value: "✨ " + special,
					},
					{
						Name:  "Levels",
						Value: levels.String(),
					},
				},
				Timestamp: &now,
			}},
		})
	}
}
