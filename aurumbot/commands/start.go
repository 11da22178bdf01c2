package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
)

var Start = discord.SlashCommandCreate{
	Name:        "start",
	Description: "⛏️ Learn how the Aurum mining game works",
}

func StartHandler(b *aurumbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		rules := b.Engine.Rules()

		description := fmt.Sprintf(
			"Welcome to the **Aurum mine**, %s!\n\n"+
				"Keep chatting and gold drops will appear. When one does, hit the "+
				"**Mine!** button within **%d seconds** to claim it.\n\n"+
				"• First miner to react wins the drop\n"+
				"• Up to **%d** winners per day\n"+
				"• One win per miner per day\n"+
				"• Sundays pay **double** ✨\n\n"+
				"Check `/points` for your total and `/ranking` for the leaderboard.",
			e.User().Mention(),
			int(rules.ResponseWindow.Seconds()),
			rules.DailyMaxWinners,
		)

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "⛏️ Aurum Mining",
				Description: description,
				Color:       config.GoldColor,
				Footer: &discord.EmbedFooter{
					Text: "Good luck in the mines!",
				},
				Timestamp: &now,
			}},
		})
	}
}
