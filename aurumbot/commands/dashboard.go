package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
)

var Dashboard = discord.SlashCommandCreate{
	Name:        "dashboard",
	Description: "📊 Today's mining activity at a glance",
}

func DashboardHandler(b *aurumbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		stats := b.Engine.Dashboard()

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;36mDay:\x1b[0m            %s\n"+
			"\x1b[1;36mMessages:\x1b[0m       %d\n"+
			"\x1b[1;33mDrops opened:\x1b[0m   %d / %d\n"+
			"\x1b[1;32mWinners today:\x1b[0m  %d / %d\n"+
			"```",
			stats.Day,
			stats.MessageCount,
			stats.DropsTriggered, stats.ScheduleLen,
			stats.UniqueWinners, stats.MaxWinners,
		)

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📊 Mining Dashboard",
				Description: description,
				Color:       config.InfoColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}
