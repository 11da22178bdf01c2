package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/sahilm/fuzzy"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
)

var Points = discord.SlashCommandCreate{
	Name:        "points",
	Description: "💰 View mining points and level",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "member",
			Description: "Member to look up (defaults to you)",
			Required:    false,
		},
		discord.ApplicationCommandOptionString{
			Name:        "name",
			Description: "Look up a miner by display name instead",
			Required:    false,
		},
	},
}

// minerNames implements fuzzy.Source over ranking entries.
type minerNames []game.RankEntry

func (m minerNames) Len() int            { return len(m) }
func (m minerNames) String(i int) string { return m[i].DisplayName }

func PointsHandler(b *aurumbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()

		var (
			points int
			level  string
			label  string
		)

		switch {
		case data.String("name") != "":
			query := data.String("name")
			entries := minerNames(b.Engine.Ranking(0))
			matches := fuzzy.FindFrom(query, entries)
			if len(matches) == 0 {
				return e.CreateMessage(discord.MessageCreate{
					Embeds: []discord.Embed{{
						Title:       "Miner Not Found",
						Description: fmt.Sprintf("No miner matches `%s`.", query),
						Color:       config.ErrorColor,
					}},
					Flags: discord.MessageFlagEphemeral,
				})
			}
			best := entries[matches[0].Index]
			points = best.Points
			level = b.Engine.Level(best.Points)
			label = best.DisplayName

		case data.User("member").ID != 0:
			target := data.User("member")
			points, level = b.Engine.PointsOf(target.ID.String(), target.Username)
			label = target.Username

		default:
			points, level = b.Engine.PointsOf(e.User().ID.String(), e.User().Username)
			label = e.User().Username
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "💰 Mining Points",
				Description: fmt.Sprintf("**%s** has **%d** point(s)\nLevel: %s",
					label, points, level),
				Color: config.GoldColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
	}
}
