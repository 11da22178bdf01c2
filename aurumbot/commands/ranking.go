package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
)

var Ranking = discord.SlashCommandCreate{
	Name:        "ranking",
	Description: "🏆 Show the mining leaderboard",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionBool{
			Name:        "image",
			Description: "Render the top 5 as an image card",
			Required:    false,
		},
	},
}

func RankingHandler(b *aurumbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		entries := b.Engine.Ranking(0)
		if len(entries) == 0 {
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "🏆 Mining Ranking",
					Description: "Nobody has mined any gold yet. Get chatting!",
					Color:       config.InfoColor,
				}},
			})
		}

		if e.SlashCommandInteractionData().Bool("image") && b.RankingImages.Available() {
			if err := sendRankingImage(b, e); err == nil {
				return nil
			}
			// fall through to the text leaderboard
		}

		totalPages := int(math.Ceil(float64(len(entries)) / float64(config.RankingPageSize)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * config.RankingPageSize
				endIdx := min(startIdx+config.RankingPageSize, len(entries))

				var description strings.Builder
				for i, entry := range entries[startIdx:endIdx] {
					pos := startIdx + i
					symbol := "▫️"
					if pos < len(config.RankSymbols) {
						symbol = config.RankSymbols[pos]
					}
					description.WriteString(fmt.Sprintf("%s **%s** — %d pts · %s\n",
						symbol, entry.DisplayName, entry.Points, b.Engine.Level(entry.Points)))
				}

				embed.
					SetTitle("🏆 Mining Ranking").
					SetDescription(description.String()).
					SetColor(config.GoldColor).
					SetFooter(fmt.Sprintf("Page %d/%d · %d miners", page+1, totalPages, len(entries)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func sendRankingImage(b *aurumbot.Bot, e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	top := b.Engine.Ranking(5)
	imageBytes, err := b.RankingImages.Generate(ctx, top, config.RankSymbols, b.Engine.Level)
	if err != nil {
		slog.Warn("Ranking image generation failed, falling back to text",
			slog.String("type", "cmd"),
			slog.Any("error", err))
		return err
	}

	return e.CreateMessage(discord.MessageCreate{
		Content: "🏆 **Aurum Mining Ranking**",
		Files: []*discord.File{
			{
				Name:   fmt.Sprintf("ranking_%d.png", time.Now().Unix()),
				Reader: bytes.NewReader(imageBytes),
			},
		},
	})
}
