package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
)

var Export = discord.SlashCommandCreate{
	Name:        "export",
	Description: "📤 Export this week's wins as CSV",
}

func ExportHandler(b *aurumbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		rules := b.Engine.Rules()
		start, end := b.Exporter.CurrentWeek(time.Now().In(rules.Location))
		awards := b.Engine.HistoryWindow(start, end)

		if len(awards) == 0 {
			_, err := e.UpdateInteractionResponse(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Title:       "📤 Weekly Export",
					Description: fmt.Sprintf("No wins recorded between %s and %s.", start, end),
					Color:       config.WarningColor,
				}},
			})
			return err
		}

		data, err := b.Exporter.BuildCSV(awards)
		if err != nil {
			_, uerr := e.UpdateInteractionResponse(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Title:       "Export Failed",
					Description: "Could not build the CSV export. Please try again later.",
					Color:       config.ErrorColor,
				}},
			})
			if uerr != nil {
				return uerr
			}
			return err
		}

		filename := b.Exporter.Filename(start, end)
		description := fmt.Sprintf("**%d** win(s) between **%s** and **%s**.", len(awards), start, end)

		if b.Spaces != nil {
			ctx, cancel := context.WithTimeout(context.Background(), config.ExportUploadTimeout)
			url, uploadErr := b.Spaces.UploadExport(ctx, filename, data)
			cancel()
			if uploadErr != nil {
				slog.Error("Failed to upload export",
					slog.String("type", "cmd"),
					slog.String("name", "export"),
					slog.Any("error", uploadErr))
			} else {
				description += fmt.Sprintf("\n\n[Download from Spaces](%s)", url)
			}
		}

		_, err = e.UpdateInteractionResponse(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       "📤 Weekly Export",
				Description: description,
				Color:       config.SuccessColor,
			}},
			Files: []*discord.File{
				{
					Name:   filename,
					Reader: bytes.NewReader(data),
				},
			},
		})
		return err
	}
}
