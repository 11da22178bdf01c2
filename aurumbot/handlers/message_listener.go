package handlers

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// MessageSink consumes qualifying chat messages. *game.Engine satisfies it.
type MessageSink interface {
	OnMessage(userID, displayName string, textLen int)
}

// MessageHandler feeds chat activity in the mining channel into the game
// engine. Bot messages and messages outside the configured channel are
// ignored; length filtering happens inside the engine. A channelID of zero
// accepts every channel.
func MessageHandler(sink MessageSink, channelID snowflake.ID) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.Message.Author.Bot {
			return
		}
		if channelID != 0 && e.Message.ChannelID != channelID {
			return
		}

		userID := e.Message.Author.ID.String()
		displayName := e.Message.Author.Username

		// Drop announcements hit the Discord API; keep the gateway
		// loop free of that latency.
		go sink.OnMessage(userID, displayName, len([]rune(e.Message.Content)))
	})
}
