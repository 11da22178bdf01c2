package handlers

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

type sinkCall struct {
	userID      string
	displayName string
	textLen     int
}

type recordingSink struct {
	calls chan sinkCall
}

func newRecordingSink() *recordingSink {
	return &recordingSink{calls: make(chan sinkCall, 8)}
}

func (s *recordingSink) OnMessage(userID, displayName string, textLen int) {
	s.calls <- sinkCall{userID: userID, displayName: displayName, textLen: textLen}
}

func (s *recordingSink) next(t *testing.T) sinkCall {
	t.Helper()
	select {
	case call := <-s.calls:
		return call
	case <-time.After(time.Second):
		t.Fatal("message was not forwarded")
		return sinkCall{}
	}
}

func (s *recordingSink) expectNone(t *testing.T) {
	t.Helper()
	select {
	case call := <-s.calls:
		t.Fatalf("unexpected forwarded message: %+v", call)
	case <-time.After(50 * time.Millisecond):
	}
}

func messageEvent(author discord.User, channelID snowflake.ID, content string) *events.MessageCreate {
	return &events.MessageCreate{
		GenericMessage: &events.GenericMessage{
			Message: discord.Message{
				Author:    author,
				ChannelID: channelID,
				Content:   content,
			},
			ChannelID: channelID,
		},
	}
}

func TestMessageHandlerForwardsQualifyingMessages(t *testing.T) {
	const gameChannel = snowflake.ID(500)
	sink := newRecordingSink()
	listener := MessageHandler(sink, gameChannel)

	miner := discord.User{ID: snowflake.ID(101), Username: "alice"}
	listener.OnEvent(messageEvent(miner, gameChannel, "héllo gold"))

	call := sink.next(t)
	if call.userID != "101" {
		t.Errorf("userID = %q, want %q", call.userID, "101")
	}
	if call.displayName != "alice" {
		t.Errorf("displayName = %q, want %q", call.displayName, "alice")
	}
	// 10 runes, 11 bytes: length must count runes.
	if call.textLen != 10 {
		t.Errorf("textLen = %d, want 10", call.textLen)
	}
}

func TestMessageHandlerSkipsBots(t *testing.T) {
	const gameChannel = snowflake.ID(500)
	sink := newRecordingSink()
	listener := MessageHandler(sink, gameChannel)

	listener.OnEvent(messageEvent(discord.User{ID: snowflake.ID(7), Username: "helper", Bot: true},
		gameChannel, "beep boop beep boop"))

	sink.expectNone(t)
}

func TestMessageHandlerSkipsOtherChannels(t *testing.T) {
	const gameChannel = snowflake.ID(500)
	sink := newRecordingSink()
	listener := MessageHandler(sink, gameChannel)

	miner := discord.User{ID: snowflake.ID(101), Username: "alice"}
	listener.OnEvent(messageEvent(miner, snowflake.ID(999), "chatter somewhere else"))

	sink.expectNone(t)
}

func TestMessageHandlerZeroChannelAcceptsAll(t *testing.T) {
	sink := newRecordingSink()
	listener := MessageHandler(sink, 0)

	miner := discord.User{ID: snowflake.ID(101), Username: "alice"}
	listener.OnEvent(messageEvent(miner, snowflake.ID(42), "plenty of chatter"))

	if call := sink.next(t); call.userID != "101" {
		t.Errorf("userID = %q, want %q", call.userID, "101")
	}
}
