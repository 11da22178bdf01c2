package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{
	Start,
	Points,
	Ranking,
	Info,
	Dashboard,
	Export,
}
