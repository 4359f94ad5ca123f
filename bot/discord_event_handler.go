package bot

import (
	"github.com/bwmarrin/discordgo"
)

type DiscordEventHandler struct {
	*Bot
}

// setHandlers adds handlers for discord events to the
// provided session.
// It adds handlers for ready, message (bulk) delete
// and interaction create events.
func (bot *DiscordEventHandler) setHandlers(session *discordgo.Session) {
	session.AddHandler(
		func(s *discordgo.Session, r *discordgo.Ready) {
			bot.onReady(s, r)
		},
	)
	session.AddHandler(
		func(s *discordgo.Session, m *discordgo.MessageDelete) {
			if len(m.GuildID) > 0 && bot.ready.Load() {
				bot.onMessageDelete(m)
			}
		},
	)
	session.AddHandler(
		func(s *discordgo.Session, m *discordgo.MessageDeleteBulk) {
			if len(m.GuildID) > 0 && bot.ready.Load() {
				bot.onBulkMessageDelete(m)
			}
		},
	)
	session.AddHandler(
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			bot.onInteractionCreate(i)
		},
	)
}
