package bot

import "github.com/bwmarrin/discordgo"

type DiscordIntentsHandler struct {
	*Bot
}

// setIntents sets the intents for the session, required
// by the link bot
func (bot *DiscordIntentsHandler) setIntents(session *discordgo.Session) {
	//NOTE: guilds for interactions and channel state in guilds,
	// guild members for the members' join dates,
	// guild messages for message delete events
	session.Identify.Intents =
		discordgo.IntentGuilds |
			discordgo.IntentGuildMembers |
			discordgo.IntentGuildMessages |
			discordgo.IntentMessageContent
}
