package bot

import (
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// onMessageDelete is a handler function called when discord emits
// MESSAGE_DELETE event. If the deleted message held a shared link's
// button, the link is removed from the store.
func (bot *DiscordEventHandler) onMessageDelete(m *discordgo.MessageDelete) {
	bot.removeLinks(m.GuildID, m.ID)
}

// onBulkMessageDelete is a handler function called when discord emits
// MESSAGE_DELETE_BULK event. Links bound to any of the deleted
// messages are removed from the store.
func (bot *DiscordEventHandler) onBulkMessageDelete(m *discordgo.MessageDeleteBulk) {
	bot.removeLinks(m.GuildID, m.Messages...)
}

func (bot *DiscordEventHandler) removeLinks(guildID string, messageIDs ...string) {
	t := bot.transactions.New(bot.ctx, "MessageDelete", nil)
	n, err := bot.datastore.Link().RemoveByMessageIDs(t.Context(), messageIDs...)
	if err != nil {
		t.Log().WithField("GuildID", guildID).Errorf(
			"Error when removing links of deleted messages: %v", err,
		)
	} else if n > 0 {
		t.Log().WithFields(log.Fields{
			"GuildID": guildID,
			"Removed": n,
		}).Info("Removed links of deleted messages")
	}
	t.Done(err)
}
