package bot

import (
	"discord-link-bot/bot/transaction"
	"strings"
)

// onApplicationCommand is a handler function called when discord emits
// INTERACTION_CREATE event and the interaction's type is applicationCommand.
func (bot *DiscordEventHandler) onApplicationCommand(t *transaction.Transaction) {
	name := strings.TrimSpace(
		t.Interaction().ApplicationCommandData().Name,
	)
	switch name {
	case strings.TrimSpace(bot.config.SlashCommands.Link.Name):
		bot.handle(t, name, "Failed to create link", bot.onLinkSlashCommand)
		return
	default:
		t.Done(nil)
	}
}
