package bot

import (
	"github.com/bwmarrin/discordgo"
)

// onInteractionCreate is called when discord emits INTERACTION_CREATE
// event. It ignores interactions not meant for the bot and the ones
// received before the commands are registered.
// NOTE: direct message interactions are not filtered out here, so
// the link command may reject them with a message.
func (bot *DiscordEventHandler) onInteractionCreate(i *discordgo.InteractionCreate) {
	if !bot.ready.Load() || i.Interaction == nil ||
		i.Interaction.AppID != bot.applicationID() {
		return
	}
	switch i.Interaction.Type {
	case discordgo.InteractionApplicationCommand:
		t := bot.transactions.New(
			bot.ctx,
			"Interaction/ApplicationCommand",
			i.Interaction,
		)
		bot.onApplicationCommand(t)
		return
	case discordgo.InteractionMessageComponent:
		if i.Interaction.MessageComponentData().ComponentType !=
			discordgo.ButtonComponent {
			return
		}
		t := bot.transactions.New(
			bot.ctx,
			"Interaction/ButtonClick",
			i.Interaction,
		)
		bot.onButtonClick(t)
		return
	}
}
