package bot

import (
	"discord-link-bot/bot/component"
	"discord-link-bot/bot/transaction"
)

// linkComponent is the name of the components that reveal links.
const linkComponent = "link"

// onButtonClick is a handler function called when a user
// clicks a button on a message. Buttons not created by
// the bot are ignored.
func (bot *DiscordEventHandler) onButtonClick(t *transaction.Transaction) {
	customID := t.Interaction().MessageComponentData().CustomID

	switch component.Name(customID) {
	case linkComponent:
		bot.handle(t, "access_link", "Error accessing link", bot.onAccessLinkButtonClick)
		return
	default:
		t.Done(nil)
	}
}
