package bot

import (
	"discord-link-bot/bot/audit"
	"discord-link-bot/bot/transaction"
	"fmt"
)

// onAccessLinkButtonClick is called when a user clicks the button of a
// shared link. The link is revealed only to the clicking user, then an
// access record naming both the user and the link's creator is sent.
func (bot *Bot) onAccessLinkButtonClick(t *transaction.Transaction) error {
	i := t.Interaction()
	viewer := t.User()
	if viewer == nil {
		return ErrInvalidContext
	}

	l, err := bot.datastore.Link().Get(
		t.Context(),
		i.MessageComponentData().CustomID,
	)
	if err != nil {
		return err
	}
	if err := respondEphemeral(
		bot.session,
		i,
		bot.builder.Link().Reveal(l.URL),
	); err != nil {
		return fmt.Errorf("%w: %v", audit.ErrDelivery, err)
	}
	t.Acknowledge()
	bot.metrics.LinkAccessed()

	messageID := l.MessageID
	if i.Message != nil {
		messageID = i.Message.ID
	}
	return bot.audit.Record(
		bot.builder.Audit().AccessRecord(viewer, l.CreatorID, messageID),
	)
}
