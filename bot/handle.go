package bot

import (
	"discord-link-bot/bot/transaction"
	"discord-link-bot/model"
	"errors"
	"fmt"
)

// handle runs the provided handler and is the only place where
// its failures are reported. An error or a panic results in a single
// error log line and an ephemeral message for the user, it never
// reaches the discordgo event dispatcher.
func (bot *Bot) handle(t *transaction.Transaction, name string, prefix string, handler func(*transaction.Transaction) error) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			if !isUserError(err) {
				bot.metrics.HandlerError(name)
			}
			bot.reportError(t, name, prefix, err)
		}
		t.Done(err)
	}()
	err = handler(t)
}

func (bot *Bot) reportError(t *transaction.Transaction, name string, prefix string, err error) {
	content := fmt.Sprintf("%s: %v", prefix, err)
	switch {
	case errors.Is(err, ErrInvalidContext):
		content = "This command cannot be used in DMs."
	case errors.Is(err, ErrMissingURL):
		content = "Please provide a link to share."
	case errors.Is(err, model.ErrLinkNotFound):
		content = "This link is no longer available."
	}
	if isUserError(err) {
		t.Log().WithField("Handler", name).Infof("Rejected %s: %v", name, err)
	} else {
		t.Log().WithField("Handler", name).Errorf("Error in %s: %v", name, err)
	}

	var sendErr error
	if t.Acknowledged() {
		sendErr = followupEphemeral(bot.session, t.Interaction(), content)
	} else {
		sendErr = respondEphemeral(bot.session, t.Interaction(), content)
	}
	if sendErr != nil {
		t.Log().WithField("Handler", name).Errorf(
			"Could not report error to the user: %v", sendErr,
		)
	}
}

// isUserError reports whether the error was caused by how the
// command was invoked rather than by a failure of the bot.
func isUserError(err error) bool {
	return errors.Is(err, ErrInvalidContext) || errors.Is(err, ErrMissingURL)
}
