package bot

import (
	"discord-link-bot/bot/slash_command"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// onReady is a handler function called when discord emits
// READY event. It synchronizes the global slash commands
// before marking the bot as ready.
func (bot *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	bot.setApplicationID(r)
	bot.registerCommands(s)

	if err := s.UpdateListeningStatus(
		"/" + bot.config.SlashCommands.Link.Name,
	); err != nil {
		bot.log.Debugf("Could not update status: %v", err)
	}

	bot.log.WithFields(log.Fields{
		"Username": r.User.Username,
	}).Info("Bot ready")

	// NOTE: mark the bot as ready, so the
	// interaction handlers start working
	bot.ready.Store(true)
}

// setApplicationID stores the id interactions have to be addressed
// to. READY is emitted again after every reconnect while the
// interaction handlers keep running.
func (bot *Bot) setApplicationID(r *discordgo.Ready) {
	id := r.User.ID
	if r.Application != nil && len(r.Application.ID) > 0 {
		id = r.Application.ID
	}
	bot.appID.Store(id)
}

func (bot *Bot) applicationID() string {
	id, _ := bot.appID.Load().(string)
	return id
}

func (bot *Bot) registerCommands(s slash_command.Session) {
	bot.log.Debug("Registering global slash commands ...")
	if err := slash_command.Register(
		s,
		bot.applicationID(),
		bot.config.SlashCommands,
	); err != nil {
		bot.log.Errorf("Could not register slash commands: %v", err)
	}
}
