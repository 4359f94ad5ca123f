package bot

import (
	"discord-link-bot/bot/audit"
	"discord-link-bot/bot/component"
	"discord-link-bot/bot/transaction"
	auditbuilder "discord-link-bot/builder/audit"
	"discord-link-bot/builder/link"
	"discord-link-bot/model"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// onLinkSlashCommand is called when the bot's link slash command is used.
// It posts a public message whose button reveals the provided url,
// then sends a creation record to the audit channel.
// NOTE: once the public message is posted it is never deleted, even
// if sending the audit record fails.
func (bot *Bot) onLinkSlashCommand(t *transaction.Transaction) error {
	i := t.Interaction()
	invoker := t.User()
	guildID := t.GuildID()

	// NOTE: other members have to be able to click the button,
	// so the link may only be shared in a guild's channel
	// NOTE: interactions in direct messages carry no guild id
	if len(guildID) == 0 || len(i.ChannelID) == 0 ||
		i.Member == nil || invoker == nil {
		return ErrInvalidContext
	}
	url := bot.urlOption(i)
	if len(url) == 0 {
		return ErrMissingURL
	}

	// NOTE: discord requires a response before the interaction
	// deadline, so acknowledge before doing anything else
	if err := respondEphemeral(bot.session, i, "Creating link..."); err != nil {
		return fmt.Errorf("%w: %v", audit.ErrDelivery, err)
	}
	t.Acknowledge()

	now := bot.now().UTC()
	l := &model.Link{
		ID:        component.NewCustomID(linkComponent),
		URL:       url,
		CreatorID: invoker.ID,
		GuildID:   guildID,
		ChannelID: i.ChannelID,
		CreatedAt: now,
	}
	if err := bot.datastore.Link().Save(t.Context(), l); err != nil {
		return err
	}
	msg, err := bot.session.ChannelMessageSendComplex(
		i.ChannelID,
		bot.builder.Link().MapToMessage(invoker, l.ID, now),
	)
	if err != nil {
		if err := bot.datastore.Link().Remove(t.Context(), l.ID); err != nil {
			t.Log().Warnf("Could not remove unposted link: %v", err)
		}
		return fmt.Errorf("%w: %v", audit.ErrDelivery, err)
	}
	bot.metrics.LinkCreated()
	t.Log().WithFields(log.Fields{
		"MessageID": msg.ID,
		"LinkID":    l.ID,
	}).Info("Link shared")

	if err := bot.datastore.Link().SetMessageID(t.Context(), l.ID, msg.ID); err != nil {
		t.Log().Warnf("Could not bind link to its message: %v", err)
	}

	created, err := discordgo.SnowflakeTimestamp(invoker.ID)
	if err != nil {
		return err
	}
	age := bot.service.Age()
	record := bot.builder.Audit().CreationRecord(invoker, &auditbuilder.CreationInfo{
		URL:           url,
		MessageURL:    link.MessageURL(guildID, i.ChannelID, msg.ID),
		AccountAge:    age.AccountAge(age.Days(created, now)),
		MembershipAge: age.MembershipAge(age.Days(i.Member.JoinedAt, now)),
	})
	return bot.audit.Record(record)
}

// urlOption returns the trimmed value of the
// link command's url option.
func (bot *Bot) urlOption(i *discordgo.Interaction) string {
	for _, o := range i.ApplicationCommandData().Options {
		if o.Name == bot.config.SlashCommands.Link.Option &&
			o.Type == discordgo.ApplicationCommandOptionString {
			return strings.TrimSpace(o.StringValue())
		}
	}
	return ""
}
