package bot

import (
	"discord-link-bot/bot/audit"

	"github.com/bwmarrin/discordgo"
)

// Session is the handle through which the handlers talk to
// discord. It is passed to the handlers instead of them
// reaching for the discordgo session directly.
type Session interface {
	audit.Sender
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type discordSession struct {
	*discordgo.Session
}

// ResolveChannel looks the channel up in the session's state,
// falling back to the discord api.
func (s *discordSession) ResolveChannel(channelID string) (*discordgo.Channel, error) {
	if c, err := s.State.Channel(channelID); err == nil {
		return c, nil
	}
	return s.Channel(channelID)
}

// respondEphemeral responds to the interaction with
// a message visible only to the user.
func respondEphemeral(session Session, i *discordgo.Interaction, content string) error {
	return session.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// followupEphemeral sends a message visible only to the user
// for an interaction that has already been responded to.
func followupEphemeral(session Session, i *discordgo.Interaction, content string) error {
	_, err := session.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	return err
}
