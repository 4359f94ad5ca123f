package link

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// TimeLayout is the layout of the timestamp in the
// shared link message's footer.
const TimeLayout = "2006-01-02 15:04:05"

type Configuration struct {
	Title  string `yaml:"Title" validate:"required"`
	Button string `yaml:"Button" validate:"required"`
	Color  int    `yaml:"Color"`
}

type LinkBuilder struct {
	config *Configuration
}

// DefaultConfiguration returns the default title, button
// label and color of the shared link message.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Title:  "Link Shared",
		Button: "Access Link",
		Color:  0x3498db,
	}
}

// NewLinkBuilder constructs an object that handles building
// the public message through which a link is shared.
func NewLinkBuilder(config *Configuration) *LinkBuilder {
	return &LinkBuilder{config: config}
}

// MapToEmbed builds the embed of the public message. It names the
// user that shared the link, but never contains the link itself.
func (builder *LinkBuilder) MapToEmbed(creator *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: builder.config.Title,
		Description: fmt.Sprintf(
			"Click the button to access the link by %s",
			creator.Mention(),
		),
		Color: builder.config.Color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf(
				"Shared by %s | %s",
				creator.Username,
				now.UTC().Format(TimeLayout),
			),
		},
	}
}

// GetComponents constructs the components of the public message:
// a single row with the button that reveals the link. The button
// never expires, clicks are resolved through the provided customID.
func (builder *LinkBuilder) GetComponents(customID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: customID,
					Label:    builder.config.Button,
					Style:    discordgo.SuccessButton,
				},
			},
		},
	}
}

// MapToMessage combines the embed and the components
// into the message sent to the channel.
func (builder *LinkBuilder) MapToMessage(creator *discordgo.User, customID string, now time.Time) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{builder.MapToEmbed(creator, now)},
		Components: builder.GetComponents(customID),
	}
}

// Reveal returns the content of the private reply
// that discloses the link to a single user.
func (builder *LinkBuilder) Reveal(url string) string {
	return "Here is the link:\n" + url
}

// MessageURL returns the jump link to the message identified
// by the provided guildID, channelID and messageID.
func MessageURL(guildID string, channelID string, messageID string) string {
	return fmt.Sprintf(
		"https://discord.com/channels/%s/%s/%s",
		guildID, channelID, messageID,
	)
}
