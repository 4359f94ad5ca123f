package audit

import (
	"discord-link-bot/model"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type Configuration struct {
	CreationTitle string `yaml:"CreationTitle" validate:"required"`
	AccessTitle   string `yaml:"AccessTitle" validate:"required"`
	CreationColor int    `yaml:"CreationColor"`
	AccessColor   int    `yaml:"AccessColor"`
}

type AuditBuilder struct {
	config *Configuration
}

// CreationInfo holds the data displayed in a creation
// record, computed when the link is shared.
type CreationInfo struct {
	URL           string
	MessageURL    string
	AccountAge    string
	MembershipAge string
}

// DefaultConfiguration returns the default titles and
// colors of the audit records.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		CreationTitle: "User Created Link",
		AccessTitle:   "Link Accessed",
		CreationColor: 0x3498db,
		AccessColor:   0x2ecc71,
	}
}

// NewAuditBuilder constructs an object that handles building
// the records sent to the audit channel.
func NewAuditBuilder(config *Configuration) *AuditBuilder {
	return &AuditBuilder{config: config}
}

// CreationRecord builds the record of a user sharing a new link.
func (builder *AuditBuilder) CreationRecord(creator *discordgo.User, info *CreationInfo) *model.AuditRecord {
	return &model.AuditRecord{
		Kind:  model.CreationAudit,
		Title: builder.config.CreationTitle,
		Description: fmt.Sprintf(
			"%s (ID: %s) created a link.",
			creator.Mention(), creator.ID,
		),
		Thumbnail: AvatarURL(creator),
		Color:     builder.config.CreationColor,
		Fields: []*model.AuditField{
			{
				Name:  "Message Link",
				Value: fmt.Sprintf("[Jump to Message](%s)", info.MessageURL),
			},
			{Name: "Link", Value: info.URL},
			{Name: "Account Created", Value: info.AccountAge, Inline: true},
			{Name: "Joined Server", Value: info.MembershipAge, Inline: true},
		},
	}
}

// AccessRecord builds the record of the viewer revealing
// a link shared by the user identified by creatorID.
func (builder *AuditBuilder) AccessRecord(viewer *discordgo.User, creatorID string, messageID string) *model.AuditRecord {
	return &model.AuditRecord{
		Kind:  model.AccessAudit,
		Title: builder.config.AccessTitle,
		Description: fmt.Sprintf(
			"%s (ID: %s) accessed a link from <@%s> (ID: %s)",
			viewer.Mention(), viewer.ID, creatorID, creatorID,
		),
		Thumbnail: AvatarURL(viewer),
		Color:     builder.config.AccessColor,
		Footer:    "Message ID: " + messageID,
	}
}

// MapToEmbed maps the provided record to a message embed.
func (builder *AuditBuilder) MapToEmbed(record *model.AuditRecord) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       record.Title,
		Description: record.Description,
		Color:       record.Color,
		Fields:      make([]*discordgo.MessageEmbedField, 0, len(record.Fields)),
	}
	if len(record.Thumbnail) > 0 {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: record.Thumbnail}
	}
	if len(record.Footer) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: record.Footer}
	}
	for _, f := range record.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return embed
}

// AvatarURL returns the url of the user's avatar if it has one,
// else the url of the default avatar discord assigns to the user.
func AvatarURL(user *discordgo.User) string {
	if len(user.Avatar) > 0 {
		return user.AvatarURL("")
	}
	return discordgo.EndpointDefaultUserAvatar(user.DefaultAvatarIndex())
}
