package slash_command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type ChatCommandConfig struct {
	Name              string `yaml:"Name" validate:"required"`
	Description       string `yaml:"Description" validate:"required"`
	Option            string `yaml:"Option" validate:"required"`
	OptionDescription string `yaml:"OptionDescription" validate:"required"`
}

type SlashCommandsConfig struct {
	Link *ChatCommandConfig `yaml:"Link" validate:"required"`
}

// Session is the part of the discord session used
// for managing the global application commands.
type Session interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// DefaultConfig returns the config of the link command
// with the url option.
func DefaultConfig() *SlashCommandsConfig {
	return &SlashCommandsConfig{
		Link: &ChatCommandConfig{
			Name:              "link",
			Description:       "Share a link",
			Option:            "url",
			OptionDescription: "The link to share",
		},
	}
}

// Commands returns the global slash commands of the bot.
func Commands(config *SlashCommandsConfig) []*discordgo.ApplicationCommand {
	dmPermission := false
	return []*discordgo.ApplicationCommand{
		{
			Name:         config.Link.Name,
			Description:  config.Link.Description,
			DMPermission: &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        config.Link.Option,
					Description: config.Link.OptionDescription,
					Required:    true,
				},
			},
		},
	}
}

// Register synchronizes the bot's global slash commands: the
// registered commands that no longer match the config are deleted
// and the missing ones are created. Matching commands are left as is.
func Register(session Session, appID string, config *SlashCommandsConfig) error {
	// NOTE: guildID  is an empty string, so the commands are
	// global
	guildID := ""

	commands := Commands(config)

	registeredCommands, err := session.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf(
			"Could not fetch global application commands: %w", err,
		)
	}
	toDelete := make([]*discordgo.ApplicationCommand, 0)
	toAdd := make([]*discordgo.ApplicationCommand, 0)

	for _, v := range registeredCommands {
		if !contains(commands, v) {
			toDelete = append(toDelete, v)
		}
	}
	for _, v := range commands {
		if !contains(registeredCommands, v) {
			toAdd = append(toAdd, v)
		}
	}
	for _, v := range toDelete {
		if err := session.ApplicationCommandDelete(
			appID,
			guildID,
			v.ID,
		); err != nil {
			return fmt.Errorf(
				"Could not delete global application command '%v': %w",
				v.Name, err,
			)
		}
	}
	for _, cmd := range toAdd {
		if _, err := session.ApplicationCommandCreate(
			appID,
			guildID,
			cmd,
		); err != nil {
			return fmt.Errorf(
				"Could not create global application command '%v': %w",
				cmd.Name, err,
			)
		}
	}
	return nil
}

func contains(commands []*discordgo.ApplicationCommand, cmd *discordgo.ApplicationCommand) bool {
	for _, v := range commands {
		if equal(v, cmd) {
			return true
		}
	}
	return false
}

func equal(a *discordgo.ApplicationCommand, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description ||
		len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if a.Options[i].Name != b.Options[i].Name ||
			a.Options[i].Type != b.Options[i].Type ||
			a.Options[i].Required != b.Options[i].Required {
			return false
		}
	}
	return true
}
