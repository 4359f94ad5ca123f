package bot

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type fakeResponse struct {
	InteractionID string
	Content       string
	Ephemeral     bool
}

type fakePost struct {
	ChannelID string
	Message   *discordgo.MessageSend
}

// fakeSession records everything the handlers send to discord.
type fakeSession struct {
	mutex       sync.Mutex
	channels    map[string]bool
	responses   []fakeResponse
	followups   []fakeResponse
	posts       []fakePost
	records     map[string][]*discordgo.MessageEmbed
	respondErr  error
	followupErr error
	postErr     error
	recordErr   error
	messages    int
}

func newFakeSession(channels ...string) *fakeSession {
	s := &fakeSession{
		channels: make(map[string]bool),
		records:  make(map[string][]*discordgo.MessageEmbed),
	}
	for _, c := range channels {
		s.channels[c] = true
	}
	return s
}

func (s *fakeSession) ResolveChannel(channelID string) (*discordgo.Channel, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.channels[channelID] {
		return &discordgo.Channel{ID: channelID}, nil
	}
	return nil, errors.New("unknown channel")
}

func (s *fakeSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	s.records[channelID] = append(s.records[channelID], embed)
	return &discordgo.Message{ID: "RECORD", ChannelID: channelID}, nil
}

func (s *fakeSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.respondErr != nil {
		return s.respondErr
	}
	s.responses = append(s.responses, fakeResponse{
		InteractionID: interaction.ID,
		Content:       resp.Data.Content,
		Ephemeral:     resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0,
	})
	return nil
}

func (s *fakeSession) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.followupErr != nil {
		return nil, s.followupErr
	}
	s.followups = append(s.followups, fakeResponse{
		InteractionID: interaction.ID,
		Content:       data.Content,
		Ephemeral:     data.Flags&discordgo.MessageFlagsEphemeral != 0,
	})
	return &discordgo.Message{ID: "FOLLOWUP"}, nil
}

func (s *fakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.postErr != nil {
		return nil, s.postErr
	}
	s.messages++
	s.posts = append(s.posts, fakePost{ChannelID: channelID, Message: data})
	return &discordgo.Message{
		ID:        fmt.Sprintf("MESSAGE-%d", s.messages),
		ChannelID: channelID,
	}, nil
}
