package bot

import (
	"context"
	"discord-link-bot/bot/transaction"
	"discord-link-bot/config"
	"discord-link-bot/model"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

const (
	testAppID      = "APP-ID"
	testGuildID    = "GUILD-ID"
	testChannelID  = "CHANNEL-ID"
	testLogChannel = "42"
	testURL        = "https://example.com/secret"
	// 2015-ish snowflake
	testCreatorID = "80351110224678912"
)

type BotTestSuite struct {
	suite.Suite
	bot     *Bot
	session *fakeSession
	logs    *logtest.Hook
	creator *discordgo.User
	now     time.Time
}

func (s *BotTestSuite) SetupTest() {
	config := DefaultConfiguration()
	config.DiscordToken = "TOKEN"
	config.LogChannelID = testLogChannel

	s.bot = NewBot(context.Background(), config)
	s.NoError(s.bot.Init())
	s.logs = logtest.NewLocal(s.bot.log)

	s.session = newFakeSession(testLogChannel)
	s.bot.setSession(s.session)
	s.bot.appID.Store(testAppID)
	s.bot.ready.Store(true)

	created, err := discordgo.SnowflakeTimestamp(testCreatorID)
	s.NoError(err)
	s.now = created.Add(400*24*time.Hour + 3*time.Hour).UTC()
	s.bot.now = func() time.Time { return s.now }

	s.creator = &discordgo.User{ID: testCreatorID, Username: "alice", Discriminator: "0"}
}

func (s *BotTestSuite) linkCommand(user *discordgo.User, guildID string, url string) *discordgo.InteractionCreate {
	i := &discordgo.Interaction{
		ID:        "COMMAND-" + user.ID,
		AppID:     testAppID,
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   guildID,
		ChannelID: testChannelID,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "link",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{
					Name:  "url",
					Type:  discordgo.ApplicationCommandOptionString,
					Value: url,
				},
			},
		},
	}
	if len(guildID) > 0 {
		i.Member = &discordgo.Member{User: user, JoinedAt: s.now.Add(-time.Hour)}
	} else {
		i.User = user
	}
	return &discordgo.InteractionCreate{Interaction: i}
}

func (s *BotTestSuite) buttonClick(user *discordgo.User, customID string, messageID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "CLICK-" + user.ID,
		AppID:     testAppID,
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   testGuildID,
		ChannelID: testChannelID,
		Member:    &discordgo.Member{User: user},
		Message:   &discordgo.Message{ID: messageID},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}

// handlerErrors returns the number of handlers with
// a counted error.
func (s *BotTestSuite) handlerErrors() int {
	n, err := testutil.GatherAndCount(
		s.bot.metrics.Registry(),
		"linkbot_handler_errors_total",
	)
	s.Require().NoError(err)
	return n
}

func (s *BotTestSuite) errorLines() int {
	n := 0
	for _, e := range s.logs.AllEntries() {
		if e.Level <= log.ErrorLevel {
			n++
		}
	}
	return n
}

func (s *BotTestSuite) dispatch(i *discordgo.InteractionCreate) {
	(&DiscordEventHandler{s.bot}).onInteractionCreate(i)
}

// shareLink runs the link command and returns the
// custom id of the posted button.
func (s *BotTestSuite) shareLink() string {
	s.dispatch(s.linkCommand(s.creator, testGuildID, testURL))
	s.Require().Len(s.session.posts, 1)
	row := s.session.posts[0].Message.Components[0].(discordgo.ActionsRow)
	return row.Components[0].(discordgo.Button).CustomID
}

// TestUnitShareLink tests that sharing a link acknowledges the
// command, posts one public message and sends one creation record.
func (s *BotTestSuite) TestUnitShareLink() {
	customID := s.shareLink()

	s.Len(s.session.responses, 1)
	s.Equal("Creating link...", s.session.responses[0].Content)
	s.True(s.session.responses[0].Ephemeral)
	s.Empty(s.session.followups)

	post := s.session.posts[0]
	s.Equal(testChannelID, post.ChannelID)
	s.Len(post.Message.Embeds, 1)
	s.Equal("Link Shared", post.Message.Embeds[0].Title)
	s.NotContains(post.Message.Embeds[0].Description, testURL)
	s.Equal(
		"Shared by alice | "+s.now.Format("2006-01-02 15:04:05"),
		post.Message.Embeds[0].Footer.Text,
	)
	s.True(strings.HasPrefix(customID, linkComponent+"<split>"))

	records := s.session.records[testLogChannel]
	s.Len(records, 1)
	s.Equal("User Created Link", records[0].Title)
	s.Equal("<@"+testCreatorID+"> (ID: "+testCreatorID+") created a link.", records[0].Description)
	s.Len(records[0].Fields, 4)
	s.Equal(
		"[Jump to Message](https://discord.com/channels/GUILD-ID/CHANNEL-ID/MESSAGE-1)",
		records[0].Fields[0].Value,
	)
	s.Equal(testURL, records[0].Fields[1].Value)
	s.Equal("1y 1m 5d ago", records[0].Fields[2].Value)
	s.Equal("0 days ago", records[0].Fields[3].Value)

	l, err := s.bot.datastore.Link().Get(context.Background(), customID)
	s.NoError(err)
	s.Equal(testURL, l.URL)
	s.Equal(testCreatorID, l.CreatorID)
	s.Equal("MESSAGE-1", l.MessageID)
}

// TestUnitShareLinkInDirectMessage tests that the command is
// rejected outside of a guild without any side effects.
func (s *BotTestSuite) TestUnitShareLinkInDirectMessage() {
	s.dispatch(s.linkCommand(s.creator, "", testURL))

	s.Len(s.session.responses, 1)
	s.Equal("This command cannot be used in DMs.", s.session.responses[0].Content)
	s.True(s.session.responses[0].Ephemeral)
	s.Empty(s.session.posts)
	s.Empty(s.session.records)

	// NOTE: a rejected invocation is not a failure of the bot
	s.Equal(0, s.handlerErrors())
	s.Equal(0, s.errorLines())
	s.Equal(log.InfoLevel, s.logs.LastEntry().Level)
}

func (s *BotTestSuite) TestUnitShareLinkMissingURL() {
	s.dispatch(s.linkCommand(s.creator, testGuildID, "   "))

	s.Len(s.session.responses, 1)
	s.Equal("Please provide a link to share.", s.session.responses[0].Content)
	s.Empty(s.session.posts)
	s.Empty(s.session.records)
	s.Equal(0, s.handlerErrors())
	s.Equal(0, s.errorLines())
}

// TestUnitShareLinkUnresolvedAuditChannel tests that the link is
// still shared when the audit channel cannot be resolved.
func (s *BotTestSuite) TestUnitShareLinkUnresolvedAuditChannel() {
	s.session.channels = map[string]bool{}
	s.shareLink()

	s.Len(s.session.posts, 1)
	s.Empty(s.session.records)
	s.Empty(s.session.followups)
}

// TestUnitShareLinkPostFailure tests that a failure to post the
// public message is reported to the user and no record is sent.
func (s *BotTestSuite) TestUnitShareLinkPostFailure() {
	s.session.postErr = errors.New("missing permissions")
	s.dispatch(s.linkCommand(s.creator, testGuildID, testURL))

	s.Empty(s.session.posts)
	s.Empty(s.session.records)
	s.Len(s.session.followups, 1)
	s.True(s.session.followups[0].Ephemeral)
	s.Contains(s.session.followups[0].Content, "Failed to create link")
	s.Contains(s.session.followups[0].Content, "missing permissions")
	s.Equal(1, s.handlerErrors())
	s.Equal(1, s.errorLines())
}

// TestUnitShareLinkRecordFailure tests that the posted message is
// kept when the creation record cannot be sent.
func (s *BotTestSuite) TestUnitShareLinkRecordFailure() {
	s.session.recordErr = errors.New("audit channel unavailable")
	customID := s.shareLink()

	s.Len(s.session.posts, 1)
	s.Len(s.session.followups, 1)
	s.Contains(s.session.followups[0].Content, "audit channel unavailable")

	_, err := s.bot.datastore.Link().Get(context.Background(), customID)
	s.NoError(err)
}

// TestUnitAccessLink tests that every viewer gets a private reply
// with the link and that every click is recorded once.
func (s *BotTestSuite) TestUnitAccessLink() {
	customID := s.shareLink()
	s.session.responses = nil
	s.session.records = make(map[string][]*discordgo.MessageEmbed)

	n := 5
	var wg sync.WaitGroup
	for v := 0; v < n; v++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			viewer := &discordgo.User{ID: fmt.Sprintf("%d", 1000+v), Discriminator: "0"}
			s.dispatch(s.buttonClick(viewer, customID, "MESSAGE-1"))
		}(v)
	}
	wg.Wait()

	s.Len(s.session.responses, n)
	for _, r := range s.session.responses {
		s.Equal("Here is the link:\n"+testURL, r.Content)
		s.True(r.Ephemeral)
	}
	records := s.session.records[testLogChannel]
	s.Len(records, n)
	seen := make(map[string]bool)
	for _, r := range records {
		s.Equal("Link Accessed", r.Title)
		s.Contains(r.Description, "accessed a link from <@"+testCreatorID+"> (ID: "+testCreatorID+")")
		s.Equal("Message ID: MESSAGE-1", r.Footer.Text)
		seen[strings.SplitN(r.Description, " ", 2)[0]] = true
	}
	s.Len(seen, n)
	s.Len(s.session.posts, 1)
}

// TestUnitAccessUnknownLink tests clicking a button whose
// link is no longer in the store.
func (s *BotTestSuite) TestUnitAccessUnknownLink() {
	viewer := &discordgo.User{ID: "1000"}
	s.dispatch(s.buttonClick(viewer, linkComponent+"<split>unknown", "MESSAGE-1"))

	s.Len(s.session.responses, 1)
	s.Equal("This link is no longer available.", s.session.responses[0].Content)
	s.True(s.session.responses[0].Ephemeral)
	s.Empty(s.session.records)
}

// TestUnitAccessLinkRespondFailure tests that a failed reply
// does not send an access record.
func (s *BotTestSuite) TestUnitAccessLinkRespondFailure() {
	customID := s.shareLink()
	s.session.records = make(map[string][]*discordgo.MessageEmbed)
	s.session.respondErr = errors.New("unknown interaction")

	s.dispatch(s.buttonClick(&discordgo.User{ID: "1000"}, customID, "MESSAGE-1"))
	s.Empty(s.session.records)
	s.Empty(s.session.followups)
}

// TestUnitMessageDelete tests that deleting the public message
// removes its link from the store.
func (s *BotTestSuite) TestUnitMessageDelete() {
	customID := s.shareLink()
	handler := &DiscordEventHandler{s.bot}

	handler.onBulkMessageDelete(&discordgo.MessageDeleteBulk{
		GuildID:  testGuildID,
		Messages: []string{"OTHER-MESSAGE"},
	})
	_, err := s.bot.datastore.Link().Get(context.Background(), customID)
	s.NoError(err)

	handler.onMessageDelete(&discordgo.MessageDelete{
		Message: &discordgo.Message{ID: "MESSAGE-1", GuildID: testGuildID},
	})
	_, err = s.bot.datastore.Link().Get(context.Background(), customID)
	s.ErrorIs(err, model.ErrLinkNotFound)
}

// TestUnitDispatchFilters tests that interactions are ignored
// before the bot is ready and for other applications.
func (s *BotTestSuite) TestUnitDispatchFilters() {
	s.bot.ready.Store(false)
	s.dispatch(s.linkCommand(s.creator, testGuildID, testURL))
	s.Empty(s.session.responses)

	s.bot.ready.Store(true)
	i := s.linkCommand(s.creator, testGuildID, testURL)
	i.AppID = "OTHER-APP"
	s.dispatch(i)
	s.Empty(s.session.responses)

	// buttons not created by the bot
	s.dispatch(s.buttonClick(s.creator, "other-button", "MESSAGE-1"))
	s.Empty(s.session.responses)
}

// TestUnitHandleRecoversPanic tests that a panicking handler
// is reported to the user instead of crashing.
func (s *BotTestSuite) TestUnitHandleRecoversPanic() {
	i := s.linkCommand(s.creator, testGuildID, testURL)
	t := s.bot.transactions.New(context.Background(), "Test", i.Interaction)

	s.NotPanics(func() {
		s.bot.handle(t, "test", "Failed", func(*transaction.Transaction) error {
			panic("boom")
		})
	})
	s.Len(s.session.responses, 1)
	s.Equal("Failed: panic: boom", s.session.responses[0].Content)
	s.Error(t.Context().Err())
}

// TestUnitRegisterCommandsFailure tests that a failed command
// sync is logged as an error.
func (s *BotTestSuite) TestUnitRegisterCommandsFailure() {
	s.bot.registerCommands(&failingCommands{err: errors.New("unauthorized")})

	s.Equal(1, s.errorLines())
	s.Equal(log.ErrorLevel, s.logs.LastEntry().Level)
	s.Contains(s.logs.LastEntry().Message, "unauthorized")
}

// TestUnitApplicationIDOnReconnect tests that READY events may
// update the application id while interactions are dispatched.
func (s *BotTestSuite) TestUnitApplicationIDOnReconnect() {
	var wg sync.WaitGroup
	for n := 0; n < 5; n++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.bot.setApplicationID(&discordgo.Ready{
				User:        &discordgo.User{ID: "BOT-USER"},
				Application: &discordgo.Application{ID: testAppID},
			})
		}()
		go func() {
			defer wg.Done()
			s.dispatch(s.buttonClick(s.creator, linkComponent+"<split>unknown", "MESSAGE-1"))
		}()
	}
	wg.Wait()

	s.Equal(testAppID, s.bot.applicationID())
	s.Len(s.session.responses, 5)

	s.bot.setApplicationID(&discordgo.Ready{User: &discordgo.User{ID: "BOT-USER"}})
	s.Equal("BOT-USER", s.bot.applicationID())
}

// TestUnitDefaultConfiguration tests that the defaults are valid
// once the credentials are set, and only then.
func (s *BotTestSuite) TestUnitDefaultConfiguration() {
	cfg := DefaultConfiguration()
	s.Equal("link", cfg.SlashCommands.Link.Name)
	s.Equal("url", cfg.SlashCommands.Link.Option)
	s.ErrorIs(config.ValidateConfiguration(cfg), config.ErrConfiguration)

	cfg.DiscordToken = "TOKEN"
	cfg.LogChannelID = "not-a-number"
	s.ErrorIs(config.ValidateConfiguration(cfg), config.ErrConfiguration)

	cfg.LogChannelID = testLogChannel
	s.NoError(config.ValidateConfiguration(cfg))
}

type failingCommands struct {
	err error
}

func (f *failingCommands) ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	return nil, f.err
}

func (f *failingCommands) ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	return nil, f.err
}

func (f *failingCommands) ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error {
	return f.err
}

func TestBotTestSuite(t *testing.T) {
	suite.Run(t, new(BotTestSuite))
}
