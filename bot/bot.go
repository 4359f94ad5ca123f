package bot

import (
	"context"
	"discord-link-bot/bot/audit"
	"discord-link-bot/bot/slash_command"
	"discord-link-bot/bot/transaction"
	"discord-link-bot/builder"
	"discord-link-bot/datastore"
	"discord-link-bot/metrics"
	"discord-link-bot/service"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type Bot struct {
	log          *log.Logger
	ctx          context.Context
	ready        atomic.Bool
	appID        atomic.Value
	service      *service.Service
	builder      *builder.Builder
	datastore    *datastore.Datastore
	metrics      *metrics.Metrics
	transactions *transaction.Transactions
	audit        *audit.AuditLogger
	session      Session
	config       *Configuration
	now          func() time.Time
}

type Configuration struct {
	LogLevel      string                             `yaml:"LogLevel" validate:"required,oneof=panic fatal error warn warning info debug trace"`
	DiscordToken  string                             `yaml:"DiscordToken" validate:"required"`
	LogChannelID  string                             `yaml:"LogChannelID" validate:"required,numeric"`
	Datastore     *datastore.Configuration           `yaml:"Datastore" validate:"required"`
	Builder       *builder.Configuration             `yaml:"Builder" validate:"required"`
	SlashCommands *slash_command.SlashCommandsConfig `yaml:"SlashCommands" validate:"required"`
	Metrics       *metrics.Configuration             `yaml:"Metrics"`
}

// DefaultConfiguration returns the configuration used for
// everything that is not set in the config files. The token
// and the log channel have no defaults.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		LogLevel:      "info",
		Datastore:     datastore.DefaultConfiguration(),
		Builder:       builder.DefaultConfiguration(),
		SlashCommands: slash_command.DefaultConfig(),
		Metrics:       &metrics.Configuration{},
	}
}

// NewBot constructs an object that connects the discord
// interactions with the link store and the audit channel.
func NewBot(ctx context.Context, config *Configuration) *Bot {
	l := log.New()
	if level, err := log.ParseLevel(config.LogLevel); err == nil {
		l.SetLevel(level)
	}
	l.Debug("Creating Discord link bot ...")

	bot := &Bot{
		ctx:          ctx,
		log:          l,
		service:      service.NewService(),
		builder:      builder.NewBuilder(config.Builder),
		datastore:    datastore.NewDatastore(config.Datastore),
		metrics:      metrics.NewMetrics(),
		transactions: transaction.NewTransactions(l),
		config:       config,
		now:          time.Now,
	}
	l.Info("Discord link bot created")
	return bot
}

// Init connects to the configured link store
// and initializes it.
func (bot *Bot) Init() error {
	bot.log.Debug("Initializing the bot ...")

	if err := bot.datastore.Connect(bot.ctx); err != nil {
		return err
	}
	if err := bot.datastore.Init(bot.ctx); err != nil {
		return err
	}
	bot.log.Info("Bot initialized")
	return nil
}

// Run is a long lived worker that creates a new discord session,
// adds required intents and discord event handlers, opens the
// connection, then runs while the context is alive.
func (bot *Bot) Run() {
	done := bot.ctx.Done()

	bot.log.Info("Creating new Discord session...")
	session, err := discordgo.New("Bot " + bot.config.DiscordToken)
	if err != nil {
		bot.log.Panic(err)
	}
	bot.setSession(&discordSession{session})

	// Set intents required by the bot
	intentsHandler := &DiscordIntentsHandler{bot}
	intentsHandler.setIntents(session)

	// Set handlers for events emitted by the discord
	eventHandler := &DiscordEventHandler{bot}
	eventHandler.setHandlers(session)

	if err := session.Open(); err != nil {
		bot.log.Panic(err)
	}

	if addr := bot.config.Metrics.Address; len(addr) > 0 {
		go bot.metrics.Serve(bot.ctx, addr, bot.log)
	}

	defer func() {
		bot.ready.Store(false)
		bot.log.Info("Closing discord session ... ")
		if err := session.Close(); err != nil {
			bot.log.Warn(err)
		}
		if err := bot.datastore.Close(); err != nil {
			bot.log.Warn(err)
		}
	}()

	<-done
}

// setSession sets the handle through which the bot talks
// to discord, and the audit logger that uses it.
func (bot *Bot) setSession(session Session) {
	bot.session = session
	bot.audit = audit.NewAuditLogger(
		session,
		bot.config.LogChannelID,
		bot.builder.Audit(),
		bot.metrics,
		bot.log,
	)
}
