package main

import (
	"context"
	"discord-link-bot/bot"
	"discord-link-bot/config"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

type LinkBot struct {
	Config *bot.Configuration `yaml:"LinkBot" validate:"required"`
}

// initBot creates a new bot object with the provided config,
// initializes it and returns the bot object
func initBot(ctx context.Context, configuration *bot.Configuration) *bot.Bot {
	b := bot.NewBot(ctx, configuration)
	if err := b.Init(); err != nil {
		log.Panic(err)
	}
	return b
}

// loadConfig loads the config from the provided yaml files
// over the default configuration, adds the credentials from
// the environment and validates the result. Panics on error.
func loadConfig(configFiles []string) *bot.Configuration {
	linkBot := LinkBot{Config: bot.DefaultConfiguration()}
	if err := config.LoadConfiguration(configFiles, &linkBot); err != nil {
		log.Panic(err)
	}
	credentials, err := config.LoadCredentials(os.LookupEnv)
	if err != nil {
		log.Panic(err)
	}
	linkBot.Config.DiscordToken = credentials.Token
	linkBot.Config.LogChannelID = credentials.LogChannelID

	if err := config.ValidateConfiguration(&linkBot); err != nil {
		log.Panic(err)
	}
	return linkBot.Config
}

func main() {
	configFileParam := flag.String(
		"configFiles",
		"",
		"Comma separated files with configuration",
	)
	flag.Parse()
	ctx, cancel := context.WithCancel(context.Background())
	shutdownSignal := make(chan os.Signal, 2)
	signal.Notify(shutdownSignal, syscall.SIGTERM, syscall.SIGINT)

	configuration := loadConfig(strings.Split(*configFileParam, ","))

	b := initBot(ctx, configuration)

	go func() {
		// graceful shutdown
		<-shutdownSignal
		log.Println()
		log.Warn("Shutdown requested ...")
		cancel()
		<-time.After(time.Second * 10)
		log.Fatal("Forced shutdown")
	}()

	b.Run()
	log.Print("Clean Shutdown")
}
