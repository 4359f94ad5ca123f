package datastore

import (
	"context"
	"database/sql"
	"discord-link-bot/datastore/link"
	"discord-link-bot/model"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	MemoryStore   = "memory"
	PostgresStore = "postgres"
	RedisStore    = "redis"
)

// LinkStore binds the concealed links to the
// buttons of the posted messages.
type LinkStore interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, link *model.Link) error
	SetMessageID(ctx context.Context, id string, messageID string) error
	Get(ctx context.Context, id string) (*model.Link, error)
	Remove(ctx context.Context, id string) error
	RemoveByMessageIDs(ctx context.Context, messageIDs ...string) (int, error)
	Close() error
}

type Datastore struct {
	*log.Logger
	config *Configuration
	link   LinkStore
}

type Configuration struct {
	LogLevel string              `yaml:"LogLevel" validate:"required"`
	Type     string              `yaml:"Type" validate:"required,oneof=memory postgres redis"`
	Redis    *RedisConfiguration `yaml:"Redis"`
}

type RedisConfiguration struct {
	Address string `yaml:"Address"`
	DB      int    `yaml:"DB"`
}

// DefaultConfiguration keeps the links in memory.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		LogLevel: "info",
		Type:     MemoryStore,
		Redis:    &RedisConfiguration{Address: "localhost:6379"},
	}
}

// NewDatastore constructs an object that handles persisting
// the links and fetching them when a button is clicked.
// It does not implement any of the bot's logic.
func NewDatastore(config *Configuration) *Datastore {
	l := log.New()
	if level, err := log.ParseLevel(config.LogLevel); err == nil {
		l.SetLevel(level)
	}
	l.Debug("Datastore created")
	return &Datastore{Logger: l, config: config}
}

// Connect creates the link store of the configured type,
// opening a postgres or redis connection when required.
func (datastore *Datastore) Connect(ctx context.Context) error {
	switch datastore.config.Type {
	case PostgresStore:
		db, err := datastore.connectPostgres()
		if err != nil {
			return err
		}
		datastore.link = link.NewPsqlLinkStore(db, datastore.Logger)
	case RedisStore:
		client, err := datastore.connectRedis(ctx)
		if err != nil {
			return err
		}
		datastore.link = link.NewRedisLinkStore(client, datastore.Logger)
	default:
		datastore.link = link.NewMemoryLinkStore(datastore.Logger)
	}
	datastore.WithField("Type", datastore.config.Type).Info("Link store connected")
	return nil
}

// Init initializes the link store, creating
// the tables required by it if necessary.
func (datastore *Datastore) Init(ctx context.Context) error {
	datastore.Debug("Initializing datastore ...")
	if datastore.link == nil {
		return errors.New("Datastore is not connected")
	}
	if err := datastore.link.Init(ctx); err != nil {
		return err
	}
	datastore.Info("Datastore initialized")
	return nil
}

// Link returns the store that holds the shared links.
func (datastore *Datastore) Link() LinkStore {
	return datastore.link
}

// Close closes the connection of the link store.
func (datastore *Datastore) Close() error {
	if datastore.link == nil {
		return nil
	}
	return datastore.link.Close()
}

func (datastore *Datastore) connectPostgres() (*sql.DB, error) {
	datastore.Info("Oppening postgres connection ...")

	env := make(map[string]string)
	for _, k := range []string{
		"POSTGRES_HOST",
		"POSTGRES_PORT",
		"POSTGRES_USER",
		"POSTGRES_PASSWORD",
		"POSTGRES_DB",
	} {
		v := os.Getenv(k)
		if len(v) == 0 {
			return nil, fmt.Errorf("Missing environment variable '%s'", k)
		}
		env[k] = v
	}
	port, err := strconv.Atoi(env["POSTGRES_PORT"])
	if err != nil {
		return nil, errors.New("'POSTGRES_PORT' is not a valid port number")
	}

	db, err := sql.Open(
		"postgres",
		fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			env["POSTGRES_HOST"],
			port,
			env["POSTGRES_USER"],
			env["POSTGRES_PASSWORD"],
			env["POSTGRES_DB"],
		),
	)
	if err != nil {
		return nil, err
	}
	// NOTE: ping the database so we make sure there is a valid connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	datastore.Info("Postgres connection established")
	return db, nil
}

func (datastore *Datastore) connectRedis(ctx context.Context) (*redis.Client, error) {
	datastore.Info("Oppening redis connection ...")

	cfg := datastore.config.Redis
	if cfg == nil {
		cfg = &RedisConfiguration{}
	}
	addr := cfg.Address
	if v := os.Getenv("REDIS_ADDR"); len(v) > 0 {
		addr = v
	}
	if len(addr) == 0 {
		return nil, errors.New("Missing redis address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	datastore.Info("Redis connection established")
	return client, nil
}
