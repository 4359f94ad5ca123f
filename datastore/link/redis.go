package link

import (
	"context"
	"discord-link-bot/model"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	redisKeyPrefix        = "link:"
	redisMessageKeyPrefix = "link-message:"
)

// getter is implemented by both the redis client
// and a watched transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type RedisLinkStore struct {
	log    *log.Logger
	client *redis.Client
}

// NewRedisLinkStore creates an object that handles persisting
// and fetching links as json values in redis.
func NewRedisLinkStore(client *redis.Client, log *log.Logger) *RedisLinkStore {
	return &RedisLinkStore{
		client: client,
		log:    log,
	}
}

// Init verifies the redis connection, there is no schema to create.
func (store *RedisLinkStore) Init(ctx context.Context) error {
	return store.client.Ping(ctx).Err()
}

// Save stores the link only if its ID is not yet taken.
func (store *RedisLinkStore) Save(ctx context.Context, link *model.Link) error {
	t := time.Now()
	value, err := json.Marshal(link)
	if err != nil {
		return err
	}
	ok, err := store.client.SetNX(ctx, redisKeyPrefix+link.ID, value, 0).Result()
	if err != nil {
		store.log.WithField("ID", link.ID).Tracef("Redis error: %v", err)
		return err
	}
	if !ok {
		return model.ErrLinkExists
	}
	store.log.WithFields(log.Fields{
		"ID":      link.ID,
		"Latency": time.Since(t),
	}).Trace("Link persisted in redis")
	return nil
}

// SetMessageID updates the stored link inside an optimistic
// transaction, so a concurrent update is never overwritten.
func (store *RedisLinkStore) SetMessageID(ctx context.Context, id string, messageID string) error {
	key := redisKeyPrefix + id
	return store.client.Watch(ctx, func(tx *redis.Tx) error {
		link, err := store.get(ctx, tx, key)
		if err != nil {
			return err
		}
		link.MessageID = messageID
		value, err := json.Marshal(link)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			pipe.Set(ctx, redisMessageKeyPrefix+messageID, id, 0)
			return nil
		})
		return err
	}, key)
}

func (store *RedisLinkStore) Get(ctx context.Context, id string) (*model.Link, error) {
	return store.get(ctx, store.client, redisKeyPrefix+id)
}

func (store *RedisLinkStore) Remove(ctx context.Context, id string) error {
	link, err := store.Get(ctx, id)
	if errors.Is(err, model.ErrLinkNotFound) {
		return nil
	} else if err != nil {
		return err
	}
	keys := []string{redisKeyPrefix + id}
	if len(link.MessageID) > 0 {
		keys = append(keys, redisMessageKeyPrefix+link.MessageID)
	}
	return store.client.Del(ctx, keys...).Err()
}

// RemoveByMessageIDs deletes the links bound to any of the provided
// messages, resolving them through the message index keys.
func (store *RedisLinkStore) RemoveByMessageIDs(ctx context.Context, messageIDs ...string) (int, error) {
	n := 0
	for _, messageID := range messageIDs {
		id, err := store.client.Get(ctx, redisMessageKeyPrefix+messageID).Result()
		if errors.Is(err, redis.Nil) {
			continue
		} else if err != nil {
			return n, err
		}
		removed, err := store.client.Del(
			ctx,
			redisKeyPrefix+id,
			redisMessageKeyPrefix+messageID,
		).Result()
		if err != nil {
			return n, err
		}
		if removed > 0 {
			n++
		}
	}
	return n, nil
}

func (store *RedisLinkStore) Close() error {
	return store.client.Close()
}

func (store *RedisLinkStore) get(ctx context.Context, c getter, key string) (*model.Link, error) {
	value, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrLinkNotFound
	} else if err != nil {
		store.log.WithField("Key", key).Tracef("Redis error: %v", err)
		return nil, err
	}
	link := &model.Link{}
	if err := json.Unmarshal(value, link); err != nil {
		return nil, err
	}
	return link, nil
}
