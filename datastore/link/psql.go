package link

import (
	"context"
	"database/sql"
	"discord-link-bot/model"
	"errors"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// uniqueViolation is the postgres error code returned
// when inserting a duplicate primary key.
const uniqueViolation = "23505"

type PsqlLinkStore struct {
	log *log.Logger
	db  *sql.DB
	idx atomic.Uint64
}

// NewPsqlLinkStore creates an object that handles
// persisting and fetching links in a postgres database,
// so that buttons keep working after the bot restarts.
func NewPsqlLinkStore(db *sql.DB, log *log.Logger) *PsqlLinkStore {
	return &PsqlLinkStore{
		db:  db,
		log: log,
	}
}

// Init creates the required tables for the link store.
func (store *PsqlLinkStore) Init(ctx context.Context) error {
	return store.createLinkTable(ctx)
}

// Destroy drops the created tables for the link store.
func (store *PsqlLinkStore) Destroy(ctx context.Context) error {
	return store.dropLinkTable(ctx)
}

// Save persists the provided link. Returns model.ErrLinkExists
// if a link with the same ID has already been saved.
func (store *PsqlLinkStore) Save(ctx context.Context, link *model.Link) error {
	i, t := store.idx.Add(1), time.Now()

	store.log.WithFields(log.Fields{
		"ID":      link.ID,
		"GuildID": link.GuildID,
	}).Tracef("[L%d]Start: Persist link", i)

	if _, err := store.db.ExecContext(
		ctx,
		`
        INSERT INTO "link" (
            id, url, creator_id, guild_id, channel_id, message_id, created_at
        ) VALUES
            ($1, $2, $3, $4, $5, $6, $7);
        `,
		link.ID,
		link.URL,
		link.CreatorID,
		link.GuildID,
		link.ChannelID,
		link.MessageID,
		link.CreatedAt,
	); err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.ErrLinkExists
		}
		return err
	}
	store.log.WithField(
		"Latency", time.Since(t),
	).Tracef("[L%d]Done : Link persisted", i)
	return nil
}

// SetMessageID binds the link identified by the provided id to
// the public message that holds its button.
// Returns model.ErrLinkNotFound if no such link exists.
func (store *PsqlLinkStore) SetMessageID(ctx context.Context, id string, messageID string) error {
	i, t := store.idx.Add(1), time.Now()

	store.log.WithFields(log.Fields{
		"ID":        id,
		"MessageID": messageID,
	}).Tracef("[L%d]Start: Update link message", i)

	res, err := store.db.ExecContext(
		ctx,
		`
        UPDATE "link"
        SET message_id = $2
        WHERE "link".id = $1;
        `,
		id,
		messageID,
	)
	if err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		store.log.Tracef("[L%d]Error: %v", i, model.ErrLinkNotFound)
		return model.ErrLinkNotFound
	}
	store.log.WithField(
		"Latency", time.Since(t),
	).Tracef("[L%d]Done : Link message updated", i)
	return nil
}

// Get fetches the link identified by the provided id.
// Returns model.ErrLinkNotFound if no such link exists.
func (store *PsqlLinkStore) Get(ctx context.Context, id string) (*model.Link, error) {
	i, t := store.idx.Add(1), time.Now()

	store.log.WithField("ID", id).Tracef("[L%d]Start: Find link", i)

	link := &model.Link{}

	if err := store.db.QueryRowContext(
		ctx,
		`
        SELECT id, url, creator_id, guild_id, channel_id, message_id, created_at
        FROM "link"
        WHERE "link".id = $1;
        `,
		id,
	).Scan(
		&link.ID, &link.URL, &link.CreatorID,
		&link.GuildID, &link.ChannelID, &link.MessageID,
		&link.CreatedAt,
	); err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrLinkNotFound
		}
		return nil, err
	}
	link.CreatedAt = link.CreatedAt.UTC()
	store.log.WithField(
		"Latency", time.Since(t),
	).Tracef("[L%d]Done : Link found", i)
	return link, nil
}

// Remove deletes the link identified by the provided id.
// Removing a link that does not exist is not an error.
func (store *PsqlLinkStore) Remove(ctx context.Context, id string) error {
	i, t := store.idx.Add(1), time.Now()

	store.log.WithField("ID", id).Tracef("[L%d]Start: Remove link", i)

	if _, err := store.db.ExecContext(
		ctx,
		`
        DELETE FROM "link"
        WHERE "link".id = $1;
        `,
		id,
	); err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		return err
	}
	store.log.WithField(
		"Latency", time.Since(t),
	).Tracef("[L%d]Done : Link removed", i)
	return nil
}

// RemoveByMessageIDs deletes the links bound to any of the
// provided messages and returns the number of deleted links.
func (store *PsqlLinkStore) RemoveByMessageIDs(ctx context.Context, messageIDs ...string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	i, t := store.idx.Add(1), time.Now()

	store.log.WithField("MessageIDs", messageIDs).Tracef(
		"[L%d]Start: Remove links by messages", i,
	)

	res, err := store.db.ExecContext(
		ctx,
		`
        DELETE FROM "link"
        WHERE "link".message_id = ANY($1);
        `,
		pq.Array(messageIDs),
	)
	if err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	store.log.WithField(
		"Latency", time.Since(t),
	).Tracef("[L%d]Done : %d links removed", i, n)
	return int(n), nil
}

// Close closes the underlying database connection.
func (store *PsqlLinkStore) Close() error {
	return store.db.Close()
}

func (store *PsqlLinkStore) createLinkTable(ctx context.Context) error {
	i, t := store.idx.Add(1), time.Now()

	store.log.WithField("TableName", "link").Tracef(
		"[L%d]Start: Create psql table (if not exists)", i,
	)

	if _, err := store.db.ExecContext(
		ctx,
		`
        CREATE TABLE IF NOT EXISTS "link" (
            id VARCHAR PRIMARY KEY,
            url VARCHAR NOT NULL,
            creator_id VARCHAR NOT NULL,
            guild_id VARCHAR NOT NULL,
            channel_id VARCHAR NOT NULL,
            message_id VARCHAR NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS link_message_id_idx ON "link" (message_id);
        `,
	); err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		return err
	}
	store.log.WithField("Latency", time.Since(t)).Tracef(
		"[L%d]Done : psql table created", i,
	)
	return nil
}

func (store *PsqlLinkStore) dropLinkTable(ctx context.Context) error {
	i, t := store.idx.Add(1), time.Now()

	store.log.WithField("TableName", "link").Tracef(
		"[L%d]Start: Drop psql table (if exists)", i,
	)

	if _, err := store.db.ExecContext(
		ctx,
		`DROP TABLE IF EXISTS "link" CASCADE`,
	); err != nil {
		store.log.Tracef("[L%d]Error: %v", i, err)
		return err
	}
	store.log.WithField(
		"Latency", time.Since(t),
	).Tracef("[L%d]Done : psql table dropped", i)
	return nil
}
