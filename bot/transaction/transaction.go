package transaction

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Timeout bounds the datastore and audit work done
// while handling a single interaction.
const Timeout = 10 * time.Second

type Transactions struct {
	id  atomic.Uint64
	log *log.Logger
}

type Transaction struct {
	id           uint64
	t            string
	interaction  *discordgo.Interaction
	acknowledged atomic.Bool
	started      time.Time
	log          *log.Entry
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewTransactions constructs a new object that handles
// the creation of Transaction objects.
func NewTransactions(log *log.Logger) *Transactions {
	return &Transactions{log: log}
}

// New constructs a new Transaction object.
// A transaction holds the interaction received from the user
// for the whole duration of handling it, whether it has already
// been responded to, and a logger entry carrying its id.
// NOTE: the transaction's context is cancelled when Done is called.
func (t *Transactions) New(ctx context.Context, tp string, interaction *discordgo.Interaction) *Transaction {
	id := t.id.Add(1)
	fields := log.Fields{
		"ID":   id,
		"Type": tp,
	}
	if interaction != nil {
		fields["GuildID"] = interaction.GuildID
		fields["ChannelID"] = interaction.ChannelID
		if u := userOf(interaction); u != nil {
			fields["UserID"] = u.ID
		}
	}
	entry := t.log.WithFields(fields)
	entry.Debug("Started new transaction ...")

	c, cancel := context.WithTimeout(ctx, Timeout)
	return &Transaction{
		id:          id,
		t:           tp,
		interaction: interaction,
		started:     time.Now(),
		log:         entry,
		ctx:         c,
		cancel:      cancel,
	}
}

// Interaction returns the interaction stored in the transaction
func (t *Transaction) Interaction() *discordgo.Interaction {
	return t.interaction
}

// GuildID returns the id of the guild in which the interaction
// was created, empty for interactions in direct messages.
func (t *Transaction) GuildID() string {
	if t.interaction == nil {
		return ""
	}
	return t.interaction.GuildID
}

// User returns the user that created the interaction. Inside a guild
// this is the member's user, in direct messages the interaction's user.
func (t *Transaction) User() *discordgo.User {
	if t.interaction == nil {
		return nil
	}
	return userOf(t.interaction)
}

func (t *Transaction) Context() context.Context {
	return t.ctx
}

func (t *Transaction) Log() *log.Entry {
	return t.log
}

// Acknowledge marks the interaction as responded to, further
// messages to the user have to be sent as followups.
func (t *Transaction) Acknowledge() {
	t.acknowledged.Store(true)
}

func (t *Transaction) Acknowledged() bool {
	return t.acknowledged.Load()
}

// Done marks the transaction as completed and
// releases its context.
func (t *Transaction) Done(err error) {
	defer t.cancel()
	entry := t.log.WithField("Latency", time.Since(t.started))
	if err != nil {
		entry.Debugf("Transaction failed: %v", err)
		return
	}
	entry.Debug("Transaction done")
}

func userOf(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
