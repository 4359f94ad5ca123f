package audit

import (
	auditbuilder "discord-link-bot/builder/audit"
	"discord-link-bot/metrics"
	"discord-link-bot/model"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ErrDelivery wraps any failure of sending a message to discord.
var ErrDelivery = errors.New("delivery failed")

// Sender is the part of the discord session used
// for sending records to the audit channel.
type Sender interface {
	ResolveChannel(channelID string) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type AuditLogger struct {
	log           *log.Logger
	session       Sender
	destinationID string
	builder       *auditbuilder.AuditBuilder
	metrics       *metrics.Metrics
}

// NewAuditLogger constructs an object that sends audit records
// to the channel identified by the provided destinationID.
func NewAuditLogger(session Sender, destinationID string, builder *auditbuilder.AuditBuilder, m *metrics.Metrics, log *log.Logger) *AuditLogger {
	return &AuditLogger{
		log:           log,
		session:       session,
		destinationID: destinationID,
		builder:       builder,
		metrics:       m,
	}
}

// Record sends the provided record to the audit channel.
// When the audit channel cannot be resolved, the record is
// skipped and nil is returned. Failures of sending the record
// are returned wrapped in ErrDelivery.
func (logger *AuditLogger) Record(record *model.AuditRecord) error {
	entry := logger.log.WithFields(log.Fields{
		"ChannelID": logger.destinationID,
		"Kind":      record.Kind,
	})
	if _, err := logger.session.ResolveChannel(logger.destinationID); err != nil {
		entry.Debugf("Audit channel not resolved, skipping record: %v", err)
		logger.metrics.AuditRecord(string(record.Kind), "skipped")
		return nil
	}
	if _, err := logger.session.ChannelMessageSendEmbed(
		logger.destinationID,
		logger.builder.MapToEmbed(record),
	); err != nil {
		logger.metrics.AuditRecord(string(record.Kind), "failed")
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	logger.metrics.AuditRecord(string(record.Kind), "sent")
	entry.Trace("Audit record sent")
	return nil
}
