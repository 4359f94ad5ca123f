package builder

import (
	"discord-link-bot/builder/audit"
	"discord-link-bot/builder/link"
)

type Configuration struct {
	Link  *link.Configuration  `yaml:"Link" validate:"required"`
	Audit *audit.Configuration `yaml:"Audit" validate:"required"`
}

type Builder struct {
	link  *link.LinkBuilder
	audit *audit.AuditBuilder
}

// DefaultConfiguration returns the builder configuration
// used when no config file overrides it.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Link:  link.DefaultConfiguration(),
		Audit: audit.DefaultConfiguration(),
	}
}

// NewBuilder constructs an object that handles building
// the shared link messages and the audit records.
func NewBuilder(config *Configuration) *Builder {
	return &Builder{
		link:  link.NewLinkBuilder(config.Link),
		audit: audit.NewAuditBuilder(config.Audit),
	}
}

// Link returns an object that handles building the public
// message and the components of a shared link.
func (builder *Builder) Link() *link.LinkBuilder {
	return builder.link
}

// Audit returns an object that handles building
// the records sent to the audit channel.
func (builder *Builder) Audit() *audit.AuditBuilder {
	return builder.audit
}
