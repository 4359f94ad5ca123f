package model

import (
	"errors"
	"time"
)

// ErrLinkNotFound is returned by the link stores when no link
// is bound to the requested button.
var ErrLinkNotFound = errors.New("link not found")

type Link struct {
	ID        string    `json:"id"`         // Custom id of the button that conceals the link
	URL       string    `json:"url"`        // The concealed link
	CreatorID string    `json:"creator_id"` // Id of the user that shared the link
	GuildID   string    `json:"guild_id"`   // Id of the discord server in which the link has been shared
	ChannelID string    `json:"channel_id"` // Id of the channel in which the link has been shared
	MessageID string    `json:"message_id"` // Id of the public message holding the button, empty until posted
	CreatedAt time.Time `json:"created_at"` // Time the link was shared (UTC)
}

// ErrLinkExists is returned by the link stores when saving
// a link whose ID is already taken.
var ErrLinkExists = errors.New("link already exists")
