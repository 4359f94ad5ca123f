package bot

import "errors"

var (
	// ErrInvalidContext is returned when the link command is
	// used outside of a guild's channel.
	ErrInvalidContext = errors.New("command used outside of a server channel")
	// ErrMissingURL is returned when the link command's
	// url option is empty.
	ErrMissingURL = errors.New("missing url")
)
