package component

import (
	"strings"

	"github.com/google/uuid"
)

const separator = "<split>"

// NewCustomID constructs a unique custom id for a message
// component. The provided name is kept as the id's prefix, so
// the handler of the component may be found from the id alone.
func NewCustomID(name string) string {
	return name + separator + uuid.NewString()
}

// Name retrieves the name of the component from its customID.
func Name(customID string) string {
	return strings.Split(customID, separator)[0]
}
