package resume

import "github.com/google/uuid"

// IDFunc produces entry and record identifiers. Ids are never reused.
type IDFunc func() string

// NewID is the production generator (random UUIDv4).
func NewID() string {
	return uuid.NewString()
}
