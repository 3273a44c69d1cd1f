package util

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewUUID returns a new base58 encoded UUID
func NewUUID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}

// NewPrefixedID returns a base58 UUID prefixed by the kind of record it identifies, e.g. "evt_...".
func NewPrefixedID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, NewUUID())
}
