// Package models defines the ledger entities shared by all services and
// both persistence backends. Entities are plain JSON-tagged structs; a
// transaction embeds its lines so the whole unit round-trips as one document.
package models

import "github.com/google/uuid"

// NewID returns a new UUIDv7 string. UUIDv7 is time-ordered, which keeps
// document keys roughly insertion-ordered in both backends. Falls back to
// UUIDv4 if the system clock is unusable.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
