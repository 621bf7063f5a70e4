// Package state persists the client's durable state: the session, the
// cached profile projection, and the unsent post draft. Everything is one
// JSON document stored under a single key so a crash between operations can
// never leave the token, user, and profile out of step with each other.
package state

import (
	"context"

	"github.com/dpetrovs/proconnect/internal/client/models"
)

// SchemaVersion is bumped whenever Record's shape changes incompatibly.
// A record with an unknown version is discarded on load.
const SchemaVersion = 1

// Record is the single persisted client-state document.
type Record struct {
	SchemaVersion int             `json:"schema_version"`
	Session       models.Session  `json:"session"`
	Profile       *models.Profile `json:"profile,omitempty"`
	Draft         *models.Draft   `json:"draft,omitempty"`
}

// Repository stores and retrieves the client-state record.
type Repository interface {
	// Load returns the saved record, or common.ErrNoSavedState when nothing
	// usable is stored.
	Load(ctx context.Context) (*Record, error)
	// Save atomically replaces the stored record.
	Save(ctx context.Context, rec *Record) error
	// Clear removes the stored record. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
