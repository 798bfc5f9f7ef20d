package ports

import (
	"context"

	"github.com/mdnahid/baki_khata_app/internal/models"
)

// LocalCache is the device-local key-value store. It is always
// present, synchronous, and authoritative for the running session.
// Values are JSON-encoded; a value that fails to decode surfaces
// apperrors.ErrStorageCorrupt and callers fall back to empty state.
type LocalCache interface {
	// Get decodes the value stored under key into v. The boolean
	// reports whether the key was present at all.
	Get(key string, v any) (bool, error)
	Put(key string, v any) error
	Delete(key string) error
}

// RemoteLedger is the optional remote table store for ledger entries.
// Every call is fallible and bounded by the caller's context; errors
// degrade the session to offline, they are never fatal.
type RemoteLedger interface {
	FindEntriesByOwner(ctx context.Context, owner string) ([]models.LedgerEntry, error)
	// InsertEntry stores the entry and returns the canonical id the
	// remote side assigned to it.
	InsertEntry(ctx context.Context, owner string, entry models.LedgerEntry) (string, error)
	DeleteEntryByID(ctx context.Context, owner string, id string) error
	DeleteEntriesByName(ctx context.Context, owner string, name string) (int64, error)
	UpdateCustomerName(ctx context.Context, owner string, oldName, newName string) (int64, error)
}

// RemotePhones is the optional remote store for customer contact numbers.
type RemotePhones interface {
	FindPhonesByOwner(ctx context.Context, owner string) (map[string]string, error)
	UpsertPhone(ctx context.Context, owner string, name, phone string) error
}

// EventPublisher publishes domain events best-effort. A failed publish
// is logged and abandoned, mirroring the remote-write policy.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}
