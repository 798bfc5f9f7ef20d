package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/models"
)

// EntryStore holds the authoritative ordered entry list for one shop
// session. Newest entries sit at the head. It is safe for concurrent
// use; every mutation is atomic with respect to the others.
type EntryStore struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
}

// NewEntryStore creates an empty entry store.
func NewEntryStore() *EntryStore {
	return &EntryStore{entries: make([]models.LedgerEntry, 0)}
}

func validateEntry(entry models.LedgerEntry) error {
	if strings.TrimSpace(entry.CustomerName) == "" {
		return fmt.Errorf("%w: customer name must not be empty", apperrors.ErrValidation)
	}
	if !entry.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrValidation, entry.Amount)
	}
	if !entry.Kind.IsValid() {
		return fmt.Errorf("%w: unrecognized entry kind %q", apperrors.ErrValidation, entry.Kind)
	}
	return nil
}

// normalizeEntry trims the grouping key and fills in the timestamp and
// a locally assigned id when absent.
func normalizeEntry(entry models.LedgerEntry) models.LedgerEntry {
	entry.CustomerName = strings.TrimSpace(entry.CustomerName)
	entry.Note = strings.TrimSpace(entry.Note)
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if entry.ID.IsZero() {
		entry.ID = models.NewLocalEntryID(uuid.NewString())
	}
	return entry
}

// Append validates and inserts an entry at the head of the collection.
// It returns the stored entry, with the assigned id and timestamp.
func (s *EntryStore) Append(entry models.LedgerEntry) (models.LedgerEntry, error) {
	if err := validateEntry(entry); err != nil {
		return models.LedgerEntry{}, err
	}
	entry = normalizeEntry(entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]models.LedgerEntry{entry}, s.entries...)
	return entry, nil
}

// RemoveByID removes the entry whose id value matches. Matching is on
// the id value only, so a locally assigned id keeps working whether or
// not the remote store ever replaced it. Removing an absent id is a
// no-op; the return value reports whether an entry was found.
func (s *EntryStore) RemoveByID(idValue string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID.Value == idValue {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByCustomer removes all entries whose trimmed name equals the
// trimmed input and returns how many were removed.
func (s *EntryStore) RemoveByCustomer(name string) int {
	target := strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	removed := 0
	for _, e := range s.entries {
		if e.CustomerName == target {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return removed
}

// RenameCustomer moves all of oldName's entries to newName. It is a
// no-op returning 0 when newName is empty after trimming.
func (s *EntryStore) RenameCustomer(oldName, newName string) int {
	from := strings.TrimSpace(oldName)
	to := strings.TrimSpace(newName)
	if to == "" {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	renamed := 0
	for i := range s.entries {
		if s.entries[i].CustomerName == from {
			s.entries[i].CustomerName = to
			renamed++
		}
	}
	return renamed
}

// ReplaceAll swaps in a wholesale new entry list, used by import and
// remote refresh. The batch is validated up front and rejected
// all-or-nothing: if any entry is malformed nothing changes.
func (s *EntryStore) ReplaceAll(entries []models.LedgerEntry) error {
	next := make([]models.LedgerEntry, 0, len(entries))
	for i, e := range entries {
		if err := validateEntry(e); err != nil {
			return fmt.Errorf("%w: entry %d: %v", apperrors.ErrImportFormat, i, err)
		}
		next = append(next, normalizeEntry(e))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = next
	return nil
}

// PromoteID replaces a locally assigned id with the canonical id the
// remote store returned for it. Reports whether the entry was still
// present.
func (s *EntryStore) PromoteID(localID, remoteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID.Value == localID {
			s.entries[i].ID = models.NewRemoteEntryID(remoteID)
			return true
		}
	}
	return false
}

// List returns a copied snapshot of the entries in store order.
func (s *EntryStore) List() []models.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *EntryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
