package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/mdnahid/baki_khata_app/internal/models/events"
	"github.com/shopspring/decimal"
)

// SyncState describes where the session stands relative to the remote store.
type SyncState string

const (
	SyncIdle     SyncState = "idle"     // no remote configured, or nothing attempted yet
	SyncPending  SyncState = "pending"  // a remote attempt is in flight
	SyncSynced   SyncState = "synced"   // last remote attempt succeeded
	SyncDegraded SyncState = "degraded" // last remote attempt failed; local-only
)

// SyncStatus is the transient, non-blocking "offline" indicator. A
// degraded status never means a local operation failed.
type SyncStatus struct {
	State         SyncState `json:"state"`
	LastError     string    `json:"lastError,omitempty"`
	LastAttemptAt time.Time `json:"lastAttemptAt,omitzero"`
}

// BackupPayload is the export/import envelope. Older exports were a
// bare entry array; Import accepts both.
type BackupPayload struct {
	Entries  []models.LedgerEntry `json:"entries"`
	Contacts map[string]string    `json:"contacts"`
}

// KhataService mediates one shop's session between the in-memory
// entry store, the always-present local cache, and an optional remote
// store. Every mutation commits locally first, synchronously; the
// remote write happens in a detached goroutine and its outcome never
// blocks or rolls back the local state. The only write-back the
// remote path performs is swapping a locally assigned entry id for
// the canonical remote one.
type KhataService struct {
	shopID string
	store  *EntryStore
	annex  *ContactAnnex
	cache  ports.LocalCache

	remoteLedger ports.RemoteLedger // nil when no remote store is configured
	remotePhones ports.RemotePhones
	publisher    ports.EventPublisher // nil when event publishing is disabled

	remoteTimeout time.Duration
	logger        *slog.Logger

	statusMu sync.Mutex
	status   SyncStatus

	loadOnce    sync.Once
	propagation sync.WaitGroup
}

// NewKhataService wires a session for the given shop. Call Load before
// serving reads.
func NewKhataService(
	shopID string,
	cache ports.LocalCache,
	remoteLedger ports.RemoteLedger,
	remotePhones ports.RemotePhones,
	publisher ports.EventPublisher,
	remoteTimeout time.Duration,
	logger *slog.Logger,
) *KhataService {
	return &KhataService{
		shopID:        shopID,
		store:         NewEntryStore(),
		annex:         NewContactAnnex(),
		cache:         cache,
		remoteLedger:  remoteLedger,
		remotePhones:  remotePhones,
		publisher:     publisher,
		remoteTimeout: remoteTimeout,
		logger:        logger.With(slog.String("shop_id", shopID)),
		status:        SyncStatus{State: SyncIdle},
	}
}

func (s *KhataService) entriesKey() string  { return "entries_" + s.shopID }
func (s *KhataService) contactsKey() string { return "contacts_" + s.shopID }

// Load hydrates the session from the local cache and, when a remote
// store is configured, kicks off a background refresh. Hydration runs
// at most once: concurrent callers block until it completes, so a
// mutation can never be accepted and then clobbered by an in-flight
// initial load. A corrupt cache document degrades to empty state; it
// never fails the load.
func (s *KhataService) Load(ctx context.Context) {
	s.loadOnce.Do(func() { s.hydrate(ctx) })
}

func (s *KhataService) hydrate(ctx context.Context) {
	var entries []models.LedgerEntry
	if _, err := s.cache.Get(s.entriesKey(), &entries); err != nil {
		if errors.Is(err, apperrors.ErrStorageCorrupt) {
			s.logger.Warn("Local entry cache corrupt, starting empty", slog.String("error", err.Error()))
		} else {
			s.logger.Error("Failed to read local entry cache", slog.String("error", err.Error()))
		}
		entries = nil
	}
	if err := s.store.ReplaceAll(entries); err != nil {
		s.logger.Warn("Cached entries malformed, starting empty", slog.String("error", err.Error()))
		_ = s.store.ReplaceAll(nil)
	}

	var contacts map[string]string
	if _, err := s.cache.Get(s.contactsKey(), &contacts); err != nil {
		s.logger.Warn("Local contact cache unreadable, starting empty", slog.String("error", err.Error()))
		contacts = nil
	}
	s.annex.ReplaceAll(contacts)

	if s.remoteLedger != nil {
		s.propagation.Add(1)
		go func() {
			defer s.propagation.Done()
			s.Refresh(context.WithoutCancel(ctx))
		}()
	}
}

// Refresh pulls the remote snapshot and, when it is non-empty and
// fetched without error, replaces the in-memory state and local cache
// wholesale. Any failure, and a remote with zero rows, leaves the
// existing snapshot in place and marks the session degraded.
func (s *KhataService) Refresh(ctx context.Context) {
	if s.remoteLedger == nil {
		return
	}
	s.setStatus(SyncPending, "")

	ctx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	defer cancel()

	entries, err := s.remoteLedger.FindEntriesByOwner(ctx, s.shopID)
	if err != nil {
		s.degrade("remote fetch failed", err)
		return
	}
	if len(entries) == 0 {
		s.degrade("remote returned no rows", nil)
		return
	}

	var phones map[string]string
	if s.remotePhones != nil {
		phones, err = s.remotePhones.FindPhonesByOwner(ctx, s.shopID)
		if err != nil {
			s.degrade("remote phone fetch failed", err)
			return
		}
	}

	if err := s.store.ReplaceAll(entries); err != nil {
		s.degrade("remote snapshot malformed", err)
		return
	}
	s.annex.ReplaceAll(phones)
	s.persistEntries()
	s.persistContacts()
	s.setStatus(SyncSynced, "")
	s.logger.Info("Remote snapshot applied", slog.Int("entries", len(entries)))
}

// AddEntry validates and commits a new entry locally, then propagates
// it to the remote store and event stream best-effort.
func (s *KhataService) AddEntry(ctx context.Context, name string, amount decimal.Decimal, kind models.EntryKind, note string) (models.LedgerEntry, error) {
	entry, err := s.store.Append(models.LedgerEntry{
		CustomerName: name,
		Amount:       amount,
		Kind:         kind,
		Note:         note,
	})
	if err != nil {
		return models.LedgerEntry{}, err
	}
	s.persistEntries()

	s.detach(func(ctx context.Context) {
		s.publishEntryRecorded(ctx, entry)
		if s.remoteLedger == nil {
			return
		}
		remoteID, err := s.remoteLedger.InsertEntry(ctx, s.shopID, entry)
		if err != nil {
			s.degrade("remote insert failed", err)
			return
		}
		if s.store.PromoteID(entry.ID.Value, remoteID) {
			s.persistEntries()
		}
		s.setStatus(SyncSynced, "")
	})
	return entry, nil
}

// RecordPayment commits a cash payment against a customer's folder.
func (s *KhataService) RecordPayment(ctx context.Context, name string, amount decimal.Decimal, note string) (models.LedgerEntry, error) {
	return s.AddEntry(ctx, name, amount, models.CashPayment, note)
}

// DeleteEntry removes an entry by id value, locally first. The id may
// be locally assigned or remote-assigned; deletion works either way.
func (s *KhataService) DeleteEntry(ctx context.Context, idValue string) bool {
	found := s.store.RemoveByID(idValue)
	if !found {
		return false
	}
	s.persistEntries()

	s.detach(func(ctx context.Context) {
		if s.remoteLedger == nil {
			return
		}
		if err := s.remoteLedger.DeleteEntryByID(ctx, s.shopID, idValue); err != nil {
			s.degrade("remote delete failed", err)
			return
		}
		s.setStatus(SyncSynced, "")
	})
	return true
}

// DeleteCustomer removes every entry for the named customer and
// returns how many were removed locally.
func (s *KhataService) DeleteCustomer(ctx context.Context, name string) int {
	removed := s.store.RemoveByCustomer(name)
	if removed == 0 {
		return 0
	}
	s.persistEntries()

	s.detach(func(ctx context.Context) {
		if s.remoteLedger == nil {
			return
		}
		if _, err := s.remoteLedger.DeleteEntriesByName(ctx, s.shopID, name); err != nil {
			s.degrade("remote customer delete failed", err)
			return
		}
		s.setStatus(SyncSynced, "")
	})
	return removed
}

// RenameCustomer migrates all of oldName's entries (and any stored
// contact) to newName. An empty new name is a validation error.
func (s *KhataService) RenameCustomer(ctx context.Context, oldName, newName string) (int, error) {
	to := strings.TrimSpace(newName)
	if to == "" {
		return 0, fmt.Errorf("%w: new customer name must not be empty", apperrors.ErrValidation)
	}

	renamed := s.store.RenameCustomer(oldName, to)
	if renamed == 0 {
		return 0, nil
	}
	s.annex.RenameKey(oldName, to)
	s.persistEntries()
	s.persistContacts()

	s.detach(func(ctx context.Context) {
		if s.remoteLedger == nil {
			return
		}
		if _, err := s.remoteLedger.UpdateCustomerName(ctx, s.shopID, oldName, to); err != nil {
			s.degrade("remote rename failed", err)
			return
		}
		if phone, ok := s.annex.Get(to); ok && s.remotePhones != nil {
			if err := s.remotePhones.UpsertPhone(ctx, s.shopID, to, phone); err != nil {
				s.degrade("remote phone upsert failed", err)
				return
			}
		}
		s.setStatus(SyncSynced, "")
	})
	return renamed, nil
}

// SetPhone stores a contact for the trimmed customer name. An empty
// phone is a valid "explicitly no contact" value.
func (s *KhataService) SetPhone(ctx context.Context, name, phone string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: customer name must not be empty", apperrors.ErrValidation)
	}
	s.annex.Set(name, phone)
	s.persistContacts()

	s.detach(func(ctx context.Context) {
		if s.remotePhones == nil {
			return
		}
		if err := s.remotePhones.UpsertPhone(ctx, s.shopID, name, phone); err != nil {
			s.degrade("remote phone upsert failed", err)
			return
		}
		s.setStatus(SyncSynced, "")
	})
	return nil
}

// Entries returns a snapshot of the session's entries, newest first.
func (s *KhataService) Entries() []models.LedgerEntry {
	return s.store.List()
}

// Totals derives the global dashboard totals.
func (s *KhataService) Totals() models.DashboardTotals {
	return ComputeTotals(s.store.List())
}

// Folders derives the per-customer grouping with contacts attached.
func (s *KhataService) Folders() map[string]models.CustomerFolder {
	return ComputeFolders(s.store.List(), s.annex.Snapshot())
}

// Folder returns one customer's folder and their entries, or false
// when the customer has none.
func (s *KhataService) Folder(name string) (models.CustomerFolder, []models.LedgerEntry, bool) {
	target := strings.TrimSpace(name)
	folder, ok := s.Folders()[target]
	if !ok {
		return models.CustomerFolder{}, nil, false
	}
	var entries []models.LedgerEntry
	for _, e := range s.store.List() {
		if e.CustomerName == target {
			entries = append(entries, e)
		}
	}
	return folder, entries, true
}

// Phone returns the stored contact for a customer, if any.
func (s *KhataService) Phone(name string) (string, bool) {
	return s.annex.Get(name)
}

// ExportJSON serializes the session's entries and contacts as the
// backup envelope.
func (s *KhataService) ExportJSON() ([]byte, error) {
	payload := BackupPayload{
		Entries:  s.store.List(),
		Contacts: s.annex.Snapshot(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup payload: %w", err)
	}
	return data, nil
}

// ExportCode serializes the backup envelope as a base64 text code for
// manual copy/paste transfer.
func (s *KhataService) ExportCode() (string, error) {
	data, err := s.ExportJSON()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Import replaces the session's entries and contacts wholesale from a
// backup payload: either the {entries, contacts} envelope or a legacy
// bare entry array, as raw JSON or a base64 text code. The batch is
// all-or-nothing; a malformed payload changes nothing. Remote
// propagation of the imported set is best-effort and non-blocking.
func (s *KhataService) Import(ctx context.Context, payload []byte) (int, error) {
	raw := payload
	if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(payload))); err == nil {
		raw = decoded
	}

	parsed, err := decodeBackupPayload(raw)
	if err != nil {
		return 0, err
	}

	if err := s.store.ReplaceAll(parsed.Entries); err != nil {
		return 0, err
	}
	s.annex.ReplaceAll(parsed.Contacts)
	s.persistEntries()
	s.persistContacts()

	imported := s.store.List()
	s.detach(func(ctx context.Context) {
		s.propagateImport(ctx, imported)
	})
	return len(imported), nil
}

func decodeBackupPayload(raw []byte) (BackupPayload, error) {
	var payload BackupPayload
	if err := json.Unmarshal(raw, &payload); err == nil && (payload.Entries != nil || payload.Contacts != nil) {
		return payload, nil
	}

	// Legacy format: a bare array of entries.
	var entries []models.LedgerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return BackupPayload{}, fmt.Errorf("%w: payload is neither a backup envelope nor an entry array", apperrors.ErrImportFormat)
	}
	return BackupPayload{Entries: entries}, nil
}

func (s *KhataService) propagateImport(ctx context.Context, entries []models.LedgerEntry) {
	if s.remoteLedger == nil {
		return
	}
	for _, entry := range entries {
		if entry.ID.Origin == models.IDOriginRemote {
			continue
		}
		remoteID, err := s.remoteLedger.InsertEntry(ctx, s.shopID, entry)
		if err != nil {
			s.degrade("remote import propagation failed", err)
			return
		}
		s.store.PromoteID(entry.ID.Value, remoteID)
	}
	if s.remotePhones != nil {
		for name, phone := range s.annex.Snapshot() {
			if err := s.remotePhones.UpsertPhone(ctx, s.shopID, name, phone); err != nil {
				s.degrade("remote contact propagation failed", err)
				return
			}
		}
	}
	s.persistEntries()
	s.setStatus(SyncSynced, "")
}

// Status returns the current sync indicator.
func (s *KhataService) Status() SyncStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// WaitForPropagation blocks until all detached remote attempts have
// finished. Used by tests and graceful shutdown; callers on the
// request path never wait.
func (s *KhataService) WaitForPropagation() {
	s.propagation.Wait()
}

// detach runs fn in its own goroutine with a fresh bounded context.
// The caller's continuation never gates on fn; a failure inside fn is
// surfaced only through the sync status.
func (s *KhataService) detach(fn func(ctx context.Context)) {
	s.propagation.Add(1)
	go func() {
		defer s.propagation.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.remoteTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *KhataService) publishEntryRecorded(ctx context.Context, entry models.LedgerEntry) {
	if s.publisher == nil {
		return
	}
	event := events.EntryRecorded{
		ShopID:     s.shopID,
		EntryID:    entry.ID.Value,
		Customer:   entry.CustomerName,
		Amount:     entry.Amount,
		Kind:       string(entry.Kind),
		OccurredAt: entry.OccurredAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish entry event", slog.String("error", err.Error()))
	}
}

func (s *KhataService) persistEntries() {
	if err := s.cache.Put(s.entriesKey(), s.store.List()); err != nil {
		s.logger.Error("Failed to write local entry cache", slog.String("error", err.Error()))
	}
}

func (s *KhataService) persistContacts() {
	if err := s.cache.Put(s.contactsKey(), s.annex.Snapshot()); err != nil {
		s.logger.Error("Failed to write local contact cache", slog.String("error", err.Error()))
	}
}

func (s *KhataService) setStatus(state SyncState, lastError string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status = SyncStatus{
		State:         state,
		LastError:     lastError,
		LastAttemptAt: time.Now().UTC(),
	}
}

func (s *KhataService) degrade(msg string, err error) {
	detail := msg
	if err != nil {
		detail = fmt.Sprintf("%s: %v", msg, err)
	}
	s.setStatus(SyncDegraded, detail)
	s.logger.Warn("Remote sync degraded", slog.String("reason", detail))
}
