package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mdnahid/baki_khata_app/internal/core/ports"
)

// SessionManager is the identity gate: it scopes a KhataService to
// each active shop identity. Establishing a session hydrates it from
// that shop's storage keys; clearing one drops the in-memory state
// only. The persisted local cache survives logout.
type SessionManager struct {
	cache         ports.LocalCache
	remoteLedger  ports.RemoteLedger
	remotePhones  ports.RemotePhones
	publisher     ports.EventPublisher
	remoteTimeout time.Duration
	logger        *slog.Logger

	mu       sync.Mutex
	sessions map[string]*KhataService
}

// NewSessionManager creates a manager sharing the given backends
// across all shop sessions.
func NewSessionManager(
	cache ports.LocalCache,
	remoteLedger ports.RemoteLedger,
	remotePhones ports.RemotePhones,
	publisher ports.EventPublisher,
	remoteTimeout time.Duration,
	logger *slog.Logger,
) *SessionManager {
	return &SessionManager{
		cache:         cache,
		remoteLedger:  remoteLedger,
		remotePhones:  remotePhones,
		publisher:     publisher,
		remoteTimeout: remoteTimeout,
		logger:        logger,
		sessions:      make(map[string]*KhataService),
	}
}

// Establish returns the session for the shop, creating and loading it
// on first use. Every caller passes through Load, which gates on the
// one-time hydration: a request that races the first touch of a shop
// waits for the load instead of mutating a half-hydrated session.
func (m *SessionManager) Establish(ctx context.Context, shopID string) *KhataService {
	m.mu.Lock()
	svc, ok := m.sessions[shopID]
	if !ok {
		svc = NewKhataService(shopID, m.cache, m.remoteLedger, m.remotePhones, m.publisher, m.remoteTimeout, m.logger)
		m.sessions[shopID] = svc
	}
	m.mu.Unlock()

	svc.Load(ctx)
	return svc
}

// Clear drops the in-memory session for the shop. It does not delete
// the shop's persisted local cache; logout is a session operation, not
// a data-deletion operation.
func (m *SessionManager) Clear(shopID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, shopID)
}
