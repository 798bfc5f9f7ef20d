package services

import (
	"strings"
	"sync"
)

// ContactAnnex is the side mapping from trimmed customer name to a
// contact string. An empty string is a stored "explicitly no contact"
// value, distinct from the name being absent. There is no delete
// path; contacts accumulate for the life of the shop's data.
type ContactAnnex struct {
	mu     sync.Mutex
	phones map[string]string
}

// NewContactAnnex creates an empty annex.
func NewContactAnnex() *ContactAnnex {
	return &ContactAnnex{phones: make(map[string]string)}
}

// Get returns the contact stored for the trimmed name, and whether one exists.
func (a *ContactAnnex) Get(name string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	phone, ok := a.phones[strings.TrimSpace(name)]
	return phone, ok
}

// Set stores the trimmed contact string keyed by the trimmed name.
func (a *ContactAnnex) Set(name, contact string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.phones[strings.TrimSpace(name)] = strings.TrimSpace(contact)
}

// RenameKey moves oldName's contact to newName, overwriting anything
// already stored there. No-op when oldName has no contact.
func (a *ContactAnnex) RenameKey(oldName, newName string) {
	from := strings.TrimSpace(oldName)
	to := strings.TrimSpace(newName)
	if to == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	phone, ok := a.phones[from]
	if !ok {
		return
	}
	a.phones[to] = phone
	delete(a.phones, from)
}

// ReplaceAll swaps in a wholesale new mapping, trimming keys and values.
func (a *ContactAnnex) ReplaceAll(phones map[string]string) {
	next := make(map[string]string, len(phones))
	for name, phone := range phones {
		key := strings.TrimSpace(name)
		if key == "" {
			continue
		}
		next[key] = strings.TrimSpace(phone)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.phones = next
}

// Snapshot returns a copy of the mapping.
func (a *ContactAnnex) Snapshot() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]string, len(a.phones))
	for k, v := range a.phones {
		out[k] = v
	}
	return out
}
