package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind identifies the four recognized ledger event types.
// The debit/credit polarity is fixed per kind and must never be
// inferred from anything else.
type EntryKind string

const (
	CashCredit    EntryKind = "CASH_CREDIT"    // shop extended cash credit
	WalletCredit  EntryKind = "WALLET_CREDIT"  // shop extended mobile-wallet credit
	WalletPayment EntryKind = "WALLET_PAYMENT" // customer paid via mobile wallet
	CashPayment   EntryKind = "CASH_PAYMENT"   // customer paid cash
)

// IsValid reports whether k is one of the four recognized kinds.
func (k EntryKind) IsValid() bool {
	switch k {
	case CashCredit, WalletCredit, WalletPayment, CashPayment:
		return true
	}
	return false
}

// IsDebit reports whether k increases the customer's outstanding balance.
func (k EntryKind) IsDebit() bool {
	return k == CashCredit || k == WalletCredit
}

// IDOrigin records which side assigned an entry identifier.
type IDOrigin string

const (
	IDOriginLocal  IDOrigin = "local"
	IDOriginRemote IDOrigin = "remote"
)

// EntryID is an entry identifier together with its provenance.
// A locally assigned id stays valid for local operations even if the
// remote store later assigns a canonical one (or never does).
type EntryID struct {
	Value  string   `json:"value"`
	Origin IDOrigin `json:"origin"`
}

// NewLocalEntryID wraps a locally generated identifier.
func NewLocalEntryID(value string) EntryID {
	return EntryID{Value: value, Origin: IDOriginLocal}
}

// NewRemoteEntryID wraps an identifier assigned by the remote store.
func NewRemoteEntryID(value string) EntryID {
	return EntryID{Value: value, Origin: IDOriginRemote}
}

func (id EntryID) String() string {
	return id.Value
}

// IsZero reports whether the id is unassigned.
func (id EntryID) IsZero() bool {
	return id.Value == ""
}

// UnmarshalJSON accepts both the {"value":..,"origin":..} form and a
// bare string. Older exports carried plain string ids; those are
// treated as locally assigned.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id.Value = s
		id.Origin = IDOriginLocal
		return nil
	}

	type entryID EntryID
	var v entryID
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Origin != IDOriginRemote {
		v.Origin = IDOriginLocal
	}
	*id = EntryID(v)
	return nil
}

// LedgerEntry is one immutable financial event on a customer's tab.
type LedgerEntry struct {
	ID           EntryID         `json:"id"`
	CustomerName string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Kind         EntryKind       `json:"type"`
	OccurredAt   time.Time       `json:"date"`
	Note         string          `json:"note,omitempty"`
}
