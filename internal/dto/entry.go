package dto

import (
	"time"

	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest carries a new ledger entry from the client. The
// kind label is validated by the registered entrykind validator.
type CreateEntryRequest struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Kind   string          `json:"type" binding:"required,entrykind"`
	Note   string          `json:"note"`
}

// RecordPaymentRequest carries a payment against a customer's folder.
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note"`
}

// ParsedEntryResponse is the suggestion returned by the smart-entry
// assist; the client confirms it and posts it as a normal entry.
type ParsedEntryResponse struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Kind   string          `json:"type"`
	Note   string          `json:"note,omitempty"`
}

// EntryResponse is the API shape of one ledger entry.
type EntryResponse struct {
	ID       string          `json:"id"`
	IDOrigin string          `json:"idOrigin"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Kind     string          `json:"type"`
	Date     time.Time       `json:"date"`
	Note     string          `json:"note,omitempty"`
}

// ToEntryResponse maps a ledger entry to its API shape.
func ToEntryResponse(entry models.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:       entry.ID.Value,
		IDOrigin: string(entry.ID.Origin),
		Name:     entry.CustomerName,
		Amount:   entry.Amount,
		Kind:     string(entry.Kind),
		Date:     entry.OccurredAt,
		Note:     entry.Note,
	}
}

// ToEntryResponses maps a slice of entries, preserving order.
func ToEntryResponses(entries []models.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToEntryResponse(e))
	}
	return out
}
