package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryRecorded is emitted after a ledger entry commits locally. It is
// published best-effort; consumers must tolerate gaps.
type EntryRecorded struct {
	ShopID     string          `json:"shopID"`
	EntryID    string          `json:"entryID"`
	Customer   string          `json:"customer"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       string          `json:"kind"`
	OccurredAt time.Time       `json:"occurredAt"`
}
