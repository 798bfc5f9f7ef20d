package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerFolder is the derived per-customer aggregate view. It is
// recomputed from the entry list on every read and never persisted.
type CustomerFolder struct {
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	Count          int             `json:"transactionCount"`
	LastActivityAt time.Time       `json:"lastActivityAt"`
	Phone          string          `json:"phone,omitempty"`
}

// DashboardTotals is the derived global summary across all customers.
type DashboardTotals struct {
	TotalExtended    decimal.Decimal `json:"totalExtended"`
	TotalReceived    decimal.Decimal `json:"totalReceived"`
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	EntryCount       int             `json:"entryCount"`
}
