package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExtractedTransaction is the raw structured result from the
// text-extraction collaborator. The kind label is unvalidated here;
// the smart-entry service checks it against the recognized kinds.
type ExtractedTransaction struct {
	Name   string
	Amount decimal.Decimal
	Kind   string
	Note   string
}

// TransactionExtractor turns free text into a structured transaction.
// A failing or non-conforming response means "could not parse", never
// a fatal condition for the session.
type TransactionExtractor interface {
	Extract(ctx context.Context, text string) (*ExtractedTransaction, error)
}
