package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/mdnahid/baki_khata_app/internal/models"
)

// SmartEntryService proxies free text through the configured
// extraction collaborator and validates the result into an
// entry-shaped value. Nil extractor means the assist is disabled.
type SmartEntryService struct {
	extractor ports.TransactionExtractor
	logger    *slog.Logger
}

// NewSmartEntryService creates a new smart entry service.
func NewSmartEntryService(extractor ports.TransactionExtractor, logger *slog.Logger) *SmartEntryService {
	return &SmartEntryService{extractor: extractor, logger: logger}
}

// Enabled reports whether an extraction collaborator is configured.
func (s *SmartEntryService) Enabled() bool {
	return s.extractor != nil
}

// Parse extracts a structured entry from free text. Anything the
// extractor returns that does not conform to the entry shape (unknown
// kind label, non-positive amount, empty name) reports ErrUnparseable.
func (s *SmartEntryService) Parse(ctx context.Context, text string) (*models.LedgerEntry, error) {
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: smart entry is not configured", apperrors.ErrUnparseable)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input", apperrors.ErrUnparseable)
	}

	extracted, err := s.extractor.Extract(ctx, text)
	if err != nil {
		s.logger.Warn("Extraction request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnparseable, err)
	}

	kind := models.EntryKind(strings.TrimSpace(extracted.Kind))
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unrecognized kind label %q", apperrors.ErrUnparseable, extracted.Kind)
	}
	name := strings.TrimSpace(extracted.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: no customer name extracted", apperrors.ErrUnparseable)
	}
	if !extracted.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrUnparseable, extracted.Amount)
	}

	return &models.LedgerEntry{
		CustomerName: name,
		Amount:       extracted.Amount,
		Kind:         kind,
		Note:         strings.TrimSpace(extracted.Note),
	}, nil
}
