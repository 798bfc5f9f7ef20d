package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock TransactionExtractor ---
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, text string) (*ports.ExtractedTransaction, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ExtractedTransaction), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSmartEntryService_Disabled(t *testing.T) {
	svc := services.NewSmartEntryService(nil, discardLogger())

	assert.False(t, svc.Enabled())

	_, err := svc.Parse(context.Background(), "rahim ke 500 taka baki dilam")
	assert.ErrorIs(t, err, apperrors.ErrUnparseable)
}

func TestSmartEntryService_Parse(t *testing.T) {
	extractor := new(MockExtractor)
	extractor.On("Extract", mock.Anything, "rahim ke 500 taka baki dilam").Return(&ports.ExtractedTransaction{
		Name:   " Rahim ",
		Amount: decimal.NewFromInt(500),
		Kind:   "CASH_CREDIT",
		Note:   "baki",
	}, nil).Once()
	svc := services.NewSmartEntryService(extractor, discardLogger())

	require.True(t, svc.Enabled())

	entry, err := svc.Parse(context.Background(), "rahim ke 500 taka baki dilam")
	require.NoError(t, err)

	assert.Equal(t, "Rahim", entry.CustomerName)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, models.CashCredit, entry.Kind)
	assert.Equal(t, "baki", entry.Note)
	assert.True(t, entry.ID.IsZero())
	extractor.AssertExpectations(t)
}

func TestSmartEntryService_ParseRejections(t *testing.T) {
	tests := []struct {
		name      string
		extracted *ports.ExtractedTransaction
		extactErr error
	}{
		{
			name:      "extractor error",
			extactErr: assert.AnError,
		},
		{
			name:      "unrecognized kind label",
			extracted: &ports.ExtractedTransaction{Name: "Rahim", Amount: decimal.NewFromInt(500), Kind: "LOAN"},
		},
		{
			name:      "empty name",
			extracted: &ports.ExtractedTransaction{Name: "  ", Amount: decimal.NewFromInt(500), Kind: "CASH_CREDIT"},
		},
		{
			name:      "non-positive amount",
			extracted: &ports.ExtractedTransaction{Name: "Rahim", Amount: decimal.Zero, Kind: "CASH_CREDIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := new(MockExtractor)
			extractor.On("Extract", mock.Anything, "some text").Return(tt.extracted, tt.extactErr).Once()
			svc := services.NewSmartEntryService(extractor, discardLogger())

			_, err := svc.Parse(context.Background(), "some text")
			assert.ErrorIs(t, err, apperrors.ErrUnparseable)
		})
	}
}

func TestSmartEntryService_ParseEmptyInput(t *testing.T) {
	extractor := new(MockExtractor)
	svc := services.NewSmartEntryService(extractor, discardLogger())

	_, err := svc.Parse(context.Background(), "   ")
	assert.ErrorIs(t, err, apperrors.ErrUnparseable)
	extractor.AssertNotCalled(t, "Extract")
}
