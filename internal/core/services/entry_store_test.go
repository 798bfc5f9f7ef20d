package services_test

import (
	"testing"
	"time"

	"github.com/mdnahid/baki_khata_app/internal/apperrors"
	"github.com/mdnahid/baki_khata_app/internal/core/services"
	"github.com/mdnahid/baki_khata_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStore_Append(t *testing.T) {
	store := services.NewEntryStore()

	stored, err := store.Append(models.LedgerEntry{
		CustomerName: "  Rahim  ",
		Amount:       decimal.NewFromInt(500),
		Kind:         models.CashCredit,
	})
	require.NoError(t, err)

	assert.Equal(t, "Rahim", stored.CustomerName)
	assert.NotEmpty(t, stored.ID.Value)
	assert.Equal(t, models.IDOriginLocal, stored.ID.Origin)
	assert.False(t, stored.OccurredAt.IsZero())
	assert.Equal(t, 1, store.Len())
}

func TestEntryStore_AppendNewestFirst(t *testing.T) {
	store := services.NewEntryStore()

	first, err := store.Append(models.LedgerEntry{CustomerName: "A", Amount: decimal.NewFromInt(1), Kind: models.CashCredit})
	require.NoError(t, err)
	second, err := store.Append(models.LedgerEntry{CustomerName: "B", Amount: decimal.NewFromInt(2), Kind: models.CashCredit})
	require.NoError(t, err)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestEntryStore_AppendValidation(t *testing.T) {
	tests := []struct {
		name  string
		entry models.LedgerEntry
	}{
		{
			name:  "blank customer name",
			entry: models.LedgerEntry{CustomerName: "   ", Amount: decimal.NewFromInt(10), Kind: models.CashCredit},
		},
		{
			name:  "zero amount",
			entry: models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.Zero, Kind: models.CashCredit},
		},
		{
			name:  "negative amount",
			entry: models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(-5), Kind: models.CashCredit},
		},
		{
			name:  "unrecognized kind",
			entry: models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(10), Kind: models.EntryKind("LOAN")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := services.NewEntryStore()
			_, err := store.Append(tt.entry)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestEntryStore_RemoveByID(t *testing.T) {
	store := services.NewEntryStore()
	stored, err := store.Append(models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
	require.NoError(t, err)

	assert.True(t, store.RemoveByID(stored.ID.Value))
	assert.Equal(t, 0, store.Len())

	// Removing the same id again is a harmless no-op.
	assert.False(t, store.RemoveByID(stored.ID.Value))
}

func TestEntryStore_RemoveByID_MatchesPromotedValue(t *testing.T) {
	store := services.NewEntryStore()
	stored, err := store.Append(models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
	require.NoError(t, err)

	require.True(t, store.PromoteID(stored.ID.Value, "srv-42"))

	assert.False(t, store.RemoveByID(stored.ID.Value))
	assert.True(t, store.RemoveByID("srv-42"))
	assert.Equal(t, 0, store.Len())
}

func TestEntryStore_RemoveByCustomer(t *testing.T) {
	store := services.NewEntryStore()
	for _, name := range []string{"Rahim", "Karim", "Rahim"} {
		_, err := store.Append(models.LedgerEntry{CustomerName: name, Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, store.RemoveByCustomer("  Rahim "))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 0, store.RemoveByCustomer("Rahim"))
}

func TestEntryStore_RenameCustomer(t *testing.T) {
	store := services.NewEntryStore()
	for _, name := range []string{"Rahim", "Karim", "Rahim"} {
		_, err := store.Append(models.LedgerEntry{CustomerName: name, Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, store.RenameCustomer("Rahim", "Rahim Uddin"))

	var renamed int
	for _, e := range store.List() {
		if e.CustomerName == "Rahim Uddin" {
			renamed++
		}
	}
	assert.Equal(t, 2, renamed)
}

func TestEntryStore_RenameCustomer_MergesIntoExisting(t *testing.T) {
	store := services.NewEntryStore()
	for _, name := range []string{"Rahim", "Karim"} {
		_, err := store.Append(models.LedgerEntry{CustomerName: name, Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, store.RenameCustomer("Rahim", "Karim"))

	folders := services.ComputeFolders(store.List(), nil)
	require.Len(t, folders, 1)
	assert.Equal(t, 2, folders["Karim"].Count)
}

func TestEntryStore_RenameCustomer_EmptyNewNameIsNoOp(t *testing.T) {
	store := services.NewEntryStore()
	_, err := store.Append(models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
	require.NoError(t, err)

	assert.Equal(t, 0, store.RenameCustomer("Rahim", "   "))
	assert.Equal(t, "Rahim", store.List()[0].CustomerName)
}

func TestEntryStore_ReplaceAll(t *testing.T) {
	store := services.NewEntryStore()
	_, err := store.Append(models.LedgerEntry{CustomerName: "Old", Amount: decimal.NewFromInt(1), Kind: models.CashCredit})
	require.NoError(t, err)

	next := []models.LedgerEntry{
		{CustomerName: "A", Amount: decimal.NewFromInt(10), Kind: models.CashCredit, OccurredAt: time.Now().UTC()},
		{CustomerName: "B", Amount: decimal.NewFromInt(20), Kind: models.CashPayment, OccurredAt: time.Now().UTC()},
	}
	require.NoError(t, store.ReplaceAll(next))

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].CustomerName)
}

func TestEntryStore_ReplaceAll_AllOrNothing(t *testing.T) {
	store := services.NewEntryStore()
	_, err := store.Append(models.LedgerEntry{CustomerName: "Keep", Amount: decimal.NewFromInt(1), Kind: models.CashCredit})
	require.NoError(t, err)

	bad := []models.LedgerEntry{
		{CustomerName: "A", Amount: decimal.NewFromInt(10), Kind: models.CashCredit},
		{CustomerName: "B", Amount: decimal.NewFromInt(-5), Kind: models.CashCredit},
	}
	err = store.ReplaceAll(bad)
	assert.ErrorIs(t, err, apperrors.ErrImportFormat)

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Keep", list[0].CustomerName)
}

func TestEntryStore_PromoteID(t *testing.T) {
	store := services.NewEntryStore()
	stored, err := store.Append(models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
	require.NoError(t, err)

	assert.True(t, store.PromoteID(stored.ID.Value, "srv-1"))

	got := store.List()[0].ID
	assert.Equal(t, "srv-1", got.Value)
	assert.Equal(t, models.IDOriginRemote, got.Origin)

	// The entry may have been deleted before the remote write returned.
	assert.False(t, store.PromoteID(stored.ID.Value, "srv-2"))
}

func TestEntryStore_ListReturnsCopy(t *testing.T) {
	store := services.NewEntryStore()
	_, err := store.Append(models.LedgerEntry{CustomerName: "Rahim", Amount: decimal.NewFromInt(10), Kind: models.CashCredit})
	require.NoError(t, err)

	list := store.List()
	list[0].CustomerName = "Mutated"

	assert.Equal(t, "Rahim", store.List()[0].CustomerName)
}
