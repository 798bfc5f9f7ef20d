package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
	"github.com/mdnahid/baki_khata_app/internal/models"
)

// PgxLedgerRepository persists ledger entries in the remote
// transactions table, one row per entry, scoped by owner.
type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new repository for ledger entry data.
func NewLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{pool: pool}
}

var _ ports.RemoteLedger = (*PgxLedgerRepository)(nil)

// FindEntriesByOwner retrieves all entries belonging to the owner,
// most recent first.
func (r *PgxLedgerRepository) FindEntriesByOwner(ctx context.Context, owner string) ([]models.LedgerEntry, error) {
	query := `
		SELECT id, name, amount, type, date, note
		FROM transactions
		WHERE owner = $1
		ORDER BY date DESC;
	`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for owner %s: %w", owner, err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			entry models.LedgerEntry
			id    string
			kind  string
			note  *string
		)
		if err := rows.Scan(&id, &entry.CustomerName, &entry.Amount, &kind, &entry.OccurredAt, &note); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		entry.ID = models.NewRemoteEntryID(id)
		entry.Kind = models.EntryKind(kind)
		if note != nil {
			entry.Note = *note
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction rows: %w", err)
	}
	return entries, nil
}

// InsertEntry stores the entry and returns the canonical id assigned
// by the remote store.
func (r *PgxLedgerRepository) InsertEntry(ctx context.Context, owner string, entry models.LedgerEntry) (string, error) {
	query := `
		INSERT INTO transactions (id, name, amount, type, date, note, owner)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
	var note *string
	if entry.Note != "" {
		note = &entry.Note
	}

	var remoteID string
	err := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		strings.TrimSpace(entry.CustomerName),
		entry.Amount,
		string(entry.Kind),
		entry.OccurredAt,
		note,
		owner,
	).Scan(&remoteID)
	if err != nil {
		return "", fmt.Errorf("failed to insert transaction for owner %s: %w", owner, err)
	}
	return remoteID, nil
}

// DeleteEntryByID removes a single entry. Deleting an id that is not
// present remotely is not an error; the row may simply never have
// propagated.
func (r *PgxLedgerRepository) DeleteEntryByID(ctx context.Context, owner string, id string) error {
	query := `DELETE FROM transactions WHERE owner = $1 AND id = $2;`
	if _, err := r.pool.Exec(ctx, query, owner, id); err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}
	return nil
}

// DeleteEntriesByName removes every entry for the named customer and
// returns how many rows were removed.
func (r *PgxLedgerRepository) DeleteEntriesByName(ctx context.Context, owner string, name string) (int64, error) {
	query := `DELETE FROM transactions WHERE owner = $1 AND name = $2;`
	tag, err := r.pool.Exec(ctx, query, owner, strings.TrimSpace(name))
	if err != nil {
		return 0, fmt.Errorf("failed to delete transactions for customer %s: %w", name, err)
	}
	return tag.RowsAffected(), nil
}

// UpdateCustomerName renames a customer across all their entries.
func (r *PgxLedgerRepository) UpdateCustomerName(ctx context.Context, owner string, oldName, newName string) (int64, error) {
	query := `UPDATE transactions SET name = $3 WHERE owner = $1 AND name = $2;`
	tag, err := r.pool.Exec(ctx, query, owner, strings.TrimSpace(oldName), strings.TrimSpace(newName))
	if err != nil {
		return 0, fmt.Errorf("failed to rename customer %s: %w", oldName, err)
	}
	return tag.RowsAffected(), nil
}
