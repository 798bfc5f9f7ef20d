package pgsql

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mdnahid/baki_khata_app/internal/core/ports"
)

// PgxPhoneRepository persists the customer phone annex in the remote
// customer_phones table, scoped by owner.
type PgxPhoneRepository struct {
	pool *pgxpool.Pool
}

// NewPhoneRepository creates a new repository for customer phone data.
func NewPhoneRepository(pool *pgxpool.Pool) *PgxPhoneRepository {
	return &PgxPhoneRepository{pool: pool}
}

var _ ports.RemotePhones = (*PgxPhoneRepository)(nil)

// FindPhonesByOwner retrieves the full name-to-phone mapping for the owner.
func (r *PgxPhoneRepository) FindPhonesByOwner(ctx context.Context, owner string) (map[string]string, error) {
	query := `SELECT name, phone FROM customer_phones WHERE owner = $1;`
	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer phones for owner %s: %w", owner, err)
	}
	defer rows.Close()

	phones := make(map[string]string)
	for rows.Next() {
		var name, phone string
		if err := rows.Scan(&name, &phone); err != nil {
			return nil, fmt.Errorf("failed to scan customer phone row: %w", err)
		}
		phones[name] = phone
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read customer phone rows: %w", err)
	}
	return phones, nil
}

// UpsertPhone stores or replaces the phone number for a customer name.
func (r *PgxPhoneRepository) UpsertPhone(ctx context.Context, owner string, name, phone string) error {
	query := `
		INSERT INTO customer_phones (name, phone, owner)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner, name) DO UPDATE SET
			phone = EXCLUDED.phone;
	`
	if _, err := r.pool.Exec(ctx, query, strings.TrimSpace(name), strings.TrimSpace(phone), owner); err != nil {
		return fmt.Errorf("failed to upsert phone for customer %s: %w", name, err)
	}
	return nil
}
