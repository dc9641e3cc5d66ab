package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mcabrera/teamquote/internal/types"
)

// SaveQuote stores a finalized quote document. Saving the same id again
// replaces the document, which is what a finalize retry needs.
func (db *DB) SaveQuote(ctx context.Context, q *types.Quote) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}

	document, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quote: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		INSERT INTO quotes (id, currency_code, total_monthly_cost, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			currency_code      = EXCLUDED.currency_code,
			total_monthly_cost = EXCLUDED.total_monthly_cost,
			document           = EXCLUDED.document`,
		q.ID, q.CurrencyCode, q.TotalMonthlyCost, document)
	if err != nil {
		return fmt.Errorf("failed to save quote: %w", err)
	}
	return nil
}

// GetQuote loads a finalized quote by id. A missing quote returns (nil, nil).
func (db *DB) GetQuote(ctx context.Context, id uuid.UUID) (*types.Quote, error) {
	var document []byte
	err := db.pool.QueryRow(ctx,
		`SELECT document FROM quotes WHERE id = $1`, id).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}

	var q types.Quote
	if err := json.Unmarshal(document, &q); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote document: %w", err)
	}
	return &q, nil
}
