package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WizardProgress is one persisted wizard session.
type WizardProgress struct {
	QuoteID     uuid.UUID      `json:"quote_id"`
	CurrentStep int            `json:"current_step"`
	Payload     map[string]any `json:"payload"`
	LastSavedAt time.Time      `json:"last_saved_at"`
}

// UpsertStep persists a step payload under a quote id, allocating the id on
// the first save (pass uuid.Nil). Payloads merge: each step writes disjoint
// fields and earlier fields survive later saves.
func (db *DB) UpsertStep(ctx context.Context, quoteID uuid.UUID, step int, payload map[string]any) (uuid.UUID, error) {
	if quoteID == uuid.Nil {
		quoteID = uuid.New()
	}

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal step payload: %w", err)
	}

	_, err = db.pool.Exec(ctx, `
		INSERT INTO wizard_progress (quote_id, current_step, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (quote_id) DO UPDATE SET
			current_step = EXCLUDED.current_step,
			payload      = wizard_progress.payload || EXCLUDED.payload,
			last_saved_at = NOW()`,
		quoteID, step, payloadJSON)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert wizard progress: %w", err)
	}

	return quoteID, nil
}

// GetProgress loads a wizard session by quote id. A missing session returns
// (nil, nil).
func (db *DB) GetProgress(ctx context.Context, quoteID uuid.UUID) (*WizardProgress, error) {
	var (
		progress    WizardProgress
		payloadJSON []byte
	)
	err := db.pool.QueryRow(ctx, `
		SELECT quote_id, current_step, payload, last_saved_at
		FROM wizard_progress WHERE quote_id = $1`, quoteID).
		Scan(&progress.QuoteID, &progress.CurrentStep, &payloadJSON, &progress.LastSavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard progress: %w", err)
	}

	if err := json.Unmarshal(payloadJSON, &progress.Payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress payload: %w", err)
	}
	return &progress, nil
}
