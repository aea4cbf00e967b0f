package repository

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"tally/database"
	"tally/domain/entities"
)

// IdempotencyRepository implements the IdempotencyRepository interface
type IdempotencyRepository struct {
	q queryable
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *database.DB) *IdempotencyRepository {
	return &IdempotencyRepository{q: db.Pool}
}

// newIdempotencyRepositoryWithTx creates a new idempotency repository with a transaction
func newIdempotencyRepositoryWithTx(tx queryable) *IdempotencyRepository {
	return &IdempotencyRepository{q: tx}
}

// Lookup returns the record for (operation, key). Expired records are
// treated as not found; a still-valid record always carries the original
// payload.
func (r *IdempotencyRepository) Lookup(ctx context.Context, operation, key string) (*entities.IdempotencyRecord, error) {
	query := `
		SELECT idem_key, operation, user_id, payload, created_at, expires_at
		FROM idempotency_records
		WHERE operation = $1 AND idem_key = $2 AND expires_at > NOW()
	`

	var record entities.IdempotencyRecord
	err := r.q.QueryRow(ctx, query, operation, key).Scan(
		&record.Key,
		&record.Operation,
		&record.UserID,
		&record.Payload,
		&record.CreatedAt,
		&record.ExpiresAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency record %s/%s: %w", operation, key, err)
	}

	return &record, nil
}

// Record inserts the record for (operation, key). The unique constraint on
// the pair makes lookup-then-insert race-safe: the loser's insert changes
// nothing, and comparing payloads tells an idempotent repeat apart from a
// key reused with a different result. A row past its retention window is
// reclaimed in place, so an expired key is reusable before the sweeper gets
// to it.
func (r *IdempotencyRepository) Record(ctx context.Context, record *entities.IdempotencyRecord) error {
	insert := `
		INSERT INTO idempotency_records (idem_key, operation, user_id, payload, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (operation, idem_key) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    payload = EXCLUDED.payload,
		    created_at = EXCLUDED.created_at,
		    expires_at = EXCLUDED.expires_at
		WHERE idempotency_records.expires_at <= NOW()
	`

	result, err := r.q.Exec(ctx, insert,
		record.Key,
		record.Operation,
		record.UserID,
		record.Payload,
		record.CreatedAt,
		record.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record idempotency record %s/%s: %w", record.Operation, record.Key, err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	// Insert lost to a still-valid row; fetch it to classify the conflict
	existing, err := r.Lookup(ctx, record.Operation, record.Key)
	if err != nil {
		return err
	}
	if existing != nil && bytes.Equal(existing.Payload, record.Payload) {
		return nil
	}

	return fmt.Errorf("key %s/%s: %w", record.Operation, record.Key, entities.ErrIdempotencyConflict)
}

// DeleteExpired removes records whose retention window has passed
func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM idempotency_records
		WHERE expires_at <= $1
	`

	result, err := r.q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired idempotency records: %w", err)
	}

	return result.RowsAffected(), nil
}
