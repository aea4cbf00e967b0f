package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tally/domain/entities"
	"tally/domain/interfaces"
)

// Operation names used to scope idempotency keys. The same key under a
// different operation is a different record.
const (
	OperationDailySignIn = "daily_signin"
	OperationAdminAdjust = "admin_adjust"
	OperationTransfer    = "transfer"
)

// lookupStoredResult checks for a prior result under (operation, key) and, if
// found, unmarshals the stored payload into out. Returns true on a hit.
func lookupStoredResult(ctx context.Context, repo interfaces.IdempotencyRepository, operation, key string, out any) (bool, error) {
	record, err := repo.Lookup(ctx, operation, key)
	if err != nil {
		return false, fmt.Errorf("failed to look up idempotency key: %w", err)
	}
	if record == nil {
		return false, nil
	}
	if err := json.Unmarshal(record.Payload, out); err != nil {
		return false, fmt.Errorf("failed to decode stored result for key %q: %w", key, err)
	}
	return true, nil
}

// recordResult serializes result and stores it under (operation, key) inside
// the caller's transaction. entities.ErrIdempotencyConflict means another
// request won the insert race or the key was reused; callers roll back and
// replay the stored result.
func recordResult(ctx context.Context, repo interfaces.IdempotencyRepository, operation, key string, userID int64, now time.Time, ttl time.Duration, result any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result for key %q: %w", key, err)
	}

	return repo.Record(ctx, &entities.IdempotencyRecord{
		Key:       key,
		Operation: operation,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
}
