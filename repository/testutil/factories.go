package testutil

import (
	"time"

	"tally/domain/entities"
)

// CreateTestEntry creates a ledger entry with consistent balance arithmetic
func CreateTestEntry(userID int64, before, delta int64, changeType entities.ChangeType) *entities.WalletEntry {
	return &entities.WalletEntry{
		UserID:        userID,
		BalanceBefore: before,
		BalanceAfter:  before + delta,
		ChangeAmount:  delta,
		ChangeType:    changeType,
		Description:   "test entry",
	}
}

// CreateTestStreak creates a streak record for a user who last signed in on
// the given date with the given run length
func CreateTestStreak(userID int64, lastSignIn time.Time, consecutiveDays int) *entities.SignInStreak {
	return &entities.SignInStreak{
		UserID:          userID,
		LastSignInDate:  entities.DateOf(lastSignIn),
		ConsecutiveDays: consecutiveDays,
		LifetimeCount:   int64(consecutiveDays),
	}
}

// CreateTestIdempotencyRecord creates an unexpired idempotency record
func CreateTestIdempotencyRecord(operation, key string, userID int64, payload []byte) *entities.IdempotencyRecord {
	now := time.Now().UTC()
	return &entities.IdempotencyRecord{
		Key:       key,
		Operation: operation,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

// CreateTestCoupon creates an issued coupon
func CreateTestCoupon(code string, userID int64) *entities.IssuedCoupon {
	return &entities.IssuedCoupon{
		Code:     code,
		UserID:   userID,
		IssuedAt: time.Now().UTC(),
	}
}
