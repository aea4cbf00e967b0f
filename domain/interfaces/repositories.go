package interfaces

import (
	"context"
	"time"

	"tally/domain/entities"
)

// WalletRepository defines the interface for wallet account data access
type WalletRepository interface {
	// GetByUserID retrieves a wallet account, or nil if none exists
	GetByUserID(ctx context.Context, userID int64) (*entities.WalletAccount, error)

	// GetOrCreateForUpdate loads the account row under a row-level lock,
	// creating it with a zero balance if it does not exist. Must be called
	// inside a transaction.
	GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.WalletAccount, error)

	// UpdateBalance sets the account balance
	UpdateBalance(ctx context.Context, userID int64, newBalance int64) error
}

// WalletEntryRepository defines the interface for the append-only ledger log
type WalletEntryRepository interface {
	// Record appends a new ledger entry
	Record(ctx context.Context, entry *entities.WalletEntry) error

	// GetByUser returns the most recent ledger entries for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error)

	// GetByDateRange returns ledger entries within a date range
	GetByDateRange(ctx context.Context, userID int64, from, to time.Time) ([]*entities.WalletEntry, error)

	// SumByUser returns the sum of all change amounts for a user
	SumByUser(ctx context.Context, userID int64) (int64, error)
}

// StreakRepository defines the interface for sign-in streak data access
type StreakRepository interface {
	// GetOrCreateForUpdate loads the streak row under a row-level lock,
	// creating an empty record if none exists. Must be called inside a
	// transaction.
	GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.SignInStreak, error)

	// Update persists the streak state after a successful sign-in
	Update(ctx context.Context, streak *entities.SignInStreak) error
}

// PetRepository defines the interface for pet progression data access
type PetRepository interface {
	// GetOrCreateForUpdate loads the pet row under a row-level lock,
	// creating a level-1 pet if none exists. Must be called inside a
	// transaction.
	GetOrCreateForUpdate(ctx context.Context, userID int64) (*entities.PetProgress, error)

	// Update persists the pet's level and experience
	Update(ctx context.Context, pet *entities.PetProgress) error
}

// IdempotencyRepository defines the interface for idempotency record storage
type IdempotencyRepository interface {
	// Lookup returns the record for (operation, key), or nil if none exists
	// or the record has expired
	Lookup(ctx context.Context, operation, key string) (*entities.IdempotencyRecord, error)

	// Record inserts the record for (operation, key). Returns
	// entities.ErrIdempotencyConflict if a record with a different payload
	// already exists for the key.
	Record(ctx context.Context, record *entities.IdempotencyRecord) error

	// DeleteExpired removes records whose retention window has passed and
	// returns the number of rows deleted
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CouponRepository defines the interface for issued coupon storage
type CouponRepository interface {
	// Create inserts a newly minted coupon
	Create(ctx context.Context, coupon *entities.IssuedCoupon) error

	// CodeExists reports whether a coupon code has already been issued
	CodeExists(ctx context.Context, code string) (bool, error)

	// GetByUser returns coupons issued to a user, newest first
	GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.IssuedCoupon, error)
}
