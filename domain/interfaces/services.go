package interfaces

import (
	"context"
	"time"

	"tally/domain/entities"
	"tally/events"
)

// Clock abstracts the time source so date-sensitive logic is testable
type Clock interface {
	Now() time.Time
}

// Rand abstracts the random source used for the bonus coupon draw
type Rand interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0)
	Float64() float64
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations.
// All repositories obtained from one unit of work share a single database
// transaction; Commit applies every mutation atomically.
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	WalletRepository() WalletRepository
	WalletEntryRepository() WalletEntryRepository
	StreakRepository() StreakRepository
	PetRepository() PetRepository
	IdempotencyRepository() IdempotencyRepository
	CouponRepository() CouponRepository

	// EventBus returns the transactional event publisher; published events
	// are flushed after a successful commit and discarded on rollback
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}

// SignInService defines the interface for processing reward triggers
type SignInService interface {
	// ProcessRewardTrigger runs the sign-in reward transaction for the user,
	// deduplicated by the idempotency key, at the injected clock's current
	// time
	ProcessRewardTrigger(ctx context.Context, userID int64, idempotencyKey string) (*entities.RewardResult, error)

	// ProcessRewardTriggerAt is ProcessRewardTrigger with an explicit
	// trigger time
	ProcessRewardTriggerAt(ctx context.Context, userID int64, idempotencyKey string, triggerTime time.Time) (*entities.RewardResult, error)
}

// WalletService defines the interface for wallet operations
type WalletService interface {
	// ApplyDelta applies a signed point delta to a user's wallet, recording
	// exactly one ledger entry in the same unit of work
	ApplyDelta(ctx context.Context, userID int64, delta int64, changeType entities.ChangeType, description string, correlationCode *string) (*entities.WalletEntry, error)

	// AdminAdjust applies a signed delta as an administrative adjustment,
	// deduplicated by the idempotency key
	AdminAdjust(ctx context.Context, userID int64, delta int64, reason string, idempotencyKey string) (*entities.WalletEntry, error)

	// Transfer moves points between two wallets atomically, deduplicated by
	// the idempotency key
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64, idempotencyKey string) (*entities.TransferReceipt, error)

	// GetBalance returns the current balance, zero if no account exists
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// GetHistory returns the most recent ledger entries for a user
	GetHistory(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error)

	// AuditBalance replays the ledger and compares it to the stored balance
	AuditBalance(ctx context.Context, userID int64) (*entities.LedgerAudit, error)
}
