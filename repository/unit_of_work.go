package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tally/database"
	"tally/domain/interfaces"
	"tally/events"
)

// unitOfWork implements the UnitOfWork interface. All repositories obtained
// from it share one pgx transaction.
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	walletRepo       interfaces.WalletRepository
	walletEntryRepo  interfaces.WalletEntryRepository
	streakRepo       interfaces.StreakRepository
	petRepo          interfaces.PetRepository
	idempotencyRepo  interfaces.IdempotencyRepository
	couponRepo       interfaces.CouponRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.walletRepo = newWalletRepositoryWithTx(tx)
	u.walletEntryRepo = newWalletEntryRepositoryWithTx(tx)
	u.streakRepo = newStreakRepositoryWithTx(tx)
	u.petRepo = newPetRepositoryWithTx(tx)
	u.idempotencyRepo = newIdempotencyRepositoryWithTx(tx)
	u.couponRepo = newCouponRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events only after a successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// WalletRepository returns the wallet repository for this unit of work
func (u *unitOfWork) WalletRepository() interfaces.WalletRepository {
	if u.walletRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletRepo
}

// WalletEntryRepository returns the ledger repository for this unit of work
func (u *unitOfWork) WalletEntryRepository() interfaces.WalletEntryRepository {
	if u.walletEntryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletEntryRepo
}

// StreakRepository returns the streak repository for this unit of work
func (u *unitOfWork) StreakRepository() interfaces.StreakRepository {
	if u.streakRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.streakRepo
}

// PetRepository returns the pet repository for this unit of work
func (u *unitOfWork) PetRepository() interfaces.PetRepository {
	if u.petRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.petRepo
}

// IdempotencyRepository returns the idempotency repository for this unit of work
func (u *unitOfWork) IdempotencyRepository() interfaces.IdempotencyRepository {
	if u.idempotencyRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.idempotencyRepo
}

// CouponRepository returns the coupon repository for this unit of work
func (u *unitOfWork) CouponRepository() interfaces.CouponRepository {
	if u.couponRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.couponRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
