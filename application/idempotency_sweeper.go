package application

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"tally/domain/interfaces"
)

// IdempotencySweeper periodically deletes idempotency records whose
// retention window has passed. Sweeping is garbage collection only; a
// still-valid record is never touched.
type IdempotencySweeper struct {
	uowFactory interfaces.UnitOfWorkFactory
	clock      interfaces.Clock
	interval   time.Duration
}

// NewIdempotencySweeper creates a new sweeper
func NewIdempotencySweeper(uowFactory interfaces.UnitOfWorkFactory, clock interfaces.Clock, interval time.Duration) *IdempotencySweeper {
	return &IdempotencySweeper{
		uowFactory: uowFactory,
		clock:      clock,
		interval:   interval,
	}
}

// Start begins the sweep loop and returns immediately. The loop stops when
// ctx is cancelled.
func (w *IdempotencySweeper) Start(ctx context.Context) {
	go func() {
		log.Infof("Idempotency sweeper started, interval %v", w.interval)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Idempotency sweeper stopping")
				return
			case <-ticker.C:
				if err := w.SweepOnce(ctx); err != nil {
					log.Errorf("Error sweeping idempotency records: %v", err)
				}
			}
		}
	}()
}

// SweepOnce deletes expired records in a single transaction
func (w *IdempotencySweeper) SweepOnce(ctx context.Context) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	deleted, err := uow.IdempotencyRepository().DeleteExpired(ctx, w.clock.Now())
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if deleted > 0 {
		log.WithFields(log.Fields{
			"deleted": deleted,
		}).Info("Swept expired idempotency records")
	}

	return nil
}
