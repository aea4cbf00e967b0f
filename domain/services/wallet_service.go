package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tally/config"
	"tally/domain/entities"
	"tally/domain/interfaces"
)

// walletService implements the WalletService interface
type walletService struct {
	uowFactory interfaces.UnitOfWorkFactory
	clock      interfaces.Clock
	cfg        *config.Config
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory interfaces.UnitOfWorkFactory, clock interfaces.Clock, cfg *config.Config) interfaces.WalletService {
	return &walletService{
		uowFactory: uowFactory,
		clock:      clock,
		cfg:        cfg,
	}
}

// ApplyDelta applies a signed point delta to a user's wallet in its own
// unit of work
func (s *walletService) ApplyDelta(ctx context.Context, userID int64, delta int64, changeType entities.ChangeType, description string, correlationCode *string) (*entities.WalletEntry, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user id must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	entry, err := ApplyBalanceChange(ctx, uow, s.cfg.BalanceCeiling, userID, delta, changeType, description, correlationCode)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entry, nil
}

// AdminAdjust applies a signed delta as an administrative adjustment,
// deduplicated by the idempotency key
func (s *walletService) AdminAdjust(ctx context.Context, userID int64, delta int64, reason string, idempotencyKey string) (*entities.WalletEntry, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user id must be positive")
	}
	if idempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var stored entities.WalletEntry
	hit, err := lookupStoredResult(ctx, uow.IdempotencyRepository(), OperationAdminAdjust, idempotencyKey, &stored)
	if err != nil {
		return nil, err
	}
	if hit {
		return &stored, nil
	}

	entry, err := ApplyBalanceChange(ctx, uow, s.cfg.BalanceCeiling, userID, delta, entities.ChangeTypeAdminAdjust, reason, nil)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := recordResult(ctx, uow.IdempotencyRepository(), OperationAdminAdjust, idempotencyKey, userID, now, s.cfg.IdempotencyTTL, entry); err != nil {
		if errors.Is(err, entities.ErrIdempotencyConflict) {
			return s.replayAdjust(ctx, idempotencyKey)
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userId": userID,
		"delta":  delta,
		"reason": reason,
	}).Info("Applied admin adjustment")

	return entry, nil
}

// replayAdjust discards in-progress work and returns the result recorded by
// the request that won the insert race
func (s *walletService) replayAdjust(ctx context.Context, idempotencyKey string) (*entities.WalletEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var stored entities.WalletEntry
	hit, err := lookupStoredResult(ctx, uow.IdempotencyRepository(), OperationAdminAdjust, idempotencyKey, &stored)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, fmt.Errorf("idempotency record vanished for key %q", idempotencyKey)
	}
	return &stored, nil
}

// Transfer moves points between two wallets atomically. Both ledger entries
// and the idempotency record commit in one unit of work.
func (s *walletService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64, idempotencyKey string) (*entities.TransferReceipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("cannot transfer to yourself")
	}
	if idempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var stored entities.TransferReceipt
	hit, err := lookupStoredResult(ctx, uow.IdempotencyRepository(), OperationTransfer, idempotencyKey, &stored)
	if err != nil {
		return nil, err
	}
	if hit {
		return &stored, nil
	}

	code := transferCorrelationCode(idempotencyKey)

	// Lock accounts in a stable order so two opposing transfers cannot
	// deadlock on each other's rows
	firstID, secondID := fromUserID, toUserID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	if _, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, firstID); err != nil {
		return nil, fmt.Errorf("failed to lock wallet for user %d: %w", firstID, err)
	}
	if _, err := uow.WalletRepository().GetOrCreateForUpdate(ctx, secondID); err != nil {
		return nil, fmt.Errorf("failed to lock wallet for user %d: %w", secondID, err)
	}

	fromEntry, err := ApplyBalanceChange(ctx, uow, s.cfg.BalanceCeiling, fromUserID, -amount,
		entities.ChangeTypeTransferOut, fmt.Sprintf("transfer to user %d", toUserID), &code)
	if err != nil {
		return nil, err
	}
	toEntry, err := ApplyBalanceChange(ctx, uow, s.cfg.BalanceCeiling, toUserID, amount,
		entities.ChangeTypeTransferIn, fmt.Sprintf("transfer from user %d", fromUserID), &code)
	if err != nil {
		return nil, err
	}

	receipt := &entities.TransferReceipt{
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		Amount:      amount,
		FromBalance: fromEntry.BalanceAfter,
		ToBalance:   toEntry.BalanceAfter,
	}

	now := s.clock.Now()
	if err := recordResult(ctx, uow.IdempotencyRepository(), OperationTransfer, idempotencyKey, fromUserID, now, s.cfg.IdempotencyTTL, receipt); err != nil {
		if errors.Is(err, entities.ErrIdempotencyConflict) {
			return s.replayTransfer(ctx, idempotencyKey)
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return receipt, nil
}

func (s *walletService) replayTransfer(ctx context.Context, idempotencyKey string) (*entities.TransferReceipt, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var stored entities.TransferReceipt
	hit, err := lookupStoredResult(ctx, uow.IdempotencyRepository(), OperationTransfer, idempotencyKey, &stored)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, fmt.Errorf("idempotency record vanished for key %q", idempotencyKey)
	}
	return &stored, nil
}

// GetBalance returns the current balance, zero if no account exists yet
func (s *walletService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get wallet: %w", err)
	}
	if account == nil {
		return 0, nil
	}
	return account.Balance, nil
}

// GetHistory returns the most recent ledger entries for a user
func (s *walletService) GetHistory(ctx context.Context, userID int64, limit int) ([]*entities.WalletEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.WalletEntryRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet history: %w", err)
	}
	return entries, nil
}

// AuditBalance replays the ledger and compares the sum of entries to the
// stored account balance
func (s *walletService) AuditBalance(ctx context.Context, userID int64) (*entities.LedgerAudit, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	sum, err := uow.WalletEntryRepository().SumByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	var balance int64
	if account != nil {
		balance = account.Balance
	}

	return &entities.LedgerAudit{
		UserID:     userID,
		Balance:    balance,
		LedgerSum:  sum,
		Consistent: balance == sum,
	}, nil
}

// transferCorrelationCode derives the correlation code linking both legs of
// a transfer in the ledger
func transferCorrelationCode(idempotencyKey string) string {
	return "xfer:" + idempotencyKey
}
