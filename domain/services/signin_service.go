package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tally/config"
	"tally/domain/entities"
	"tally/domain/interfaces"
	"tally/events"
)

// couponMintAttempts bounds the collision-checked coupon code generation
const couponMintAttempts = 3

// signInService orchestrates the daily sign-in reward transaction: it checks
// the idempotency key, loads streak, wallet and pet state under row locks,
// asks the reward policy for the amounts, persists every mutation in one
// unit of work, and records the terminal result under the key.
type signInService struct {
	uowFactory interfaces.UnitOfWorkFactory
	policy     *RewardPolicy
	pets       *PetProgressionEngine
	clock      interfaces.Clock
	rand       interfaces.Rand
	cfg        *config.Config
}

// NewSignInService creates a new sign-in service. Clock and random source
// are injected so date and bonus logic are deterministic under test.
func NewSignInService(
	uowFactory interfaces.UnitOfWorkFactory,
	policy *RewardPolicy,
	pets *PetProgressionEngine,
	clock interfaces.Clock,
	rand interfaces.Rand,
	cfg *config.Config,
) interfaces.SignInService {
	return &signInService{
		uowFactory: uowFactory,
		policy:     policy,
		pets:       pets,
		clock:      clock,
		rand:       rand,
		cfg:        cfg,
	}
}

// ProcessRewardTrigger runs the sign-in transaction at the clock's current
// time
func (s *signInService) ProcessRewardTrigger(ctx context.Context, userID int64, idempotencyKey string) (*entities.RewardResult, error) {
	return s.ProcessRewardTriggerAt(ctx, userID, idempotencyKey, s.clock.Now())
}

// ProcessRewardTriggerAt runs the sign-in transaction at an explicit trigger
// time. Only a terminal outcome (success or a stable business rejection) is
// recorded under the idempotency key; transient failures roll everything
// back and leave the key unconsumed so the caller may retry.
func (s *signInService) ProcessRewardTriggerAt(ctx context.Context, userID int64, idempotencyKey string, triggerTime time.Time) (*entities.RewardResult, error) {
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
	defer uow.Rollback() // No-op if already committed

	// Idempotent replay path: a stored result is returned as-is, nothing
	// is recomputed or re-rolled
	var stored entities.RewardResult
	hit, err := lookupStoredResult(ctx, uow.IdempotencyRepository(), OperationDailySignIn, idempotencyKey, &stored)
	if err != nil {
		return nil, err
	}
	if hit {
		return &stored, nil
	}

	// Row lock on the streak record serializes concurrent sign-ins for the
	// same user; cross-user requests never block each other
	streak, err := uow.StreakRepository().GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak for user %d: %w", userID, err)
	}

	if streak.SignedInOn(triggerTime) {
		return s.rejectSignIn(ctx, uow, userID, idempotencyKey, streak, triggerTime, "already signed in today")
	}

	// A trigger whose calendar date is earlier than the recorded sign-in is
	// a terminal rejection too: accepting it would move the streak backwards
	// and reopen the current date for a second payout
	if !streak.LastSignInDate.IsZero() && streak.DayGap(triggerTime) < 0 {
		return s.rejectSignIn(ctx, uow, userID, idempotencyKey, streak, triggerTime, "trigger predates last sign-in")
	}

	computation, err := s.policy.Compute(streak, triggerTime)
	if err != nil {
		return nil, err
	}

	entry, err := ApplyBalanceChange(ctx, uow, s.cfg.BalanceCeiling, userID, computation.PointsAwarded,
		entities.ChangeTypeEarn, "daily sign-in reward", nil)
	if err != nil {
		return nil, err
	}

	if err := s.applyPetExperience(ctx, uow, userID, computation.ExpAwarded); err != nil {
		return nil, err
	}

	couponCode, err := s.resolveBonus(ctx, uow, userID, computation, triggerTime)
	if err != nil {
		return nil, err
	}

	streak.LastSignInDate = entities.DateOf(triggerTime)
	streak.ConsecutiveDays = computation.ConsecutiveDays
	streak.LifetimeCount++
	if err := uow.StreakRepository().Update(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to update streak for user %d: %w", userID, err)
	}

	result := &entities.RewardResult{
		Success:         true,
		Message:         "sign-in reward granted",
		ConsecutiveDays: computation.ConsecutiveDays,
		PointsAwarded:   computation.PointsAwarded,
		ExpAwarded:      computation.ExpAwarded,
		CouponCode:      couponCode,
		TotalBalance:    entry.BalanceAfter,
		IdempotencyKey:  idempotencyKey,
	}

	if err := recordResult(ctx, uow.IdempotencyRepository(), OperationDailySignIn, idempotencyKey, userID, triggerTime, s.cfg.IdempotencyTTL, result); err != nil {
		if errors.Is(err, entities.ErrIdempotencyConflict) {
			// Lost the insert race: discard this attempt and return the
			// winner's stored result
			return s.replaySignIn(ctx, idempotencyKey)
		}
		return nil, err
	}

	uow.EventBus().Publish(events.SignInCompletedEvent{
		UserID:          userID,
		ConsecutiveDays: computation.ConsecutiveDays,
		PointsAwarded:   computation.PointsAwarded,
		ExpAwarded:      computation.ExpAwarded,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userId":          userID,
		"consecutiveDays": computation.ConsecutiveDays,
		"pointsAwarded":   computation.PointsAwarded,
		"expAwarded":      computation.ExpAwarded,
		"couponIssued":    couponCode != nil,
	}).Info("Processed sign-in reward")

	return result, nil
}

// rejectSignIn records a stable business rejection under the key so retries
// replay the identical outcome instead of re-running date logic
func (s *signInService) rejectSignIn(ctx context.Context, uow interfaces.UnitOfWork, userID int64, idempotencyKey string, streak *entities.SignInStreak, triggerTime time.Time, message string) (*entities.RewardResult, error) {
	balance := int64(0)
	account, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if account != nil {
		balance = account.Balance
	}

	result := &entities.RewardResult{
		Success:         false,
		Message:         message,
		ConsecutiveDays: streak.ConsecutiveDays,
		TotalBalance:    balance,
		IdempotencyKey:  idempotencyKey,
	}

	if err := recordResult(ctx, uow.IdempotencyRepository(), OperationDailySignIn, idempotencyKey, userID, triggerTime, s.cfg.IdempotencyTTL, result); err != nil {
		if errors.Is(err, entities.ErrIdempotencyConflict) {
			return s.replaySignIn(ctx, idempotencyKey)
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// applyPetExperience grants experience to the user's pet inside the current
// transaction and publishes a level-up event when levels were gained
func (s *signInService) applyPetExperience(ctx context.Context, uow interfaces.UnitOfWork, userID int64, expDelta int64) error {
	pet, err := uow.PetRepository().GetOrCreateForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load pet for user %d: %w", userID, err)
	}

	oldLevel := pet.Level
	progression, err := s.pets.ApplyExperience(pet, expDelta)
	if err != nil {
		return err
	}

	if err := uow.PetRepository().Update(ctx, pet); err != nil {
		return fmt.Errorf("failed to update pet for user %d: %w", userID, err)
	}

	if progression.LeveledUp {
		uow.EventBus().Publish(events.PetLevelUpEvent{
			UserID:       userID,
			OldLevel:     oldLevel,
			NewLevel:     progression.NewLevel,
			LevelsGained: progression.LevelsGained,
		})
	}

	return nil
}

// resolveBonus draws the probabilistic coupon trial exactly once per
// transaction and mints a collision-checked coupon on success
func (s *signInService) resolveBonus(ctx context.Context, uow interfaces.UnitOfWork, userID int64, computation *RewardComputation, triggerTime time.Time) (*string, error) {
	if !computation.BonusEligible {
		return nil, nil
	}
	if s.rand.Float64() >= s.cfg.BonusProbability {
		return nil, nil
	}

	code, err := s.mintCoupon(ctx, uow, userID, triggerTime)
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.CouponIssuedEvent{UserID: userID, Code: code})
	return &code, nil
}

// mintCoupon generates a unique coupon code, retrying a bounded number of
// times on collision before failing the transaction
func (s *signInService) mintCoupon(ctx context.Context, uow interfaces.UnitOfWork, userID int64, triggerTime time.Time) (string, error) {
	for attempt := 0; attempt < couponMintAttempts; attempt++ {
		code := uuid.NewString()

		exists, err := uow.CouponRepository().CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check coupon code: %w", err)
		}
		if exists {
			continue
		}

		coupon := &entities.IssuedCoupon{
			Code:     code,
			UserID:   userID,
			IssuedAt: triggerTime,
		}
		if err := uow.CouponRepository().Create(ctx, coupon); err != nil {
			return "", fmt.Errorf("failed to create coupon: %w", err)
		}
		return code, nil
	}

	return "", fmt.Errorf("failed to mint a unique coupon code after %d attempts", couponMintAttempts)
}

// replaySignIn discards in-progress work and returns the result recorded by
// the request that won the insert race
func (s *signInService) replaySignIn(ctx context.Context, idempotencyKey string) (*entities.RewardResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	var stored entities.RewardResult
	hit, err := lookupStoredResult(ctx, uow.IdempotencyRepository(), OperationDailySignIn, idempotencyKey, &stored)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, fmt.Errorf("idempotency record vanished for key %q", idempotencyKey)
	}
	return &stored, nil
}
