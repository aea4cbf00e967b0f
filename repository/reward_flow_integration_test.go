package repository

import (
	"context"
	"testing"
	"time"

	"tally/config"
	"tally/domain/entities"
	"tally/domain/interfaces"
	"tally/domain/services"
	"tally/events"
	"tally/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pinnedClock and pinnedRand make the full-stack flow deterministic
type pinnedClock struct{ now time.Time }

func (c pinnedClock) Now() time.Time { return c.now }

type pinnedRand struct{ value float64 }

func (r pinnedRand) Float64() float64 { return r.value }

func flowConfig() *config.Config {
	return &config.Config{
		BalanceCeiling:      100_000_000,
		BasePoints:          10,
		PerDayBonus:         2,
		StreakCapDays:       20,
		BaseExp:             5,
		PerDayExpBonus:      1,
		ExpStreakCapDays:    10,
		BonusStreakDays:     7,
		BonusProbability:    0.20,
		PetExpThresholdUnit: 100,
		IdempotencyTTL:      24 * time.Hour,
		SweepInterval:       time.Hour,
		Environment:         "test",
	}
}

func newFlowSignInService(factory interfaces.UnitOfWorkFactory, cfg *config.Config, now time.Time) interfaces.SignInService {
	return services.NewSignInService(
		factory,
		services.NewRewardPolicy(cfg),
		services.NewPetProgressionEngine(cfg.PetExpThresholdUnit),
		pinnedClock{now: now},
		pinnedRand{value: 0.99},
		cfg,
	)
}

func TestSignInFlow_EndToEnd(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	cfg := flowConfig()
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	day1 := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	signIn := newFlowSignInService(factory, cfg, day1)
	wallets := services.NewWalletService(factory, pinnedClock{now: day1}, cfg)

	const userID = int64(100)

	// Day 1: first sign-in earns the base reward
	first, err := signIn.ProcessRewardTriggerAt(ctx, userID, "key-day1", day1)
	require.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, 1, first.ConsecutiveDays)
	assert.Equal(t, int64(10), first.PointsAwarded)
	assert.Equal(t, int64(5), first.ExpAwarded)
	assert.Equal(t, int64(10), first.TotalBalance)

	// Replaying the same key returns the identical result without a second
	// payout
	replayed, err := signIn.ProcessRewardTriggerAt(ctx, userID, "key-day1", day1)
	require.NoError(t, err)
	assert.Equal(t, first, replayed)

	balance, err := wallets.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)

	// A second sign-in the same day is rejected, and the rejection is itself
	// replayable
	rejected, err := signIn.ProcessRewardTriggerAt(ctx, userID, "key-day1-again", day1)
	require.NoError(t, err)
	assert.False(t, rejected.Success)
	assert.Equal(t, "already signed in today", rejected.Message)
	assert.Equal(t, int64(10), rejected.TotalBalance)

	rejectedAgain, err := signIn.ProcessRewardTriggerAt(ctx, userID, "key-day1-again", day1)
	require.NoError(t, err)
	assert.Equal(t, rejected, rejectedAgain)

	// Day 2 extends the streak
	second, err := signIn.ProcessRewardTriggerAt(ctx, userID, "key-day2", day2)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, 2, second.ConsecutiveDays)
	assert.Equal(t, int64(12), second.PointsAwarded)
	assert.Equal(t, int64(22), second.TotalBalance)

	// A back-dated trigger after day 2 is rejected; the streak stays put and
	// no reward is paid
	backDated, err := signIn.ProcessRewardTriggerAt(ctx, userID, "key-backdated", day1)
	require.NoError(t, err)
	assert.False(t, backDated.Success)
	assert.Equal(t, "trigger predates last sign-in", backDated.Message)
	assert.Equal(t, int64(22), backDated.TotalBalance)

	// The ledger replays to the stored balance
	audit, err := wallets.AuditBalance(ctx, userID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.Equal(t, int64(22), audit.Balance)

	// Exactly two ledger entries: one per successful sign-in
	history, err := wallets.GetHistory(ctx, userID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	// Streak and pet state advanced exactly once per day
	streak, err := NewStreakRepository(testDB.DB).GetOrCreateForUpdate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, streak.ConsecutiveDays)
	assert.Equal(t, int64(2), streak.LifetimeCount)

	pet, err := NewPetRepository(testDB.DB).GetOrCreateForUpdate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, int64(11), pet.Experience)
}

func TestWalletFlow_TransferAndAdjust(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	cfg := flowConfig()
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	wallets := services.NewWalletService(factory, pinnedClock{now: now}, cfg)

	// Seed the sender via an idempotent admin adjustment
	entry, err := wallets.AdminAdjust(ctx, 100, 500, "initial grant", "adjust-1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), entry.BalanceAfter)

	// Replaying the adjustment does not double-credit
	replayed, err := wallets.AdminAdjust(ctx, 100, 500, "initial grant", "adjust-1")
	require.NoError(t, err)
	assert.Equal(t, entry.BalanceAfter, replayed.BalanceAfter)

	balance, err := wallets.GetBalance(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	// Transfer moves points atomically and is idempotent under its key
	receipt, err := wallets.Transfer(ctx, 100, 200, 150, "transfer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(350), receipt.FromBalance)
	assert.Equal(t, int64(150), receipt.ToBalance)

	again, err := wallets.Transfer(ctx, 100, 200, 150, "transfer-1")
	require.NoError(t, err)
	assert.Equal(t, receipt, again)

	fromBalance, err := wallets.GetBalance(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(350), fromBalance)

	toBalance, err := wallets.GetBalance(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(150), toBalance)

	// Overdraft attempts fail atomically: neither leg applies
	_, err = wallets.Transfer(ctx, 200, 100, 9999, "transfer-2")
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)

	audit, err := wallets.AuditBalance(ctx, 200)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.Equal(t, int64(150), audit.Balance)

	// Both transfer legs share a correlation code in the ledger
	entries, err := NewWalletEntryRepository(testDB.DB).GetByUser(ctx, 200, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].CorrelationCode)
	assert.Equal(t, "xfer:transfer-1", *entries[0].CorrelationCode)
}
