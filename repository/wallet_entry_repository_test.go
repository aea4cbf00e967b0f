package repository

import (
	"context"
	"testing"
	"time"

	"tally/domain/entities"
	"tally/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletEntryRepository_Record(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletEntryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("assigns id and created_at", func(t *testing.T) {
		entry := testutil.CreateTestEntry(100, 0, 10, entities.ChangeTypeEarn)

		err := repo.Record(ctx, entry)
		require.NoError(t, err)
		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("stores correlation code", func(t *testing.T) {
		code := "xfer:abc"
		entry := testutil.CreateTestEntry(100, 10, -5, entities.ChangeTypeTransferOut)
		entry.CorrelationCode = &code

		require.NoError(t, repo.Record(ctx, entry))

		entries, err := repo.GetByUser(ctx, 100, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.NotNil(t, entries[0].CorrelationCode)
		assert.Equal(t, code, *entries[0].CorrelationCode)
	})

	t.Run("schema rejects inconsistent arithmetic", func(t *testing.T) {
		entry := testutil.CreateTestEntry(200, 0, 10, entities.ChangeTypeEarn)
		entry.BalanceAfter = 99

		err := repo.Record(ctx, entry)
		assert.Error(t, err)
	})

	t.Run("schema rejects zero change", func(t *testing.T) {
		entry := testutil.CreateTestEntry(200, 50, 0, entities.ChangeTypeEarn)

		err := repo.Record(ctx, entry)
		assert.Error(t, err)
	})
}

func TestWalletEntryRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletEntryRepository(testDB.DB)
	ctx := context.Background()

	// Three entries forming a consistent chain
	require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 0, 10, entities.ChangeTypeEarn)))
	require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 10, 12, entities.ChangeTypeEarn)))
	require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 22, -5, entities.ChangeTypeSpend)))

	// A different user's entry must not leak in
	require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(200, 0, 7, entities.ChangeTypeEarn)))

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 100, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, int64(-5), entries[0].ChangeAmount)
		assert.Equal(t, int64(12), entries[1].ChangeAmount)
		assert.Equal(t, int64(10), entries[2].ChangeAmount)
	})

	t.Run("limit respected", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 100, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("no entries", func(t *testing.T) {
		entries, err := repo.GetByUser(ctx, 999, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestWalletEntryRepository_SumByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletEntryRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumByUser(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("sum equals final balance", func(t *testing.T) {
		require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 0, 10, entities.ChangeTypeEarn)))
		require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 10, 12, entities.ChangeTypeEarn)))
		require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 22, -5, entities.ChangeTypeSpend)))

		sum, err := repo.SumByUser(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(17), sum)
	})
}

func TestWalletEntryRepository_GetByDateRange(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletEntryRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, testutil.CreateTestEntry(100, 0, 10, entities.ChangeTypeEarn)))

	now := time.Now().UTC()

	t.Run("window containing the entry", func(t *testing.T) {
		entries, err := repo.GetByDateRange(ctx, 100, now.Add(-time.Hour), now.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("window before the entry", func(t *testing.T) {
		entries, err := repo.GetByDateRange(ctx, 100, now.Add(-2*time.Hour), now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
