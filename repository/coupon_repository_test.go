package repository

import (
	"context"
	"testing"

	"tally/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCouponRepository(testDB.DB)
	ctx := context.Background()

	t.Run("stores coupon", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestCoupon("coupon-a", 100)))

		exists, err := repo.CodeExists(ctx, "coupon-a")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestCoupon("coupon-b", 100)))

		err := repo.Create(ctx, testutil.CreateTestCoupon("coupon-b", 200))
		assert.Error(t, err)
	})
}

func TestCouponRepository_CodeExists(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCouponRepository(testDB.DB)
	ctx := context.Background()

	exists, err := repo.CodeExists(ctx, "never-issued")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCouponRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewCouponRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestCoupon("coupon-1", 100)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestCoupon("coupon-2", 100)))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestCoupon("coupon-3", 200)))

	coupons, err := repo.GetByUser(ctx, 100, 10)
	require.NoError(t, err)
	assert.Len(t, coupons, 2)

	coupons, err = repo.GetByUser(ctx, 300, 10)
	require.NoError(t, err)
	assert.Empty(t, coupons)
}
