package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalletAccount_WouldGoNegative(t *testing.T) {
	t.Parallel()

	account := &WalletAccount{UserID: 100, Balance: 50}

	assert.False(t, account.WouldGoNegative(-50))
	assert.True(t, account.WouldGoNegative(-51))
	assert.False(t, account.WouldGoNegative(10))
}

func TestWalletAccount_WouldExceedCeiling(t *testing.T) {
	t.Parallel()

	account := &WalletAccount{UserID: 100, Balance: 990}

	assert.False(t, account.WouldExceedCeiling(10, 1000))
	assert.True(t, account.WouldExceedCeiling(11, 1000))
	// Debits never trip the ceiling check
	assert.False(t, account.WouldExceedCeiling(-100, 1000))
}

func TestWalletAccount_RandomDeltaSequenceKeepsInvariants(t *testing.T) {
	t.Parallel()

	// Replaying any accepted sequence of deltas must keep the balance within
	// [0, ceiling] and consistent with the running sum.
	const ceiling = int64(1000)

	account := &WalletAccount{UserID: 100, Balance: 0}
	deltas := []int64{120, -50, 999, -30, 500, -1039, 42, -42, 1000, -999}

	var ledgerSum int64
	for _, delta := range deltas {
		if account.WouldGoNegative(delta) || account.WouldExceedCeiling(delta, ceiling) {
			continue
		}
		account.Balance = account.CalculateNewBalance(delta)
		ledgerSum += delta

		assert.GreaterOrEqual(t, account.Balance, int64(0))
		assert.LessOrEqual(t, account.Balance, ceiling)
		assert.Equal(t, ledgerSum, account.Balance)
	}
}
