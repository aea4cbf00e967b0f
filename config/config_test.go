package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(10), cfg.BasePoints)
	assert.Equal(t, int64(2), cfg.PerDayBonus)
	assert.Equal(t, 20, cfg.StreakCapDays)
	assert.Equal(t, int64(5), cfg.BaseExp)
	assert.Equal(t, 7, cfg.BonusStreakDays)
	assert.Equal(t, 0.20, cfg.BonusProbability)
	assert.Equal(t, int64(100), cfg.PetExpThresholdUnit)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("BASE_POINTS", "25")
	t.Setenv("PET_EXP_THRESHOLD_UNIT", "250")
	t.Setenv("IDEMPOTENCY_TTL_HOURS", "48")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, int64(25), cfg.BasePoints)
	assert.Equal(t, int64(250), cfg.PetExpThresholdUnit)
	assert.Equal(t, 48*time.Hour, cfg.IdempotencyTTL)
}

func TestLoad_RequiresDatabaseURLOutsideTest(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DATABASE_URL", "")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidBonusProbability(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("BONUS_PROBABILITY", "1.5")

	_, err := load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveThresholdUnit(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")

	t.Setenv("PET_EXP_THRESHOLD_UNIT", "0")
	_, err := load()
	assert.Error(t, err)

	t.Setenv("PET_EXP_THRESHOLD_UNIT", "-100")
	_, err = load()
	assert.Error(t, err)
}
