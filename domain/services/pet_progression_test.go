package services

import (
	"testing"

	"tally/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPetProgression_GrantBelowThreshold(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 1, Experience: 0}

	result, err := engine.ApplyExperience(pet, 50)

	require.NoError(t, err)
	assert.Equal(t, 1, result.NewLevel)
	assert.Equal(t, int64(50), result.NewExp)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, int64(50), pet.Experience)
}

func TestPetProgression_ExactThresholdLevelsUp(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 1, Experience: 0}

	result, err := engine.ApplyExperience(pet, 100)

	require.NoError(t, err)
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, int64(0), result.NewExp)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 1, result.LevelsGained)
}

func TestPetProgression_RolloverCarriesSurplus(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 1, Experience: 80}

	result, err := engine.ApplyExperience(pet, 70)

	require.NoError(t, err)
	// 150 total: level 1 needs 100, leaving 50 toward level 2's 200
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, int64(50), result.NewExp)
	assert.True(t, result.LeveledUp)
}

func TestPetProgression_LargeGrantSpansMultipleLevels(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 1, Experience: 0}

	result, err := engine.ApplyExperience(pet, 350)

	require.NoError(t, err)
	// 350 covers level 1 (100) and level 2 (200), leaving 50 at level 3
	assert.Equal(t, 3, result.NewLevel)
	assert.Equal(t, int64(50), result.NewExp)
	assert.Equal(t, 2, result.LevelsGained)
}

func TestPetProgression_ThresholdScalesWithLevel(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 5, Experience: 499}

	result, err := engine.ApplyExperience(pet, 1)

	require.NoError(t, err)
	assert.Equal(t, 6, result.NewLevel)
	assert.Equal(t, int64(0), result.NewExp)
}

func TestPetProgression_ZeroGrantIsNoop(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 2, Experience: 30}

	result, err := engine.ApplyExperience(pet, 0)

	require.NoError(t, err)
	assert.Equal(t, 2, result.NewLevel)
	assert.Equal(t, int64(30), result.NewExp)
	assert.False(t, result.LeveledUp)
}

func TestPetProgression_NegativeGrantRejected(t *testing.T) {
	engine := NewPetProgressionEngine(100)
	pet := &entities.PetProgress{UserID: TestUserID, Level: 2, Experience: 30}

	_, err := engine.ApplyExperience(pet, -10)

	assert.ErrorIs(t, err, entities.ErrInvalidDelta)
}
