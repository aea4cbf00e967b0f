package services

import "tally/domain/entities"

// PetProgressionEngine applies experience grants to a pet and resolves
// level-up roll-over. The threshold to advance from level N is
// N * thresholdUnit experience, so large grants can span several levels in
// a single application.
type PetProgressionEngine struct {
	thresholdUnit int64
}

// NewPetProgressionEngine creates a progression engine with the configured
// per-level threshold unit
func NewPetProgressionEngine(thresholdUnit int64) *PetProgressionEngine {
	return &PetProgressionEngine{thresholdUnit: thresholdUnit}
}

// ProgressionResult describes the outcome of an experience grant
type ProgressionResult struct {
	NewLevel     int
	NewExp       int64
	LeveledUp    bool
	LevelsGained int
}

// ApplyExperience adds expDelta to the pet's experience and resolves any
// level-ups, mutating the pet in place. The sign-in path only grants;
// a negative delta returns entities.ErrInvalidDelta.
func (e *PetProgressionEngine) ApplyExperience(pet *entities.PetProgress, expDelta int64) (*ProgressionResult, error) {
	if expDelta < 0 {
		return nil, entities.ErrInvalidDelta
	}

	oldLevel := pet.Level
	pet.Experience += expDelta

	for pet.Experience >= pet.NextLevelThreshold(e.thresholdUnit) {
		pet.Experience -= pet.NextLevelThreshold(e.thresholdUnit)
		pet.Level++
	}

	return &ProgressionResult{
		NewLevel:     pet.Level,
		NewExp:       pet.Experience,
		LeveledUp:    pet.Level > oldLevel,
		LevelsGained: pet.Level - oldLevel,
	}, nil
}
