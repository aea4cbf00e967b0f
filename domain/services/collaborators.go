package services

import (
	"math/rand"
	"time"

	"tally/domain/interfaces"
)

// systemClock is the production Clock backed by the wall clock in UTC
type systemClock struct{}

// NewSystemClock returns a Clock backed by time.Now in UTC
func NewSystemClock() interfaces.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// mathRand is the production Rand backed by math/rand
type mathRand struct{}

// NewMathRand returns a Rand backed by the shared math/rand source
func NewMathRand() interfaces.Rand {
	return mathRand{}
}

func (mathRand) Float64() float64 {
	return rand.Float64()
}
