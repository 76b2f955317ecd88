package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReferenceScenario(t *testing.T) {
	// population 10,000 with 500 disciple makers.
	s := Compute(10000, 500)

	assert.Equal(t, 1000, s.Goal)
	assert.InDelta(t, 0.5, s.Progress, 1e-9)
	assert.Equal(t, 8000, s.PeopleFarFromGod)
	assert.InDelta(t, 80.0, s.PercentFarFromGod, 1e-9)
}

func TestComputeZeroPopulation(t *testing.T) {
	s := Compute(0, 0)

	assert.Zero(t, s.Goal)
	assert.Zero(t, s.Progress)
	assert.Zero(t, s.PeopleFarFromGod)
	assert.Zero(t, s.PercentFarFromGod)
}

func TestComputeProgressClampedAtOne(t *testing.T) {
	s := Compute(1000, 500)

	assert.Equal(t, 100, s.Goal)
	assert.Equal(t, 1.0, s.Progress)
}

func TestComputeFarFromGodNeverNegative(t *testing.T) {
	// More disciple makers than the lost-population estimate.
	s := Compute(100, 90)

	assert.Zero(t, s.PeopleFarFromGod)
	assert.Zero(t, s.PercentFarFromGod)
}

func TestFillRatioFallsBackToUnitPopulation(t *testing.T) {
	// Regions with no population data still color: goal divisor becomes 0.1.
	assert.Equal(t, 1.0, FillRatio(0, 1))
	assert.Equal(t, 0.0, FillRatio(0, 0))
	assert.InDelta(t, 0.5, FillRatio(10000, 500), 1e-9)
}
