package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKg(t *testing.T) {
	assert.Equal(t, "1250.505", Kg(1250.5049).String())
	assert.Equal(t, "0", Kg(0).String())
}

func TestKgFromString(t *testing.T) {
	d, err := KgFromString("1250.5049")
	require.NoError(t, err)
	assert.Equal(t, "1250.505", d.String())

	_, err = KgFromString("12,5")
	assert.Error(t, err)
}

func TestRoundKg(t *testing.T) {
	assert.Equal(t, 1250.505, RoundKg(1250.5049))
}

func TestWeightsEqual(t *testing.T) {
	assert.True(t, WeightsEqual(4000, 4000.4, CutTolerance))
	assert.True(t, WeightsEqual(4000.4, 4000, CutTolerance))
	assert.False(t, WeightsEqual(4000, 4000.6, CutTolerance))
	assert.True(t, WeightsEqual(1000, 1000, BalanceTolerance))
}

func TestConservationHolds(t *testing.T) {
	// Exact: 4000 consumed, two 1950 kg slits plus 100 kg scrap.
	assert.True(t, ConservationHolds(4000, []float64{1950, 1950}, 100))

	// Scale drift inside the half-kilogram tolerance.
	assert.True(t, ConservationHolds(4000, []float64{1950.2, 1950}, 100.2))

	// Beyond tolerance.
	assert.False(t, ConservationHolds(4000, []float64{1950, 1950}, 101))

	// Repeated small additions must not accumulate float drift.
	produced := make([]float64, 1000)
	for i := range produced {
		produced[i] = 0.1
	}
	assert.True(t, ConservationHolds(100, produced, 0))
}
