package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(median(nil)))

	in := []float64{3, 1, 2}
	median(in)
	assert.Equal(t, []float64{3, 1, 2}, in, "input must not be reordered")
}

func TestMedianAbsDeviation(t *testing.T) {
	// |v-40| = 30 20 60 10 10
	got := medianAbsDeviation([]float64{10, 20, 100, 30, 50}, 40)
	assert.Equal(t, 20.0, got)
	assert.True(t, math.IsNaN(medianAbsDeviation(nil, 1)))
}

func TestGroupMeans(t *testing.T) {
	means := groupMeans(
		[]float64{10, 20, 100, 30, 50},
		[]string{"A", "A", "B", "C", "C"},
	)
	assert.Equal(t, []float64{15, 100, 40}, means)
}
