package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(17, 0, 10))
	assert.Equal(t, 0.0, Clamp(0, 0, 10))
	assert.Equal(t, 10.0, Clamp(10, 0, 10))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 7.7, Round1(7.74))
	assert.Equal(t, 7.8, Round1(7.75))
	assert.Equal(t, 5.0, Round1(5.0))
	assert.Equal(t, -2.3, Round1(-2.34))
}

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "a"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, -1.0, Mean([]float64{-2, 0}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{4, 4, 4}))
	// population stddev of {2, 4, 4, 4, 5, 5, 7, 9} is exactly 2
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 10.0, PercentChange(100, 110))
	assert.Equal(t, -50.0, PercentChange(100, 50))
	assert.Equal(t, 0.0, PercentChange(0, 50))
	assert.Equal(t, 0.0, PercentChange(100, 100))
}
