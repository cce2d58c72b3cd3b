package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"positive number", 5, 5},
		{"negative number", -5, 5},
		{"zero", 0, 0},
		{"min int special case", math.MinInt32 + 1, math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Abs(tt.input))
		})
	}
}

func TestEuclidean(t *testing.T) {
	assert.Equal(t, 0.0, Euclidean(4, 4, 4, 4))
	assert.Equal(t, 5.0, Euclidean(0, 0, 3, 4))
	assert.InDelta(t, math.Sqrt(2), Euclidean(1, 1, 2, 2), 1e-9)
}
