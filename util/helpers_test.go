package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		lo, hi   float64
		expected float64
	}{
		{name: "Below range", v: -5, lo: 0, hi: 100, expected: 0},
		{name: "Above range", v: 150, lo: 0, hi: 100, expected: 100},
		{name: "Within range", v: 42, lo: 0, hi: 100, expected: 42},
		{name: "At lower bound", v: 0, lo: 0, hi: 100, expected: 0},
		{name: "At upper bound", v: 100, lo: 0, hi: 100, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Clamp(tt.v, tt.lo, tt.hi))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.55, Round2(0.55000001))
	assert.Equal(t, 0.83, Round2(0.825)) // round half away from zero
	assert.Equal(t, 1.0, Round2(0.999))
	assert.Equal(t, 0.0, Round2(0.001))
}
