package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.6249, 0.625},
		{0.12345, 0.123},
		{-0.4567, -0.457},
		{0.0005, 0.001},
		{-0.0005, -0.001},
		{1, 1},
		{0, 0},
		{0.0625, 0.062},
		{0.0635, 0.064},
		{0.1235, 0.123},
		{-0.1235, -0.123},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in), "Round(%v)", tt.in)
	}
}

func TestRound_NoNegativeZero(t *testing.T) {
	r := Round(-0.0001)
	assert.Equal(t, 0.0, r)
	assert.False(t, math.Signbit(r))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.7))
	assert.Equal(t, -1.0, Clamp(-3))
	assert.Equal(t, 0.25, Clamp(0.25))
}

func TestNormalize(t *testing.T) {
	v, err := Normalize(0.98765)
	require.NoError(t, err)
	assert.Equal(t, 0.988, v)

	v, err = Normalize(2.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestNormalize_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Normalize(v)
		assert.ErrorIs(t, err, ErrInvalidScore)
	}
}
