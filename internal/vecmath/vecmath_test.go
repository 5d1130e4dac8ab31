package vecmath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	v, err := FromSlice([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, v)
	assert.Equal(t, []float64{1, 2, 3}, ToSlice(v))

	_, err = FromSlice([]float64{1, 2})
	assert.ErrorContains(t, err, "expected 3 components, got 2")

	_, err = FromSlice([]float64{1, math.NaN(), 3})
	assert.ErrorContains(t, err, "non-finite")

	_, err = FromSlice(nil)
	assert.Error(t, err)
}

func TestSafeNormalize(t *testing.T) {
	n, ok := SafeNormalize(mgl64.Vec3{0, 3, 4})
	require.True(t, ok)
	assert.InDelta(t, 1.0, n.Len(), 1e-12)
	assert.InDelta(t, 0.6, n.Y(), 1e-12)

	_, ok = SafeNormalize(mgl64.Vec3{})
	assert.False(t, ok)
	_, ok = SafeNormalize(mgl64.Vec3{math.Inf(1), 0, 0})
	assert.False(t, ok)
}

func TestDecompose(t *testing.T) {
	normal, tangential := Decompose(mgl64.Vec3{20, -10, 5}, Up)
	assert.Equal(t, -10.0, normal)
	assert.Equal(t, mgl64.Vec3{20, 0, 5}, tangential)

	// Recombining gives the original vector for any unit normal.
	n, _ := SafeNormalize(mgl64.Vec3{0.1, 0.9, 0})
	v := mgl64.Vec3{3, -2, 1}
	normal, tangential = Decompose(v, n)
	assert.True(t, tangential.Add(n.Mul(normal)).ApproxEqualThreshold(v, 1e-12))
	assert.InDelta(t, 0, tangential.Dot(n), 1e-12)
}

func TestHorizontal(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{3, 0, 4}, Horizontal(mgl64.Vec3{3, 7, 4}))
	assert.Equal(t, 5.0, HorizontalDistance(mgl64.Vec3{1, 9, 1}, mgl64.Vec3{4, 0, 5}))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, Lerp(mgl64.Vec3{}, mgl64.Vec3{2, 2, 2}, 0.5))
}
