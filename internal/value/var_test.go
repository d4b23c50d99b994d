package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, NewInt(0).Truthy())
	assert.True(t, NewInt(1).Truthy())
	assert.False(t, NewFloat(0).Truthy())
	assert.False(t, NewBool(false).Truthy())
	assert.True(t, NewBool(true).Truthy())
	assert.True(t, EmptyVector().Truthy())
}

func TestPair2D(t *testing.T) {
	p := NewPair2D(1.5, -2.5)
	assert.Equal(t, float32(1.5), p.X())
	assert.Equal(t, float32(-2.5), p.Y())
}

func TestSameType(t *testing.T) {
	assert.True(t, SameType(NewInt(1), NewInt(2)))
	assert.False(t, SameType(NewInt(1), NewFloat(2)))
}

func TestAsFloat32(t *testing.T) {
	assert.Equal(t, float32(3), NewInt(3).AsFloat32())
	assert.Equal(t, float32(3.5), NewFloat(3.5).AsFloat32())
}
