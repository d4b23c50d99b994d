package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicForSameSeed(t *testing.T) {
	a := NewState(42)
	b := NewState(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.NextU64(), b.NextU64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := NewState(1)
	b := NewState(2)
	assert.NotEqual(t, a.NextU64(), b.NextU64())
}

func TestF32InUnitRange(t *testing.T) {
	s := NewState(7)
	for i := 0; i < 1000; i++ {
		f := s.F32()
		assert.GreaterOrEqual(t, f, float32(0))
		assert.Less(t, f, float32(1))
	}
}

func TestF32RangeWithinBounds(t *testing.T) {
	s := NewState(7)
	for i := 0; i < 1000; i++ {
		f := s.F32Range(10, 20)
		assert.GreaterOrEqual(t, f, float32(10))
		assert.Less(t, f, float32(20))
	}
}

func TestI32RangeWithinBounds(t *testing.T) {
	s := NewState(7)
	for i := 0; i < 1000; i++ {
		v := s.I32Range(5, 9)
		assert.GreaterOrEqual(t, v, int32(5))
		assert.Less(t, v, int32(9))
	}
}

func TestI32RangeDegenerate(t *testing.T) {
	s := NewState(1)
	assert.Equal(t, int32(3), s.I32Range(3, 3))
}

func TestPerlinDeterministicAndBounded(t *testing.T) {
	a := NewPerlin(NewState(99))
	b := NewPerlin(NewState(99))
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			v1 := a.Noise3(float32(x)*0.3, float32(y)*0.3, 0.1)
			v2 := b.Noise3(float32(x)*0.3, float32(y)*0.3, 0.1)
			assert.Equal(t, v1, v2)
			assert.GreaterOrEqual(t, v1, float32(-1.01))
			assert.LessOrEqual(t, v1, float32(1.01))
		}
	}
}
