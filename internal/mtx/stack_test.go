package mtx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMul(t *testing.T) {
	id := Identity()
	tr := Translate(1, 2, 3)
	assert.Equal(t, tr, tr.Mul(id))
	assert.Equal(t, tr, id.Mul(tr))
}

func TestStackLoadStoreRoundTrip(t *testing.T) {
	s := NewStack()
	require.Equal(t, 1, s.Depth())

	s.Load()
	s.ApplyTop(Translate(10, 0, 0))
	require.Equal(t, 2, s.Depth())
	assert.Equal(t, float32(10), s.Top()[3])

	require.NoError(t, s.Store())
	require.Equal(t, 1, s.Depth())
	assert.Equal(t, Identity(), s.Top())
}

func TestStackUnderflow(t *testing.T) {
	s := NewStack()
	err := s.Store()
	assert.ErrorIs(t, err, Underflow)
}

func TestApplyTopCompounds(t *testing.T) {
	s := NewStack()
	s.ApplyTop(Scale(2, 2, 2))
	s.ApplyTop(Translate(1, 0, 0))
	// translate(1,0,0) * scale(2,2,2): point (1,1,1) -> scale -> (2,2,2) -> translate -> (3,2,2)
	top := s.Top()
	x := top[0]*1 + top[1]*1 + top[2]*1 + top[3]
	assert.Equal(t, float32(3), x)
}
