package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indy/sen/internal/value"
)

func TestAppendAndElements(t *testing.T) {
	p := NewPool(16, 4)
	head, err := p.Append(0, value.NewInt(1))
	require.NoError(t, err)
	head, err = p.Append(head, value.NewInt(2))
	require.NoError(t, err)
	head, err = p.Append(head, value.NewInt(3))
	require.NoError(t, err)

	got := p.Elements(head)
	require.Len(t, got, 3)
	assert.Equal(t, int32(1), got[0].I)
	assert.Equal(t, int32(2), got[1].I)
	assert.Equal(t, int32(3), got[2].I)
}

func TestFreeChainReturnsCapacity(t *testing.T) {
	p := NewPool(4, 1)
	head, err := p.Append(0, value.NewInt(1))
	require.NoError(t, err)
	head, err = p.Append(head, value.NewInt(2))
	require.NoError(t, err)
	assert.Equal(t, 2, p.AvailSize())

	p.FreeChain(head)
	assert.Equal(t, 4, p.AvailSize())
}

func TestExhausted(t *testing.T) {
	p := NewPool(1, 1)
	_, err := p.Alloc()
	require.NoError(t, err)
	_, err = p.Alloc()
	assert.ErrorIs(t, err, Exhausted)
}

func TestResetRestoresFreeListLength(t *testing.T) {
	p := NewPool(8, 2)
	_, _ = p.Append(0, value.NewInt(1))
	_, _ = p.Append(0, value.NewInt(2))
	require.Less(t, p.AvailSize(), p.Size())

	p.Reset()
	assert.Equal(t, p.Size(), p.AvailSize())
}

func TestSweepKeepsReachableFreesRest(t *testing.T) {
	p := NewPool(8, 100)
	kept, err := p.Append(0, value.NewInt(1))
	require.NoError(t, err)
	_, err = p.Append(0, value.NewInt(2)) // unreachable root
	require.NoError(t, err)

	before := p.AvailSize()
	p.Sweep([]int{kept})
	after := p.AvailSize()
	assert.Greater(t, after, before)

	// The kept chain must still be intact.
	assert.Equal(t, []value.Var{value.NewInt(1)}, p.Elements(kept))
}

func TestNestedVectorMarking(t *testing.T) {
	p := NewPool(8, 100)
	inner, err := p.Append(0, value.NewInt(42))
	require.NoError(t, err)
	outer, err := p.Append(0, value.VectorOf(inner))
	require.NoError(t, err)

	p.Sweep([]int{outer})
	assert.Equal(t, []value.Var{value.NewInt(42)}, p.Elements(inner))
}
