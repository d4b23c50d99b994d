package trait_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/natives"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/trait"
	"github.com/indy/sen/internal/value"
)

func newEnv(t *testing.T) (*symtab.WordLut, *compiler.Keywords, *trait.Env) {
	t.Helper()
	lut := symtab.New(0, 0, 0)
	kw := compiler.RegisterKeywords(lut)
	pre, err := compiler.BuildPreamble(lut)
	require.NoError(t, err)
	regs, err := natives.Build(lut)
	require.NoError(t, err)
	return lut, kw, trait.NewEnv(lut, kw, pre, regs)
}

func TestDiscoverSingleAlterableInt(t *testing.T) {
	lut, _, env := newEnv(t)
	astHead, err := ast.NewParser(lut).Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	list, err := env.Discover(astHead, 3421)
	require.NoError(t, err)
	require.Len(t, list.Traits, 1)
	tr := list.Traits[0]
	require.False(t, tr.WithinVector)
	require.Equal(t, value.Int, tr.InitialValue.Tag)
	require.EqualValues(t, 3, tr.InitialValue.I)
	require.NotNil(t, tr.Program)
}

func TestDiscoverVectorOfThreeProducesOneTraitPerChild(t *testing.T) {
	lut, _, env := newEnv(t)
	astHead, err := ast.NewParser(lut).Parse("{[1 2 3] (gen/select from: [[1 2 3] [4 5 6]])}")
	require.NoError(t, err)

	list, err := env.Discover(astHead, 1)
	require.NoError(t, err)
	require.Len(t, list.Traits, 3)
	for i, tr := range list.Traits {
		require.True(t, tr.WithinVector)
		require.EqualValues(t, i, tr.Index)
	}
}

func TestDiscoverVectorOfTwoIsSingle2DTrait(t *testing.T) {
	lut, _, env := newEnv(t)
	astHead, err := ast.NewParser(lut).Parse("{[1 2] (gen/2d min: 0 max: 10)}")
	require.NoError(t, err)

	list, err := env.Discover(astHead, 1)
	require.NoError(t, err)
	require.Len(t, list.Traits, 1)
	require.Equal(t, value.Pair2D, list.Traits[0].InitialValue.Tag)
}
