package sen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sen "github.com/indy/sen"
	"github.com/indy/sen/internal/value"
)

func newEngine(t *testing.T) *sen.Engine {
	t.Helper()
	e, err := sen.NewEngine(sen.DefaultEngineOptions())
	require.NoError(t, err)
	return e
}

func TestCompileAndRun(t *testing.T) {
	e := newEngine(t)

	astHead, err := e.Parse("(+ 1 2)")
	require.NoError(t, err)

	prog, err := e.Compile(astHead)
	require.NoError(t, err)

	result, err := e.Run(prog, 1)
	require.NoError(t, err)
	require.Equal(t, value.Float, result.Tag)
	require.InDelta(t, float32(3), result.F, 0.0001)
}

func TestDiscoverBuildAndCompileWithGenotype(t *testing.T) {
	e := newEngine(t)

	astHead, err := e.Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	list, err := e.DiscoverTraits(astHead, 3421)
	require.NoError(t, err)
	require.Len(t, list.Traits, 1)

	generation, err := e.InitialGeneration(list, 4, 3421)
	require.NoError(t, err)
	require.Len(t, generation.Genotypes, 4)

	genes := generation.Genotypes[0].Vars()
	require.Len(t, genes, 1)
	require.Equal(t, value.Int, genes[0].Tag)
	require.GreaterOrEqual(t, genes[0].I, int32(1))
	require.LessOrEqual(t, genes[0].I, int32(100))

	prog, err := e.CompileWithGenotype(astHead, genes)
	require.NoError(t, err)

	result, err := e.Run(prog, 1)
	require.NoError(t, err)
	require.Equal(t, value.Float, result.Tag)
	require.InDelta(t, float32(6+genes[0].I), result.F, 0.0001)
}

func TestNextGenerationBreedsFromParents(t *testing.T) {
	e := newEngine(t)

	astHead, err := e.Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	list, err := e.DiscoverTraits(astHead, 99)
	require.NoError(t, err)

	parents, err := e.InitialGeneration(list, 4, 99)
	require.NoError(t, err)

	children, err := e.NextGeneration(list, parents, 6, 100, 0.1)
	require.NoError(t, err)
	require.Len(t, children.Genotypes, 6)
	for _, g := range children.Genotypes {
		require.Len(t, g.Genes, 1)
	}
}

func TestSerializeTraitListRoundTrip(t *testing.T) {
	e := newEngine(t)

	astHead, err := e.Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	list, err := e.DiscoverTraits(astHead, 3421)
	require.NoError(t, err)

	text, err := e.SerializeTraitList(list)
	require.NoError(t, err)

	got, err := e.DeserializeTraitList(text)
	require.NoError(t, err)
	require.Equal(t, list.Seed, got.Seed)
	require.Len(t, got.Traits, len(list.Traits))
}

func TestSerializeGenotypeListRoundTrip(t *testing.T) {
	e := newEngine(t)

	astHead, err := e.Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	list, err := e.DiscoverTraits(astHead, 7)
	require.NoError(t, err)

	generation, err := e.InitialGeneration(list, 3, 7)
	require.NoError(t, err)

	text, err := e.SerializeGenotypeList(generation)
	require.NoError(t, err)

	got, err := e.DeserializeGenotypeList(text)
	require.NoError(t, err)
	require.Len(t, got.Genotypes, len(generation.Genotypes))
	for i := range generation.Genotypes {
		require.Equal(t, generation.Genotypes[i].Vars(), got.Genotypes[i].Vars())
	}
}

func TestUnparseRoundTrip(t *testing.T) {
	e := newEngine(t)

	astHead, err := e.Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	src, err := e.Unparse(astHead, []value.Var{value.NewInt(81)})
	require.NoError(t, err)
	require.Equal(t, "(+ 6 {81 (gen/int min: 1 max: 100)})", src)

	simplified, err := e.SimplifiedUnparse(astHead, []value.Var{value.NewInt(81)})
	require.NoError(t, err)
	require.Equal(t, "(+ 6 81)", simplified)
}
