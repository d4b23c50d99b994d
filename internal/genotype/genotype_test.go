package genotype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/genotype"
	"github.com/indy/sen/internal/heap"
	"github.com/indy/sen/internal/mtx"
	"github.com/indy/sen/internal/natives"
	"github.com/indy/sen/internal/prng"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/trait"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

func newTraitEnv(t *testing.T) (*symtab.WordLut, *compiler.Keywords, *compiler.Preamble, map[symtab.Sym]vm.NativeFunc, *trait.Env) {
	t.Helper()
	lut := symtab.New(0, 0, 0)
	kw := compiler.RegisterKeywords(lut)
	pre, err := compiler.BuildPreamble(lut)
	require.NoError(t, err)
	regs, err := natives.Build(lut)
	require.NoError(t, err)
	return lut, kw, pre, regs, trait.NewEnv(lut, kw, pre, regs)
}

// TestBuildFromTraitProgramsReproducesTheSpecScenarioShape exercises the
// walkthrough structure from spec §8 (a single gen/int trait seeded,
// substituted back into a surrounding expression via CompileWithGenotype):
// the gene value is deterministic and the addition lands within the
// gen/int-widened range 7..106 ("+ 6" against a value in 1..100).
func TestBuildFromTraitProgramsReproducesTheSpecScenarioShape(t *testing.T) {
	lut, kw, pre, regs, env := newTraitEnv(t)

	astHead, err := ast.NewParser(lut).Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	list, err := env.Discover(astHead, 3421)
	require.NoError(t, err)
	require.Len(t, list.Traits, 1)

	buildAndRun := func() value.Var {
		heapPool := heap.NewPool(vm.DefaultHeapSize, vm.DefaultHeapMinSize)
		matrix := mtx.NewStack()
		g, err := genotype.BuildFromTraitPrograms(list, 3421, heapPool, matrix, regs)
		require.NoError(t, err)
		require.Len(t, g.Genes, 1)
		require.Equal(t, value.Int, g.Genes[0].Var.Tag)
		require.GreaterOrEqual(t, g.Genes[0].Var.I, int32(1))
		require.LessOrEqual(t, g.Genes[0].Var.I, int32(100))

		c := compiler.New(lut, kw, pre)
		prog, err := c.CompileWithGenotype(astHead, g.Vars())
		require.NoError(t, err)

		machine := vm.New(prog, heap.NewPool(vm.DefaultHeapSize, vm.DefaultHeapMinSize), mtx.NewStack(), prng.NewState(1), regs)
		result, err := machine.Run()
		require.NoError(t, err)
		require.Equal(t, value.Float, result.Tag)
		return result
	}

	first := buildAndRun()
	second := buildAndRun()
	require.Equal(t, first.F, second.F)
	require.GreaterOrEqual(t, first.F, float32(7))
	require.LessOrEqual(t, first.F, float32(106))
}

func TestBuildFromInitialValuesNoPRNG(t *testing.T) {
	_, _, _, _, env := newTraitEnv(t)
	lut := env.Lut
	astHead, err := ast.NewParser(lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	list, err := env.Discover(astHead, 1)
	require.NoError(t, err)

	g := genotype.BuildFromInitialValues(list)
	require.Len(t, g.Genes, 1)
	require.Equal(t, value.Int, g.Genes[0].Var.Tag)
	require.EqualValues(t, 3, g.Genes[0].Var.I)
}

func TestCrossoverEndpointsAreClones(t *testing.T) {
	a := &genotype.Genotype{Genes: []genotype.Gene{
		{Var: value.NewInt(1)}, {Var: value.NewInt(2)}, {Var: value.NewInt(3)},
	}}
	b := &genotype.Genotype{Genes: []genotype.Gene{
		{Var: value.NewInt(10)}, {Var: value.NewInt(20)}, {Var: value.NewInt(30)},
	}}

	atZero := genotype.Crossover(a, b, 0)
	require.Equal(t, b.Vars(), atZero.Vars())

	atLen := genotype.Crossover(a, b, len(a.Genes))
	require.Equal(t, a.Vars(), atLen.Vars())

	mid := genotype.Crossover(a, b, 1)
	require.EqualValues(t, 1, mid.Genes[0].Var.I)
	require.EqualValues(t, 20, mid.Genes[1].Var.I)
	require.EqualValues(t, 30, mid.Genes[2].Var.I)
}

func TestInitialGenerationDeterministic(t *testing.T) {
	_, _, _, regs, env := newTraitEnv(t)
	lut := env.Lut
	astHead, err := ast.NewParser(lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)
	list, err := env.Discover(astHead, 99)
	require.NoError(t, err)

	run := func() *genotype.GenotypeList {
		heapPool := heap.NewPool(vm.DefaultHeapSize, vm.DefaultHeapMinSize)
		matrix := mtx.NewStack()
		gl, err := genotype.InitialGeneration(list, 4, 99, heapPool, matrix, regs)
		require.NoError(t, err)
		return gl
	}

	first := run()
	second := run()
	require.Len(t, first.Genotypes, 4)
	for i := range first.Genotypes {
		require.Equal(t, first.Genotypes[i].Vars(), second.Genotypes[i].Vars())
	}
}
