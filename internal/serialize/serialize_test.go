package serialize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/genotype"
	"github.com/indy/sen/internal/natives"
	"github.com/indy/sen/internal/serialize"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/trait"
	"github.com/indy/sen/internal/value"
)

func TestVarRoundTrip(t *testing.T) {
	cases := []value.Var{
		value.NewInt(-42),
		value.NewFloat(3.5),
		value.NewBool(true),
		value.NewBool(false),
		value.NewLong(123456789),
		value.NewName(symtab.Sym(7)),
		value.NewColour(value.HSL, 0.1, 0.2, 0.3, 1.0),
		value.NewPair2D(1.5, -2.25),
	}
	for _, v := range cases {
		c := serialize.NewCursor(256)
		require.NoError(t, serialize.WriteVar(c, v))

		rc := serialize.NewCursorFromString(c.String())
		got, err := serialize.ReadVar(rc)
		require.NoError(t, err)
		require.Equal(t, v.Tag, got.Tag)
		switch v.Tag {
		case value.Int:
			require.Equal(t, v.I, got.I)
		case value.Float:
			require.InDelta(t, v.F, got.F, 0.0001)
		case value.Bool:
			require.Equal(t, v.Truthy(), got.Truthy())
		case value.Long:
			require.Equal(t, v.L, got.L)
		case value.Name:
			require.Equal(t, v.Sym, got.Sym)
		case value.Colour:
			require.Equal(t, v.Format, got.Format)
			require.InDeltaSlice(t, v.Channels[:], got.Channels[:], 0.0001)
		case value.Pair2D:
			require.InDeltaSlice(t, v.Channels[:], got.Channels[:], 0.0001)
		}
	}
}

func TestVarVectorIsUnsupported(t *testing.T) {
	c := serialize.NewCursor(64)
	err := serialize.WriteVar(c, value.EmptyVector())
	require.Error(t, err)
}

func TestCursorOverflowFails(t *testing.T) {
	c := serialize.NewCursor(4)
	err := serialize.WriteVar(c, value.NewInt(123456))
	require.Error(t, err)
}

func TestBytecodeRoundTrip(t *testing.T) {
	b := bytecode.LoadSeg(bytecode.SegGlobal, 3)
	c := serialize.NewCursor(256)
	require.NoError(t, serialize.WriteBytecode(c, b))

	rc := serialize.NewCursorFromString(c.String())
	got, err := serialize.ReadBytecode(rc)
	require.NoError(t, err)
	require.Equal(t, b.Op, got.Op)
	require.Equal(t, b.Segment(), got.Segment())
	require.Equal(t, b.Index(), got.Index())
}

func TestProgramRoundTrip(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	kw := compiler.RegisterKeywords(lut)
	pre, err := compiler.BuildPreamble(lut)
	require.NoError(t, err)
	regs, err := natives.Build(lut)
	require.NoError(t, err)
	_ = regs

	astHead, err := ast.NewParser(lut).Parse("(+ 1 2)")
	require.NoError(t, err)
	prog, err := compiler.New(lut, kw, pre).Compile(astHead)
	require.NoError(t, err)

	c := serialize.NewCursor(4096)
	require.NoError(t, serialize.WriteProgram(c, prog, 1024))

	rc := serialize.NewCursorFromString(c.String())
	got, err := serialize.ReadProgram(rc, lut, 0)
	require.NoError(t, err)
	require.Equal(t, len(prog.Code), len(got.Code))
	for i := range prog.Code {
		require.Equal(t, prog.Code[i].Op, got.Code[i].Op)
	}
	require.Empty(t, got.FnInfo)
}

func TestGenotypeAndGenotypeListRoundTrip(t *testing.T) {
	g := &genotype.Genotype{Genes: []genotype.Gene{
		{Var: value.NewInt(1)}, {Var: value.NewFloat(2.5)},
	}}
	c := serialize.NewCursor(256)
	require.NoError(t, serialize.WriteGenotype(c, g))
	rc := serialize.NewCursorFromString(c.String())
	got, err := serialize.ReadGenotype(rc)
	require.NoError(t, err)
	require.Equal(t, g.Vars(), got.Vars())

	gl := &genotype.GenotypeList{Genotypes: []genotype.Genotype{*g, *g}}
	c2 := serialize.NewCursor(1024)
	require.NoError(t, serialize.WriteGenotypeList(c2, gl))
	rc2 := serialize.NewCursorFromString(c2.String())
	got2, err := serialize.ReadGenotypeList(rc2)
	require.NoError(t, err)
	require.Len(t, got2.Genotypes, 2)
}

func TestTraitListRoundTrip(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	kw := compiler.RegisterKeywords(lut)
	pre, err := compiler.BuildPreamble(lut)
	require.NoError(t, err)
	regs, err := natives.Build(lut)
	require.NoError(t, err)
	env := trait.NewEnv(lut, kw, pre, regs)

	astHead, err := ast.NewParser(lut).Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)
	list, err := env.Discover(astHead, 3421)
	require.NoError(t, err)

	c := serialize.NewCursor(8192)
	require.NoError(t, serialize.WriteTraitList(c, list, 1024))

	rc := serialize.NewCursorFromString(c.String())
	got, err := serialize.ReadTraitList(rc, lut, 0)
	require.NoError(t, err)
	require.Equal(t, list.Seed, got.Seed)
	require.Len(t, got.Traits, len(list.Traits))
	require.Equal(t, list.Traits[0].InitialValue.Tag, got.Traits[0].InitialValue.Tag)
	require.Equal(t, len(list.Traits[0].Program.Code), len(got.Traits[0].Program.Code))
}
