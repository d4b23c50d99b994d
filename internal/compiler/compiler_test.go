package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

type harness struct {
	lut *symtab.WordLut
	kw  *compiler.Keywords
	pre *compiler.Preamble
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	lut := symtab.New(0, 0, 0)
	kw := compiler.RegisterKeywords(lut)
	pre, err := compiler.BuildPreamble(lut)
	require.NoError(t, err)
	return &harness{lut: lut, kw: kw, pre: pre}
}

func (h *harness) compile(t *testing.T, src string) (*compiler.Compiler, error) {
	t.Helper()
	head, err := ast.NewParser(h.lut).Parse(src)
	require.NoError(t, err)
	c := compiler.New(h.lut, h.kw, h.pre)
	_, err = c.Compile(head)
	return c, err
}

func TestBuildPreambleBindsCanvasAndNamedColours(t *testing.T) {
	h := newHarness(t)
	require.NotEmpty(t, h.pre.Code)
	widthSym, ok := h.lut.Lookup("canvas/width")
	require.True(t, ok)
	_, bound := h.pre.Globals[widthSym]
	require.True(t, bound)
}

func TestCompileIfBranchDepthMismatchIsCompileError(t *testing.T) {
	h := newHarness(t)
	_, err := h.compile(t, "(if (< 1 2) 1 (define x 1))")
	require.Error(t, err)
}

func TestCompileNestedDestructureIsUnsupported(t *testing.T) {
	h := newHarness(t)
	_, err := h.compile(t, "(define [[a b] c] [[1 2] 3])")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.UnsupportedDestructure))
}

func TestCompileDefineTargetMustBeNameOrVector(t *testing.T) {
	h := newHarness(t)
	_, err := h.compile(t, `(define "x" 1)`)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.ExpectedNameOrList))
}

func TestCompileUnknownNameIsCompileError(t *testing.T) {
	h := newHarness(t)
	_, err := h.compile(t, "(+ unbound-name 1)")
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.UnknownMappingForName))
}

func TestCompileWithGenotypeSubstitutesGeneValue(t *testing.T) {
	h := newHarness(t)
	head, err := ast.NewParser(h.lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	c := compiler.New(h.lut, h.kw, h.pre)
	prog, err := c.CompileWithGenotype(head, []value.Var{value.NewInt(42)})
	require.NoError(t, err)
	require.NotEmpty(t, prog.Code)
}

func TestCompileWithGenotypeTooFewGenesIsError(t *testing.T) {
	h := newHarness(t)
	head, err := ast.NewParser(h.lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	c := compiler.New(h.lut, h.kw, h.pre)
	_, err = c.CompileWithGenotype(head, nil)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.NullGene))
}

func TestCompileWithGenotypeTooManyGenesIsError(t *testing.T) {
	h := newHarness(t)
	head, err := ast.NewParser(h.lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	c := compiler.New(h.lut, h.kw, h.pre)
	_, err = c.CompileWithGenotype(head, []value.Var{value.NewInt(1), value.NewInt(2)})
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.GenesRemainingAfterAssigning))
}

func TestCompileFnCallRequiresListExpression(t *testing.T) {
	h := newHarness(t)
	_, err := h.compile(t, "(fn-call (address-of foo))")
	require.Error(t, err)
}
