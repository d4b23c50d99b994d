package unparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/unparse"
	"github.com/indy/sen/internal/value"
)

// TestUnparseMatchesSpecExample exercises the spec §8 walkthrough:
// unparsing "(+ 6 {3 (gen/int min: 1 max: 100)})" with the gene [81]
// yields "(+ 6 {81 (gen/int min: 1 max: 100)})".
func TestUnparseMatchesSpecExample(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	astHead, err := ast.NewParser(lut).Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	u := unparse.New(lut)
	out, err := u.Unparse(astHead, []value.Var{value.NewInt(81)})
	require.NoError(t, err)
	require.Equal(t, "(+ 6 {81 (gen/int min: 1 max: 100)})", out)
}

func TestSimplifiedUnparseDiscardsWrapper(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	astHead, err := ast.NewParser(lut).Parse("(+ 6 {3 (gen/int min: 1 max: 100)})")
	require.NoError(t, err)

	u := unparse.New(lut)
	out, err := u.SimplifiedUnparse(astHead, []value.Var{value.NewInt(81)})
	require.NoError(t, err)
	require.Equal(t, "(+ 6 81)", out)
}

func TestUnparsePreservesNonAlterableWhitespaceAndComments(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	src := "(+  6 ;comment\n {3 (gen/int min: 1 max: 100)})"
	astHead, err := ast.NewParser(lut).Parse(src)
	require.NoError(t, err)

	u := unparse.New(lut)
	out, err := u.Unparse(astHead, []value.Var{value.NewInt(5)})
	require.NoError(t, err)
	require.Equal(t, "(+  6 ;comment\n {5 (gen/int min: 1 max: 100)})", out)
}

func TestUnparseVectorOfThreeSubstitutesEachChild(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	astHead, err := ast.NewParser(lut).Parse("{[1 2 3] (gen/select from: [[1 2 3] [4 5 6]])}")
	require.NoError(t, err)

	u := unparse.New(lut)
	genes := []value.Var{value.NewInt(9), value.NewInt(8), value.NewInt(7)}
	out, err := u.Unparse(astHead, genes)
	require.NoError(t, err)
	require.Equal(t, "{[9 8 7] (gen/select from: [[1 2 3] [4 5 6]])}", out)
}

func TestUnparseFailsOnTooFewGenes(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	astHead, err := ast.NewParser(lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	u := unparse.New(lut)
	_, err = u.Unparse(astHead, nil)
	require.Error(t, err)
}

func TestUnparseFailsOnTooManyGenes(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	astHead, err := ast.NewParser(lut).Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)

	u := unparse.New(lut)
	_, err = u.Unparse(astHead, []value.Var{value.NewInt(1), value.NewInt(2)})
	require.Error(t, err)
}

func TestUnparseReemitsQuoteShorthand(t *testing.T) {
	lut := symtab.New(0, 0, 0)
	astHead, err := ast.NewParser(lut).Parse("'x")
	require.NoError(t, err)

	u := unparse.New(lut)
	out, err := u.Unparse(astHead, nil)
	require.NoError(t, err)
	require.Equal(t, "'x", out)
}
