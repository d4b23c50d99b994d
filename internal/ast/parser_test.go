package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indy/sen/internal/symtab"
)

func newTestParser() *Parser {
	lut := symtab.New(256, 64, 64)
	return NewParser(lut)
}

func TestParseSimpleList(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("(+ 3 4)")
	require.NoError(t, err)
	require.Equal(t, KindList, n.Kind)

	kids := n.Children()
	require.Len(t, kids, 5) // '+' name, ws, '3' int, ws, '4' int
}

func TestParseNumberKinds(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("42")
	require.NoError(t, err)
	assert.Equal(t, KindInt, n.Kind)
	assert.Equal(t, int32(42), n.IntVal)

	p2 := newTestParser()
	f, err := p2.Parse("3.14")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, f.Kind)
	assert.InDelta(t, 3.14, float64(f.FloatVal), 0.0001)
	assert.Equal(t, 2, f.FloatDecimals())
}

func TestParseNegativeNumber(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("-7")
	require.NoError(t, err)
	require.Equal(t, KindInt, n.Kind)
	assert.Equal(t, int32(-7), n.IntVal)
}

func TestParseVectorOfLength2(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("[1 2]")
	require.NoError(t, err)
	require.Equal(t, KindVector, n.Kind)
	kids := SafeFirst(n.FirstChild)
	require.NotNil(t, kids)
}

func TestParseLabel(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("a:")
	require.NoError(t, err)
	assert.Equal(t, KindLabel, n.Kind)
}

func TestParseString(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse(`"hello world"`)
	require.NoError(t, err)
	assert.Equal(t, KindString, n.Kind)
}

func TestParseComment(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("; a comment\n1")
	require.NoError(t, err)
	require.Equal(t, KindComment, n.Kind)
	next := SafeNext(n)
	require.NotNil(t, next)
	assert.Equal(t, KindInt, next.Kind)
}

func TestParseQuote(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("'x")
	require.NoError(t, err)
	require.Equal(t, KindList, n.Kind)
	first := n.FirstChild
	require.Equal(t, KindName, first.Kind)
}

func TestAlterableInt(t *testing.T) {
	p := newTestParser()
	n, err := p.Parse("{3 (gen/int min: 1 max: 100)}")
	require.NoError(t, err)
	require.Equal(t, KindInt, n.Kind)
	assert.True(t, n.Alterable)
	assert.Equal(t, int32(3), n.IntVal)
	require.NotNil(t, n.ParameterAST)
}

func TestAlterableNonMutable(t *testing.T) {
	p := newTestParser()
	_, err := p.Parse(`{"str" (gen/select from: '("a" "b"))}`)
	require.Error(t, err)
}

func TestMismatchedClose(t *testing.T) {
	p := newTestParser()
	_, err := p.Parse("(+ 1 2]")
	require.Error(t, err)
}

func TestUnexpectedEOFInString(t *testing.T) {
	p := newTestParser()
	_, err := p.Parse(`"unterminated`)
	require.Error(t, err)
}

func TestNameResolvesToExistingKeywordSym(t *testing.T) {
	lut := symtab.New(256, 64, 64)
	kw := lut.AddKeyword("if")
	p := NewParser(lut)
	n, err := p.Parse("if")
	require.NoError(t, err)
	assert.Equal(t, kw, n.Sym)
}
