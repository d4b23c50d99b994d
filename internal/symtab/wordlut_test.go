package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisjointRanges(t *testing.T) {
	w := New(4, 4, 4)

	nat := w.AddNative("line")
	kw := w.AddKeyword("if")
	word, err := w.AddWord("foo")
	require.NoError(t, err)

	assert.True(t, w.IsNative(nat))
	assert.True(t, w.IsKeyword(kw))
	assert.True(t, w.IsWord(word))

	// Ranges must never overlap.
	assert.NotEqual(t, int(nat), int(kw))
	assert.NotEqual(t, int(kw), int(word))
	assert.NotEqual(t, int(nat), int(word))
}

func TestLookupOrderNativeFirst(t *testing.T) {
	w := New(4, 4, 4)
	// A native, a keyword and a word sharing the same spelling: native wins, then
	// keyword, then word - insertion order.
	nat := w.AddNative("x")
	kw := w.AddKeyword("x")
	word, _ := w.AddWord("x")

	got, ok := w.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, nat, got)
	assert.NotEqual(t, kw, got)
	assert.NotEqual(t, word, got)
}

func TestAddWordIdempotent(t *testing.T) {
	w := New(4, 4, 4)
	a, err := w.AddWord("dup")
	require.NoError(t, err)
	b, err := w.AddWord("dup")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWordLutFull(t *testing.T) {
	w := New(2, 4, 4)
	_, err := w.AddWord("a")
	require.NoError(t, err)
	_, err = w.AddWord("b")
	require.NoError(t, err)
	_, err = w.AddWord("c")
	require.Error(t, err)
	var full *WordLutFull
	require.ErrorAs(t, err, &full)
}

func TestResetWords(t *testing.T) {
	w := New(4, 4, 4)
	w.AddNative("native1")
	w.AddKeyword("kw1")
	_, _ = w.AddWord("word1")

	w.ResetWords()

	_, ok := w.Lookup("word1")
	assert.False(t, ok)
	_, ok = w.Lookup("native1")
	assert.True(t, ok)
	_, ok = w.Lookup("kw1")
	assert.True(t, ok)
}

func TestReverseLookup(t *testing.T) {
	w := New(4, 4, 4)
	s, err := w.AddWord("hello")
	require.NoError(t, err)
	name, ok := w.ReverseLookup(s)
	require.True(t, ok)
	assert.Equal(t, "hello", name)
}
