// Package unparse implements the full and simplified unparsers (spec
// §4.7): printing an AST back out as source text, substituting a
// genotype's genes for each alterable node's content in the same order
// trait discovery (internal/trait) and gene assignment
// (compiler.AssignGenes) visit them.
package unparse

import (
	"strconv"
	"strings"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// Unparser holds the one piece of state unparsing needs beyond the AST
// itself: the word table, for reverse-looking-up Name genes and for
// recognizing the synthetic "quote" node the parser inserts for 'x forms.
type Unparser struct {
	Lut      *symtab.WordLut
	quoteSym symtab.Sym
}

// New returns an Unparser bound to lut. "quote" is interned (idempotently,
// matching the parser's own parseQuoted rewrite) rather than looked up, so
// New works whether or not a script has been parsed against lut yet.
func New(lut *symtab.WordLut) *Unparser {
	sym, _ := lut.Intern("quote")
	return &Unparser{Lut: lut, quoteSym: sym}
}

// Unparse walks astHead in source order, consuming genes positionally and
// printing `{ parameter_prefix gene-value parameter_ast }` for every
// alterable node it encounters; every other node is reprinted from its
// original source span. Every gene in genes must be consumed exactly once,
// or the walk fails.
func (u *Unparser) Unparse(astHead *ast.Node, genes []value.Var) (string, error) {
	var sb strings.Builder
	idx := 0

	onAlterable := func(cur *ast.Node) error {
		if cur.Kind == ast.KindVector && meaningfulCount(cur) != 2 {
			sb.WriteByte('{')
			u.writeVerbatimChain(&sb, cur.ParameterPrefix)
			sb.WriteByte('[')
			for c := cur.FirstChild; c != nil; c = c.Next {
				if !c.IsMeaningful() {
					sb.WriteString(c.Src)
					continue
				}
				g, err := nextGene(genes, &idx)
				if err != nil {
					return err
				}
				if err := u.writeGeneValue(&sb, c, g); err != nil {
					return err
				}
			}
			sb.WriteByte(']')
			u.writeVerbatimChain(&sb, cur.ParameterAST)
			sb.WriteByte('}')
			return nil
		}

		g, err := nextGene(genes, &idx)
		if err != nil {
			return err
		}
		sb.WriteByte('{')
		u.writeVerbatimChain(&sb, cur.ParameterPrefix)
		if err := u.writeGeneValue(&sb, cur, g); err != nil {
			return err
		}
		u.writeVerbatimChain(&sb, cur.ParameterAST)
		sb.WriteByte('}')
		return nil
	}

	if err := u.walkGeneric(astHead, &sb, onAlterable); err != nil {
		return "", err
	}
	if idx != len(genes) {
		return "", errs.New(errs.GenesRemainingAfterAssigning, "unparse: %d gene(s) left unconsumed", len(genes)-idx)
	}
	return sb.String(), nil
}

// SimplifiedUnparse prints just each alterable node's gene-substituted
// value, discarding the `{ ... generator ... }` wrapper entirely - used to
// serialize a minimal post-application source (spec §4.7).
func (u *Unparser) SimplifiedUnparse(astHead *ast.Node, genes []value.Var) (string, error) {
	var sb strings.Builder
	idx := 0

	onAlterable := func(cur *ast.Node) error {
		if cur.Kind == ast.KindVector && meaningfulCount(cur) != 2 {
			sb.WriteByte('[')
			for c := cur.FirstChild; c != nil; c = c.Next {
				if !c.IsMeaningful() {
					sb.WriteString(c.Src)
					continue
				}
				g, err := nextGene(genes, &idx)
				if err != nil {
					return err
				}
				if err := u.writeGeneValue(&sb, c, g); err != nil {
					return err
				}
			}
			sb.WriteByte(']')
			return nil
		}

		g, err := nextGene(genes, &idx)
		if err != nil {
			return err
		}
		return u.writeGeneValue(&sb, cur, g)
	}

	if err := u.walkGeneric(astHead, &sb, onAlterable); err != nil {
		return "", err
	}
	if idx != len(genes) {
		return "", errs.New(errs.GenesRemainingAfterAssigning, "unparse: %d gene(s) left unconsumed", len(genes)-idx)
	}
	return sb.String(), nil
}

func nextGene(genes []value.Var, idx *int) (value.Var, error) {
	if *idx >= len(genes) {
		return value.Var{}, errs.New(errs.NullGene, "unparse: no gene available at position %d", *idx)
	}
	g := genes[*idx]
	*idx++
	return g, nil
}

// walkGeneric walks n's sibling chain in source order. Non-alterable List
// and Vector nodes are reconstructed recursively (they carry no Src of
// their own); every other non-alterable node reprints its Src verbatim.
// onAlterable is invoked, instead of the default handling, for every node
// with Alterable set - the only point the full and simplified unparsers
// differ.
func (u *Unparser) walkGeneric(n *ast.Node, sb *strings.Builder, onAlterable func(cur *ast.Node) error) error {
	for cur := n; cur != nil; cur = cur.Next {
		if cur.Alterable {
			if err := onAlterable(cur); err != nil {
				return err
			}
			continue
		}
		if inner, ok := u.quoteForm(cur); ok {
			sb.WriteByte('\'')
			if err := u.walkGeneric(inner, sb, onAlterable); err != nil {
				return err
			}
			continue
		}
		switch cur.Kind {
		case ast.KindList:
			sb.WriteByte('(')
			if err := u.walkGeneric(cur.FirstChild, sb, onAlterable); err != nil {
				return err
			}
			sb.WriteByte(')')
		case ast.KindVector:
			sb.WriteByte('[')
			if err := u.walkGeneric(cur.FirstChild, sb, onAlterable); err != nil {
				return err
			}
			sb.WriteByte(']')
		default:
			sb.WriteString(cur.Src)
		}
	}
	return nil
}

// quoteForm reports whether n is the parser's (quote x) rewrite of 'x,
// returning the sibling chain after the synthetic "quote" name node.
func (u *Unparser) quoteForm(n *ast.Node) (*ast.Node, bool) {
	if n.Kind != ast.KindList {
		return nil, false
	}
	first := ast.SafeFirstChild(n)
	if first == nil || first.Kind != ast.KindName || first.Sym != u.quoteSym {
		return nil, false
	}
	return first.Next, true
}

// writeVerbatimChain reprints n's sibling chain exactly as parsed,
// including any alterable node's own literal content (never its gene) -
// used for parameter_prefix and parameter_ast, neither of which consumes
// genes or receives substitution.
func (u *Unparser) writeVerbatimChain(sb *strings.Builder, n *ast.Node) {
	onAlterable := func(cur *ast.Node) error {
		sb.WriteByte('{')
		u.writeVerbatimChain(sb, cur.ParameterPrefix)
		u.writeNodeLiteral(sb, cur)
		u.writeVerbatimChain(sb, cur.ParameterAST)
		sb.WriteByte('}')
		return nil
	}
	_ = u.walkGeneric(n, sb, onAlterable) // verbatim printing never fails
}

func (u *Unparser) writeNodeLiteral(sb *strings.Builder, cur *ast.Node) {
	switch cur.Kind {
	case ast.KindList:
		sb.WriteByte('(')
		u.writeVerbatimChain(sb, cur.FirstChild)
		sb.WriteByte(')')
	case ast.KindVector:
		sb.WriteByte('[')
		u.writeVerbatimChain(sb, cur.FirstChild)
		sb.WriteByte(']')
	default:
		sb.WriteString(cur.Src)
	}
}

func meaningfulCount(n *ast.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.IsMeaningful() {
			count++
		}
	}
	return count
}

// writeGeneValue formats v, the gene substituted for node, per its tag.
// node supplies formatting context: its own Src for a Float's original
// decimal count, its Kind for a Pair2D child's int-vs-float style.
func (u *Unparser) writeGeneValue(sb *strings.Builder, node *ast.Node, v value.Var) error {
	switch v.Tag {
	case value.Int:
		sb.WriteString(strconv.FormatInt(int64(v.I), 10))
	case value.Float:
		sb.WriteString(formatFloat(v.F, node.Src))
	case value.Bool:
		if v.I != 0 {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case value.Name:
		name, ok := u.Lut.ReverseLookup(v.Sym)
		if !ok {
			return errs.New(errs.General, "unparse: unknown name symbol %d", v.Sym)
		}
		sb.WriteString(name)
	case value.Pair2D:
		writePair2D(sb, node, v)
	case value.Colour:
		writeColour(sb, v)
	default:
		return errs.New(errs.General, "unparse: cannot format gene of tag %s", v.Tag)
	}
	return nil
}

// writePair2D prints "[a b]", reusing vec's own child chain so any
// whitespace/comments between the two elements are preserved and each
// scalar keeps its original int-vs-float style.
func writePair2D(sb *strings.Builder, vec *ast.Node, v value.Var) {
	sb.WriteByte('[')
	i := 0
	for c := vec.FirstChild; c != nil; c = c.Next {
		if !c.IsMeaningful() {
			sb.WriteString(c.Src)
			continue
		}
		writeScalar(sb, c, v.Channels[i])
		i++
	}
	sb.WriteByte(']')
}

func writeScalar(sb *strings.Builder, node *ast.Node, f float32) {
	if node.Kind == ast.KindInt {
		sb.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	sb.WriteString(formatFloat(f, node.Src))
}

// formatFloat reprints f using originalSrc's decimal count, when
// originalSrc is a recognizable float literal; otherwise it falls back to
// the shortest round-tripping representation.
func formatFloat(f float32, originalSrc string) string {
	if n := decimalsOf(originalSrc); n >= 0 {
		return strconv.FormatFloat(float64(f), 'f', n, 32)
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func decimalsOf(src string) int {
	dot := strings.IndexByte(src, '.')
	if dot < 0 {
		return -1
	}
	n := 0
	for i := dot + 1; i < len(src) && src[i] >= '0' && src[i] <= '9'; i++ {
		n++
	}
	return n
}

// colourNativeName/channelLabelNames mirror internal/natives/col.go's
// constructor dispatch and channelLabelsFor, so a colour gene unparses
// back to the same native call that would reconstruct it.
func colourNativeName(format value.ColourFormat) string {
	switch format {
	case value.HSL:
		return "col/hsl"
	case value.HSLuv:
		return "col/hsluv"
	case value.HSV:
		return "col/hsv"
	case value.LAB:
		return "col/lab"
	default:
		return "col/rgb"
	}
}

func channelLabelNames(format value.ColourFormat) (c0, c1, c2 string) {
	switch format {
	case value.HSL, value.HSLuv:
		return "h", "s", "l"
	case value.HSV:
		return "h", "s", "v"
	case value.LAB:
		return "l", "r", "g"
	default:
		return "r", "g", "b"
	}
}

func writeColour(sb *strings.Builder, v value.Var) {
	c0, c1, c2 := channelLabelNames(v.Format)
	sb.WriteByte('(')
	sb.WriteString(colourNativeName(v.Format))
	sb.WriteByte(' ')
	sb.WriteString(c0)
	sb.WriteString(": ")
	sb.WriteString(strconv.FormatFloat(float64(v.Channels[0]), 'f', -1, 32))
	sb.WriteByte(' ')
	sb.WriteString(c1)
	sb.WriteString(": ")
	sb.WriteString(strconv.FormatFloat(float64(v.Channels[1]), 'f', -1, 32))
	sb.WriteByte(' ')
	sb.WriteString(c2)
	sb.WriteString(": ")
	sb.WriteString(strconv.FormatFloat(float64(v.Channels[2]), 'f', -1, 32))
	sb.WriteString(" a: ")
	sb.WriteString(strconv.FormatFloat(float64(v.Channels[3]), 'f', -1, 32))
	sb.WriteByte(')')
}
