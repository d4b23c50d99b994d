// Package ast defines the syntax tree produced by the parser: a Node per
// lexical form (list, vector, name, literal, label, string, whitespace or
// comment), linked into sibling chains rather than slices so that the
// genotype engine and unparser can walk and rewrite them with simple
// pointer cursors.
package ast

import (
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// Kind differentiates the syntactic forms a Node can take.
type Kind int

const (
	KindList Kind = iota
	KindVector
	KindInt
	KindFloat
	KindName
	KindLabel
	KindString
	KindWhitespace
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "LIST"
	case KindVector:
		return "VECTOR"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindName:
		return "NAME"
	case KindLabel:
		return "LABEL"
	case KindString:
		return "STRING"
	case KindWhitespace:
		return "WHITESPACE"
	case KindComment:
		return "COMMENT"
	default:
		return "UNKNOWN"
	}
}

// Node is one element of the syntax tree. List and Vector nodes own a
// sibling chain of children starting at FirstChild; every other Kind is a
// leaf.
type Node struct {
	Kind Kind

	// Src is the verbatim source text covered by this node. It backs
	// whitespace/comment reproduction and lets the unparser reprint a
	// float with its original decimal count.
	Src string

	IntVal   int32
	FloatVal float32
	Sym      symtab.Sym // valid for Name, Label, String

	FirstChild *Node // valid for List, Vector

	// Alterable is true when this node was wrapped in { ... }.
	Alterable bool
	// ParameterAST is the sibling chain making up the body of the { }
	// that wraps this node: the generator expression plus any trailing
	// whitespace/comments, in source order.
	ParameterAST *Node
	// ParameterPrefix is the sibling chain of whitespace/comments found
	// between '{' and this node.
	ParameterPrefix *Node
	// Gene holds the value substituted for this node once a genotype has
	// been applied (AssignGenes / the compiler's genotype-aware pass).
	Gene *value.Var

	Prev, Next *Node
}

// NewLeaf returns a leaf Node of the given kind with src captured verbatim.
func NewLeaf(kind Kind, src string) *Node {
	return &Node{Kind: kind, Src: src}
}

// Append links n onto the end of the sibling chain rooted at head,
// returning the (possibly unchanged) head.
func Append(head, n *Node) *Node {
	if head == nil {
		return n
	}
	tail := head
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = n
	n.Prev = tail
	return head
}

// Children collects n's FirstChild sibling chain into a slice.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		out = append(out, c)
	}
	return out
}

// IsMeaningful reports whether n is neither whitespace nor a comment.
func (n *Node) IsMeaningful() bool {
	return n != nil && n.Kind != KindWhitespace && n.Kind != KindComment
}

// SafeFirst returns the first meaningful node starting at n, skipping
// leading whitespace/comments.
func SafeFirst(n *Node) *Node {
	for n != nil && !n.IsMeaningful() {
		n = n.Next
	}
	return n
}

// SafeFirstChild returns the first meaningful child of n.
func SafeFirstChild(n *Node) *Node {
	if n == nil {
		return nil
	}
	return SafeFirst(n.FirstChild)
}

// SafeNext returns the next meaningful sibling after n.
func SafeNext(n *Node) *Node {
	if n == nil {
		return nil
	}
	return SafeFirst(n.Next)
}

// SafePrev returns the previous meaningful sibling before n.
func SafePrev(n *Node) *Node {
	if n == nil {
		return nil
	}
	p := n.Prev
	for p != nil && !p.IsMeaningful() {
		p = p.Prev
	}
	return p
}

// CanAlter reports whether a node of this Kind may be wrapped in { }, per
// the parser's alterable rule: only Int, Float, Name, List and Vector
// nodes are mutable.
func CanAlter(k Kind) bool {
	switch k {
	case KindInt, KindFloat, KindName, KindList, KindVector:
		return true
	default:
		return false
	}
}
