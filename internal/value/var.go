// Package value implements Var, the tagged runtime value shared by the
// compiler (as bytecode operands), the VM (as stack slots and heap cells)
// and the genotype engine (as gene payloads).
package value

import (
	"fmt"

	"github.com/indy/sen/internal/symtab"
)

// Tag discriminates the payload carried by a Var.
type Tag int

const (
	Int Tag = iota
	Float
	Bool
	Long
	Name
	Vector
	Colour
	Pair2D
)

func (t Tag) String() string {
	switch t {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOLEAN"
	case Long:
		return "LONG"
	case Name:
		return "NAME"
	case Vector:
		return "VECTOR"
	case Colour:
		return "COLOUR"
	case Pair2D:
		return "2D"
	default:
		return fmt.Sprintf("TAG(%d)", int(t))
	}
}

// ColourFormat names the colour space a Colour Var's four channels are
// expressed in.
type ColourFormat int

const (
	RGB ColourFormat = iota
	HSL
	HSLuv
	LAB
	HSV
	XYZ
)

func (f ColourFormat) String() string {
	switch f {
	case RGB:
		return "rgb"
	case HSL:
		return "hsl"
	case HSLuv:
		return "hsluv"
	case LAB:
		return "lab"
	case HSV:
		return "hsv"
	case XYZ:
		return "xyz"
	default:
		return fmt.Sprintf("colour-format(%d)", int(f))
	}
}

// Var is the tagged runtime value. Exactly one group of fields is
// meaningful for a given Tag:
//
//	Int/Bool    -> I
//	Float       -> F
//	Long        -> L (PRNG state words travel as two Longs)
//	Name        -> Sym
//	Vector      -> VectorHead (0 == empty vector, otherwise a 1-based
//	               index into the owning heap.Pool's cell slab)
//	Colour/Pair2D -> Channels (Pair2D only uses Channels[0], Channels[1])
//
// A Var is always copied by value; the only indirection is VectorHead,
// which aliases heap-pool storage owned by the VM.
type Var struct {
	Tag        Tag
	I          int32
	F          float32
	L          uint64
	Sym        symtab.Sym
	VectorHead int
	Format     ColourFormat
	Channels   [4]float32
}

// NewInt returns an Int Var.
func NewInt(i int32) Var { return Var{Tag: Int, I: i} }

// NewFloat returns a Float Var.
func NewFloat(f float32) Var { return Var{Tag: Float, F: f} }

// NewBool returns a Bool Var.
func NewBool(b bool) Var {
	v := Var{Tag: Bool}
	if b {
		v.I = 1
	}
	return v
}

// NewLong returns a Long Var, used to carry PRNG state words.
func NewLong(l uint64) Var { return Var{Tag: Long, L: l} }

// NewName returns a Name Var referencing sym.
func NewName(sym symtab.Sym) Var { return Var{Tag: Name, Sym: sym} }

// NewPair2D returns a Pair2D Var holding (x, y).
func NewPair2D(x, y float32) Var {
	v := Var{Tag: Pair2D}
	v.Channels[0] = x
	v.Channels[1] = y
	return v
}

// NewColour returns a Colour Var in the given format with four channels.
func NewColour(format ColourFormat, c0, c1, c2, c3 float32) Var {
	v := Var{Tag: Colour, Format: format}
	v.Channels = [4]float32{c0, c1, c2, c3}
	return v
}

// EmptyVector returns a Vector Var with no elements.
func EmptyVector() Var { return Var{Tag: Vector, VectorHead: 0} }

// VectorOf returns a Vector Var whose elements live in the heap pool cell
// chain starting at head.
func VectorOf(head int) Var { return Var{Tag: Vector, VectorHead: head} }

// X returns the first channel of a Pair2D or Colour Var.
func (v Var) X() float32 { return v.Channels[0] }

// Y returns the second channel of a Pair2D or Colour Var.
func (v Var) Y() float32 { return v.Channels[1] }

// Truthy implements the VM's notion of truthiness, used by JumpIf and the
// `and`/`or`/`not` operators: zero numeric values and false booleans are
// falsy, everything else (including any Vector, Name or Colour) is truthy.
func (v Var) Truthy() bool {
	switch v.Tag {
	case Int:
		return v.I != 0
	case Float:
		return v.F != 0
	case Bool:
		return v.I != 0
	case Long:
		return v.L != 0
	default:
		return true
	}
}

// AsFloat32 coerces an Int, Float or Bool Var to float32; it panics for any other
// tag, mirroring the original's assumption that arithmetic only ever sees
// numeric Vars (type errors are caught earlier, at compile time).
func (v Var) AsFloat32() float32 {
	switch v.Tag {
	case Float:
		return v.F
	case Int:
		return float32(v.I)
	case Bool:
		return float32(v.I)
	default:
		panic(fmt.Sprintf("value: AsFloat32 on non-numeric Var (%s)", v.Tag))
	}
}

// SameType reports whether a and b carry the same Tag - used by the
// compiler when type-checking a gene against the alterable node it will be
// substituted into (IncompatibleGene).
func SameType(a, b Var) bool { return a.Tag == b.Tag }

// String renders a Var for debug/trace output.
func (v Var) String() string {
	switch v.Tag {
	case Int:
		return fmt.Sprintf("INT(%d)", v.I)
	case Float:
		return fmt.Sprintf("FLOAT(%g)", v.F)
	case Bool:
		return fmt.Sprintf("BOOLEAN(%t)", v.I != 0)
	case Long:
		return fmt.Sprintf("LONG(%d)", v.L)
	case Name:
		return fmt.Sprintf("NAME(%d)", v.Sym)
	case Vector:
		return fmt.Sprintf("VECTOR(head=%d)", v.VectorHead)
	case Colour:
		return fmt.Sprintf("COLOUR(%s %v)", v.Format, v.Channels)
	case Pair2D:
		return fmt.Sprintf("2D(%g, %g)", v.Channels[0], v.Channels[1])
	default:
		return "<invalid Var>"
	}
}
