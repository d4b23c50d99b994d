package compiler

import (
	"math"

	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// namedColour is one of the fixed RGBA colour bindings every script sees.
type namedColour struct {
	name             string
	r, g, b, a       float32
}

var namedColours = []namedColour{
	{"white", 1, 1, 1, 1},
	{"black", 0, 0, 0, 1},
	{"red", 1, 0, 0, 1},
	{"green", 0, 1, 0, 1},
	{"blue", 0, 0, 1, 1},
	{"yellow", 1, 1, 0, 1},
	{"magenta", 1, 0, 1, 1},
	{"cyan", 0, 1, 1, 1},
}

var procePresetNames = []string{"procedural-fn-preset-1", "procedural-fn-preset-2", "procedural-fn-preset-3"}
var easePresetNames = []string{"linear", "quick", "slow-in", "slow-in-out"}

// Preamble is the fixed set of global bindings compiled once at engine
// startup: canvas dimensions, math/TAU, the named colours and the two
// preset vectors. Its Code is copied to the front of every compiled
// Program, and its global slot assignments seed every Compiler's global
// mapping table so user scripts can reference the names directly.
type Preamble struct {
	Code    []bytecode.Bytecode
	Globals map[symtab.Sym]int
}

// BuildPreamble interns the preamble's names into lut (through Intern, so
// gen/initial resolves to the keyword Sym the compiler rebinds for trait
// programs and every other name becomes a word) and compiles the fixed
// store sequence that binds them.
func BuildPreamble(lut *symtab.WordLut) (*Preamble, error) {
	p := &Preamble{Globals: make(map[symtab.Sym]int)}
	slot := 0

	bind := func(name string, v value.Var) error {
		sym, err := lut.Intern(name)
		if err != nil {
			return err
		}
		p.Globals[sym] = slot
		p.Code = append(p.Code, bytecode.LoadConstant(v))
		p.Code = append(p.Code, bytecode.StoreSeg(bytecode.SegGlobal, slot))
		slot++
		return nil
	}

	if err := bind("gen/initial", value.NewInt(0)); err != nil {
		return nil, err
	}
	if err := bind("canvas/width", value.NewFloat(1000.0)); err != nil {
		return nil, err
	}
	if err := bind("canvas/height", value.NewFloat(1000.0)); err != nil {
		return nil, err
	}
	if err := bind("math/TAU", value.NewFloat(float32(2*math.Pi))); err != nil {
		return nil, err
	}

	for _, c := range namedColours {
		if err := bind(c.name, value.NewColour(value.RGB, c.r, c.g, c.b, c.a)); err != nil {
			return nil, err
		}
	}

	// Preset vectors are bound as vectors of Name Vars; since Load Void /
	// Append require a live heap at VM time rather than compile time, the
	// preamble instead emits the construction sequence (Load Void, Append*)
	// which the VM executes just like any other vector literal.
	if err := bindNameVector(lut, p, "col/procedural-fn-presets", procePresetNames, &slot); err != nil {
		return nil, err
	}
	if err := bindNameVector(lut, p, "ease/presets", easePresetNames, &slot); err != nil {
		return nil, err
	}

	return p, nil
}

func bindNameVector(lut *symtab.WordLut, p *Preamble, name string, elems []string, slot *int) error {
	sym, err := lut.AddWord(name)
	if err != nil {
		return err
	}
	p.Globals[sym] = *slot
	p.Code = append(p.Code, bytecode.LoadSeg(bytecode.SegVoid, 0))
	for _, e := range elems {
		esym, err := lut.AddWord(e)
		if err != nil {
			return err
		}
		p.Code = append(p.Code, bytecode.LoadConstant(value.NewName(esym)))
		p.Code = append(p.Code, bytecode.Inst(bytecode.Append, value.Var{}, value.Var{}))
	}
	p.Code = append(p.Code, bytecode.StoreSeg(bytecode.SegGlobal, *slot))
	*slot++
	return nil
}
