package bytecode

import (
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// Bytecode is one instruction: an opcode plus two Var operands. Which
// operand carries which meaning depends on Op - e.g. for Load/Store, Arg0
// is the target Segment (encoded as an Int Var) and Arg1 is either the
// literal constant (Segment Constant) or a slot index.
type Bytecode struct {
	Op   Op
	Arg0 value.Var
	Arg1 value.Var
}

// Inst builds a Bytecode triple.
func Inst(op Op, arg0, arg1 value.Var) Bytecode {
	return Bytecode{Op: op, Arg0: arg0, Arg1: arg1}
}

// LoadConstant emits a Load from the Constant pseudo-segment, carrying the
// literal Var to push.
func LoadConstant(v value.Var) Bytecode {
	return Inst(Load, value.NewInt(int32(SegConstant)), v)
}

// LoadSeg emits a Load from segment at the given slot index.
func LoadSeg(seg Segment, index int) Bytecode {
	return Inst(Load, value.NewInt(int32(seg)), value.NewInt(int32(index)))
}

// StoreSeg emits a Store into segment at the given slot index.
func StoreSeg(seg Segment, index int) Bytecode {
	return Inst(Store, value.NewInt(int32(seg)), value.NewInt(int32(index)))
}

// Segment reads Arg0 as a Segment, valid for Load/Store/StoreF/
// PlaceholderStore instructions.
func (b Bytecode) Segment() Segment { return Segment(b.Arg0.I) }

// Index reads Arg1 as an integer slot index.
func (b Bytecode) Index() int { return int(b.Arg1.I) }

// FnInfo describes one top-level function registered by the compiler.
type FnInfo struct {
	Active            bool
	Index             int
	NameSym           symtab.Sym
	ArgAddress        int
	BodyAddress       int
	NumArgs           int
	ArgumentOffsets   []symtab.Sym // length NumArgs, label sym -> argument slot i maps to ArgumentOffsets[i]
}

// Program is a compiled, ready-to-run bytecode stream plus its top-level
// function table and the WordLut it was compiled against.
type Program struct {
	Code    []Bytecode
	FnInfo  []FnInfo // densely packed; Active == false terminates iteration
	WordLut *symtab.WordLut
}

// NewProgram returns an empty Program bound to lut with room for
// maxTopLevelFunctions FnInfo entries.
func NewProgram(lut *symtab.WordLut, maxTopLevelFunctions int) *Program {
	return &Program{
		WordLut: lut,
		FnInfo:  make([]FnInfo, 0, maxTopLevelFunctions),
	}
}

// Emit appends one instruction and returns its address.
func (p *Program) Emit(b Bytecode) int {
	p.Code = append(p.Code, b)
	return len(p.Code) - 1
}

// Size returns the current code length.
func (p *Program) Size() int { return len(p.Code) }

// FindFnInfo returns the FnInfo registered under nameSym, if any.
func (p *Program) FindFnInfo(nameSym symtab.Sym) (*FnInfo, bool) {
	for i := range p.FnInfo {
		if p.FnInfo[i].Active && p.FnInfo[i].NameSym == nameSym {
			return &p.FnInfo[i], true
		}
	}
	return nil, false
}

// FnInfoByIndex returns the FnInfo at the given table index.
func (p *Program) FnInfoByIndex(index int) (*FnInfo, bool) {
	if index < 0 || index >= len(p.FnInfo) || !p.FnInfo[index].Active {
		return nil, false
	}
	return &p.FnInfo[index], true
}
