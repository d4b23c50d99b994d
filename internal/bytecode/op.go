// Package bytecode defines the stack-machine instruction set the compiler
// emits and the VM executes: the Op enum, the Bytecode triple, and the
// Program container that binds a code stream to its word table and
// top-level function table.
package bytecode

import "fmt"

// Op is one stack-machine opcode.
type Op int

const (
	Load Op = iota
	Store
	Squish2
	Add
	Sub
	Mul
	Div
	Mod
	Neg
	Sqrt
	Eq
	Gt
	Lt
	And
	Or
	Not
	Jump
	JumpIf
	Call
	Call0
	Ret
	Ret0
	CallF
	CallF0
	Native
	Append
	Pile
	StoreF
	PlaceholderStore
	MtxLoad
	MtxStore
	Nop
	Stop
)

var opNames = [...]string{
	"LOAD", "STORE", "SQUISH2", "ADD", "SUB", "MUL", "DIV", "MOD", "NEG", "SQRT",
	"EQ", "GT", "LT", "AND", "OR", "NOT", "JUMP", "JUMP_IF", "CALL", "CALL_0",
	"RET", "RET_0", "CALL_F", "CALL_F_0", "NATIVE", "APPEND", "PILE", "STORE_F",
	"PLACEHOLDER_STORE", "MTX_LOAD", "MTX_STORE", "NOP", "STOP",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("OP(%d)", int(o))
}

// StackDelta returns the fixed compile-time stack-depth delta for ops whose
// effect does not depend on a runtime argument count. Native and Pile have
// a variable delta the compiler computes from num_args/N directly instead
// of consulting this table.
func StackDelta(op Op) int {
	switch op {
	case Load:
		return 1
	case Store:
		return -1
	case Squish2:
		return -1
	case Add, Sub, Mul, Div, Mod:
		return -1
	case Neg, Sqrt:
		return 0
	case Eq, Gt, Lt:
		return -1
	case And, Or:
		return -1
	case Not:
		return 0
	case Jump:
		return 0
	case JumpIf:
		return -1
	case Call:
		return -2
	case Call0:
		return 0
	case Ret, Ret0:
		return 0
	case CallF:
		return -1
	case CallF0:
		return 0
	case Append:
		return -1
	case StoreF:
		return -2
	case PlaceholderStore:
		return -1
	case MtxLoad, MtxStore:
		return 0
	case Nop, Stop:
		return 0
	default:
		return 0
	}
}

// Segment names the memory region a Load/Store/StoreF targets.
type Segment int

const (
	SegArgument Segment = iota
	SegLocal
	SegGlobal
	SegConstant
	SegVoid
)

func (s Segment) String() string {
	switch s {
	case SegArgument:
		return "ARGUMENT"
	case SegLocal:
		return "LOCAL"
	case SegGlobal:
		return "GLOBAL"
	case SegConstant:
		return "CONSTANT"
	case SegVoid:
		return "VOID"
	default:
		return fmt.Sprintf("SEGMENT(%d)", int(s))
	}
}
