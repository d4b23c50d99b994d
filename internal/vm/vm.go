package vm

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/heap"
	"github.com/indy/sen/internal/mtx"
	"github.com/indy/sen/internal/prng"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// NativeFunc implements one native function (spec §6's native ABI): args
// carries the call site's label/value pairs keyed by their label Sym.
type NativeFunc func(vm *VM, args map[symtab.Sym]value.Var) (value.Var, error)

// VM is one stack-machine instance: an operand/frame stack with a fixed
// global region at its base, plus the heap pool, matrix stack and PRNG
// state a running program shares across native calls.
type VM struct {
	prog *bytecode.Program

	stack []value.Var
	fp    int
	sp    int
	ip    int

	Heap    *heap.Pool
	Matrix  *mtx.Stack
	PRNG    *prng.State
	Perlin  *prng.Perlin
	Natives map[symtab.Sym]NativeFunc

	// BuildingWithinVector/TraitWithinVectorIndex let a gen/* native know
	// it is being evaluated to populate one slot of an enclosing colour
	// constructor vector rather than standing alone, per §4.3.6.
	BuildingWithinVector  bool
	TraitWithinVectorIndex int32

	steps int
}

// maxSteps bounds a single Run call against a runaway program (an
// unconditional Jump loop with no Stop); generous enough for any
// legitimate script this module compiles.
const maxSteps = 10_000_000

// New returns a VM ready to execute prog, with globals zero-initialized.
// The Perlin permutation table is built once here from a single draw off
// p, so its Fisher-Yates shuffle never perturbs the gen/* draw sequence a
// script sees call-by-call - only this one-time, seed-deterministic cost.
func New(prog *bytecode.Program, heapPool *heap.Pool, matrix *mtx.Stack, p *prng.State, natives map[symtab.Sym]NativeFunc) *VM {
	v := &VM{
		prog:    prog,
		stack:   make([]value.Var, MemoryGlobalSize),
		fp:      MemoryGlobalSize,
		sp:      MemoryGlobalSize,
		Heap:    heapPool,
		Matrix:  matrix,
		PRNG:    p,
		Perlin:  prng.NewPerlin(prng.NewState(p.NextU64())),
		Natives: natives,
	}
	return v
}

// RunProgram swaps in prog and runs it from address 0 with a fresh global
// region, while keeping Heap, Matrix, PRNG and Perlin untouched - used by
// the genotype engine to run one trait program after another against a
// single VM so the PRNG sequence carries across trait boundaries within
// one genotype build (spec §4.6's "set VM PRNG state from seed" applies
// once per genotype, not once per trait).
func (v *VM) RunProgram(prog *bytecode.Program) (value.Var, error) {
	v.prog = prog
	v.stack = make([]value.Var, MemoryGlobalSize)
	v.fp = MemoryGlobalSize
	v.sp = MemoryGlobalSize
	v.ip = 0
	v.steps = 0
	return v.Run()
}

// Global reads global slot i directly, for hosts inspecting a finished
// run's bindings (e.g. a trait program reading back its result).
func (v *VM) Global(i int) value.Var {
	if i < 0 || i >= len(v.stack) {
		return value.Var{}
	}
	return v.stack[i]
}

func (v *VM) ensure(n int) {
	if n <= len(v.stack) {
		return
	}
	grown := make([]value.Var, n)
	copy(grown, v.stack)
	v.stack = grown
}

func (v *VM) push(val value.Var) {
	v.ensure(v.sp + 1)
	v.stack[v.sp] = val
	v.sp++
}

// operandFloor is the lowest valid sp for the current frame's operand
// stack: MemoryGlobalSize at top level (fp's sentinel value there), or
// just past the current frame's fixed local region otherwise.
func (v *VM) operandFloor() int {
	if v.fp == MemoryGlobalSize {
		return MemoryGlobalSize
	}
	return v.fp + frameHeaderSize + MemoryLocalSize
}

func (v *VM) pop() (value.Var, error) {
	if v.sp <= v.operandFloor() {
		return value.Var{}, errs.New(errs.RuntimeStackUnderflow, "pop with empty operand stack")
	}
	v.sp--
	return v.stack[v.sp], nil
}

// roots collects every heap Vector head reachable from live VM state, for
// a Heap.Sweep call at a safe point between instructions.
func (v *VM) roots() []int {
	var out []int
	for i := 0; i < v.sp && i < len(v.stack); i++ {
		if v.stack[i].Tag == value.Vector && v.stack[i].VectorHead != 0 {
			out = append(out, v.stack[i].VectorHead)
		}
	}
	return out
}

// Run executes the program from address 0 until Stop, returning whatever
// value was left on top of the operand stack by the final top-level form
// (a zero Var if none was), or an error for any runtime fault.
func (v *VM) Run() (value.Var, error) {
	v.ip = 0
	for {
		v.steps++
		if v.steps > maxSteps {
			return value.Var{}, errs.New(errs.General, "program did not terminate within %d steps", maxSteps)
		}
		if v.ip < 0 || v.ip >= len(v.prog.Code) {
			return value.Var{}, errs.New(errs.General, "instruction pointer %d out of range", v.ip)
		}
		b := v.prog.Code[v.ip]
		if b.Op == bytecode.Stop {
			break
		}
		done, result, err := v.step(b)
		if err != nil {
			return value.Var{}, err
		}
		if done {
			return result, nil
		}
		if v.Heap != nil && v.Heap.NeedsSweep() {
			v.Heap.Sweep(v.roots())
		}
	}
	if v.sp > MemoryGlobalSize {
		return v.stack[v.sp-1], nil
	}
	return value.Var{}, nil
}

// step executes one instruction and advances ip (every op except
// Jump/JumpIf/Call/Call0/Ret0/Ret/CallF/CallF0, which set ip themselves).
// done/result are only used by a future debugger hook; step never signals
// done itself today.
func (v *VM) step(b bytecode.Bytecode) (bool, value.Var, error) {
	switch b.Op {
	case bytecode.Load:
		return false, value.Var{}, v.execLoad(b)
	case bytecode.Store:
		return false, value.Var{}, v.execStore(b)
	case bytecode.Squish2:
		return false, value.Var{}, v.execSquish2()
	case bytecode.Add, bytecode.Sub, bytecode.Mul, bytecode.Div, bytecode.Mod:
		return false, value.Var{}, v.execArith(b.Op)
	case bytecode.Neg:
		return false, value.Var{}, v.execNeg()
	case bytecode.Sqrt:
		return false, value.Var{}, v.execSqrt()
	case bytecode.Eq, bytecode.Gt, bytecode.Lt:
		return false, value.Var{}, v.execCompare(b.Op)
	case bytecode.And, bytecode.Or:
		return false, value.Var{}, v.execLogic(b.Op)
	case bytecode.Not:
		return false, value.Var{}, v.execNot()
	case bytecode.Jump:
		v.ip = int(b.Arg1.I)
		return false, value.Var{}, nil
	case bytecode.JumpIf:
		return false, value.Var{}, v.execJumpIf(b)
	case bytecode.Call:
		return false, value.Var{}, v.execCall(b)
	case bytecode.Call0:
		return false, value.Var{}, v.execCall0(b)
	case bytecode.Ret0:
		return false, value.Var{}, v.execRet0()
	case bytecode.Ret:
		return false, value.Var{}, v.execRet()
	case bytecode.CallF:
		return false, value.Var{}, v.execCallF()
	case bytecode.CallF0:
		return false, value.Var{}, v.execCallF0()
	case bytecode.StoreF:
		return false, value.Var{}, v.execStoreF(b)
	case bytecode.Native:
		return false, value.Var{}, v.execNative(b)
	case bytecode.Append:
		return false, value.Var{}, v.execAppend()
	case bytecode.Pile:
		return false, value.Var{}, v.execPile(b)
	case bytecode.PlaceholderStore:
		return false, value.Var{}, errs.New(errs.UnableToCorrectFnAddr, "unpatched PlaceholderStore reached at ip %d", v.ip)
	case bytecode.MtxLoad:
		v.Matrix.Load()
		v.ip++
		return false, value.Var{}, nil
	case bytecode.MtxStore:
		if err := v.Matrix.Store(); err != nil {
			return false, value.Var{}, errs.Wrap(errs.General, err, "matrix stack store")
		}
		v.ip++
		return false, value.Var{}, nil
	case bytecode.Nop:
		v.ip++
		return false, value.Var{}, nil
	default:
		return false, value.Var{}, errs.New(errs.RuntimeUnknownOpcode, "unhandled opcode %s at ip %d", b.Op, v.ip)
	}
}
