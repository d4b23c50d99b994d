package vm

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/value"
)

// argSlotBase returns the stack index of argument slot 0 for the current
// frame: numArgs*2 slots live directly below the frame header at fp.
func (v *VM) argSlotBase() int {
	numArgs := int(v.stack[v.fp+2].I)
	return v.fp - numArgs*2
}

// localSlotBase returns the stack index of local slot 0: the fixed
// MemoryLocalSize region immediately above the frame header.
func (v *VM) localSlotBase() int {
	return v.fp + frameHeaderSize
}

func (v *VM) execLoad(b bytecode.Bytecode) error {
	seg := b.Segment()
	switch seg {
	case bytecode.SegConstant:
		v.push(b.Arg1)
	case bytecode.SegVoid:
		v.push(value.EmptyVector())
	case bytecode.SegGlobal:
		v.push(v.stack[b.Index()])
	case bytecode.SegArgument:
		v.ensure(v.argSlotBase() + b.Index() + 1)
		v.push(v.stack[v.argSlotBase()+b.Index()])
	case bytecode.SegLocal:
		v.ensure(v.localSlotBase() + b.Index() + 1)
		v.push(v.stack[v.localSlotBase()+b.Index()])
	default:
		return errs.New(errs.UnknownMemorySegment, "load: unknown segment %s", seg)
	}
	v.ip++
	return nil
}

func (v *VM) execStore(b bytecode.Bytecode) error {
	val, err := v.pop()
	if err != nil {
		return err
	}
	seg := b.Segment()
	var dst int
	switch seg {
	case bytecode.SegVoid:
		v.ip++
		return nil
	case bytecode.SegGlobal:
		dst = b.Index()
	case bytecode.SegArgument:
		dst = v.argSlotBase() + b.Index()
		v.ensure(dst + 1)
	case bytecode.SegLocal:
		dst = v.localSlotBase() + b.Index()
		v.ensure(dst + 1)
	default:
		return errs.New(errs.UnknownMemorySegment, "store: unknown segment %s", seg)
	}
	v.freeIfVector(v.stack[dst])
	v.stack[dst] = val
	v.ip++
	return nil
}

// freeIfVector reclaims old's heap chain when a memory slot holding a
// Vector is about to be overwritten, so reassigning a loop-local vector
// every iteration never leaks cells.
func (v *VM) freeIfVector(old value.Var) {
	if v.Heap != nil && old.Tag == value.Vector && old.VectorHead != 0 {
		v.Heap.FreeChain(old.VectorHead)
	}
}

func (v *VM) execSquish2() error {
	y, err := v.pop()
	if err != nil {
		return err
	}
	x, err := v.pop()
	if err != nil {
		return err
	}
	v.push(value.NewPair2D(x.AsFloat32(), y.AsFloat32()))
	v.ip++
	return nil
}

func (v *VM) execAppend() error {
	elem, err := v.pop()
	if err != nil {
		return err
	}
	vec, err := v.pop()
	if err != nil {
		return err
	}
	head, aerr := v.Heap.Append(vec.VectorHead, elem)
	if aerr != nil {
		return errs.Wrap(errs.RuntimeHeapExhausted, aerr, "append")
	}
	v.push(value.VectorOf(head))
	v.ip++
	return nil
}

func (v *VM) execPile(b bytecode.Bytecode) error {
	n := int(b.Arg0.I)
	vec, err := v.pop()
	if err != nil {
		return err
	}
	elems := v.Heap.Elements(vec.VectorHead)
	if len(elems) != n {
		return errs.New(errs.RuntimePileMismatch, "pile %d: vector has %d elements", n, len(elems))
	}
	v.Heap.FreeChain(vec.VectorHead)
	for _, e := range elems {
		v.push(e)
	}
	v.ip++
	return nil
}
