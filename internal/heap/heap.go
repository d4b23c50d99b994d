// Package heap implements the VM's managed heap: a fixed-size pool of
// doubly-linked Var cells used to materialize VAR_VECTOR contents. The pool
// is reset between runs and swept (mark + sweep) when its free-list shrinks
// below a configurable threshold.
package heap

import (
	"github.com/pkg/errors"

	"github.com/indy/sen/internal/value"
)

// Exhausted is returned by Alloc when the pool has no free cells left.
var Exhausted = errors.New("heap: exhausted")

// Cell is one heap-allocated Var, linked into the chain of a Vector Var.
type Cell struct {
	V    value.Var
	Prev int
	Next int
}

// Pool is a fixed-capacity slab of Cells addressed by 1-based index; index
// 0 is the "nil" reference used by an empty Vector Var.
type Pool struct {
	cells       []Cell
	inUse       []bool
	freeHead    int
	freeCount   int
	gcThreshold int
}

// NewPool allocates a pool with size cells, all initially free, and a sweep
// threshold (the original's HEAP_MIN_SIZE): once the free-list length drops
// below gcThreshold, NeedsSweep reports true.
func NewPool(size, gcThreshold int) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		cells:       make([]Cell, size+1),
		inUse:       make([]bool, size+1),
		gcThreshold: gcThreshold,
	}
	p.rebuildFreeList()
	return p
}

func (p *Pool) rebuildFreeList() {
	n := len(p.cells) - 1
	for i := 1; i <= n; i++ {
		p.inUse[i] = false
		if i == n {
			p.cells[i].Next = 0
		} else {
			p.cells[i].Next = i + 1
		}
	}
	p.freeHead = 0
	if n > 0 {
		p.freeHead = 1
	}
	p.freeCount = n
}

// Size returns the pool's total cell capacity.
func (p *Pool) Size() int { return len(p.cells) - 1 }

// AvailSize returns the number of free cells remaining.
func (p *Pool) AvailSize() int { return p.freeCount }

// NeedsSweep reports whether the free-list has shrunk below the configured
// gcThreshold - the VM checks this at safe points between opcodes.
func (p *Pool) NeedsSweep() bool { return p.freeCount < p.gcThreshold }

// Reset returns every cell to the free-list, as required after each run
// (vm_reset): the free-list length must equal the pool size.
func (p *Pool) Reset() { p.rebuildFreeList() }

// Alloc removes and returns one cell from the free-list.
func (p *Pool) Alloc() (int, error) {
	if p.freeHead == 0 {
		return 0, Exhausted
	}
	ref := p.freeHead
	p.freeHead = p.cells[ref].Next
	p.cells[ref] = Cell{}
	p.inUse[ref] = true
	p.freeCount--
	return ref, nil
}

// Free returns a single cell to the free-list. Freeing ref 0 (the nil
// reference) is a no-op.
func (p *Pool) Free(ref int) {
	if ref == 0 {
		return
	}
	p.inUse[ref] = false
	p.cells[ref] = Cell{Next: p.freeHead}
	p.freeHead = ref
	p.freeCount++
}

// FreeChain returns every cell in the chain starting at head to the
// free-list. A Store that overwrites a Vector in a memory segment must call
// this on the old value to avoid leaking cells across one run.
func (p *Pool) FreeChain(head int) {
	for ref := head; ref != 0; {
		next := p.cells[ref].Next
		p.Free(ref)
		ref = next
	}
}

// Get returns the Var stored in cell ref.
func (p *Pool) Get(ref int) value.Var { return p.cells[ref].V }

// Set overwrites the Var stored in cell ref.
func (p *Pool) Set(ref int, v value.Var) { p.cells[ref].V = v }

// Next returns the next cell in ref's chain, or 0 at the end.
func (p *Pool) Next(ref int) int { return p.cells[ref].Next }

// Append allocates a new cell holding elem and links it onto the end of the
// chain starting at head (0 if the vector was empty), returning the
// (possibly new) head reference.
func (p *Pool) Append(head int, elem value.Var) (int, error) {
	ref, err := p.Alloc()
	if err != nil {
		return head, err
	}
	p.cells[ref] = Cell{V: elem}
	if head == 0 {
		return ref, nil
	}
	tail := head
	for p.cells[tail].Next != 0 {
		tail = p.cells[tail].Next
	}
	p.cells[tail].Next = ref
	p.cells[ref].Prev = tail
	return head, nil
}

// Elements materializes the chain starting at head into a slice, in
// forward order.
func (p *Pool) Elements(head int) []value.Var {
	var out []value.Var
	for ref := head; ref != 0; ref = p.cells[ref].Next {
		out = append(out, p.cells[ref].V)
	}
	return out
}

// Len counts the elements in the chain starting at head.
func (p *Pool) Len(head int) int {
	n := 0
	for ref := head; ref != 0; ref = p.cells[ref].Next {
		n++
	}
	return n
}

// FromSlice allocates a fresh chain holding the given elements in order,
// returning its head reference.
func (p *Pool) FromSlice(elems []value.Var) (int, error) {
	head := 0
	for _, e := range elems {
		var err error
		head, err = p.Append(head, e)
		if err != nil {
			return head, err
		}
	}
	return head, nil
}

// Sweep marks every cell reachable from roots (head references found live
// in the VM's stack, globals and frame locals) and returns everything else
// to the free-list.
func (p *Pool) Sweep(roots []int) {
	marked := make([]bool, len(p.cells))
	for _, r := range roots {
		p.markChain(r, marked)
	}
	for i := 1; i < len(p.cells); i++ {
		if p.inUse[i] && !marked[i] {
			p.Free(i)
		}
	}
}

func (p *Pool) markChain(head int, marked []bool) {
	for ref := head; ref != 0 && !marked[ref]; {
		marked[ref] = true
		v := p.cells[ref].V
		if v.Tag == value.Vector && v.VectorHead != 0 {
			p.markChain(v.VectorHead, marked)
		}
		ref = p.cells[ref].Next
	}
}
