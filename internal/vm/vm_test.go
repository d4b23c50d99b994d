package vm

import (
	"testing"

	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/heap"
	"github.com/indy/sen/internal/mtx"
	"github.com/indy/sen/internal/prng"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// harness bundles the pipeline (lut/keywords/preamble/compiler) a test
// script needs, fresh per test so word-table state never leaks between
// cases.
type harness struct {
	lut *symtab.WordLut
	kw  *compiler.Keywords
	pre *compiler.Preamble
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	lut := symtab.New(0, 0, 0)
	kw := compiler.RegisterKeywords(lut)
	pre, err := compiler.BuildPreamble(lut)
	if err != nil {
		t.Fatalf("BuildPreamble: %v", err)
	}
	return &harness{lut: lut, kw: kw, pre: pre}
}

func (h *harness) run(t *testing.T, src string) (*VM, value.Var) {
	t.Helper()
	p := ast.NewParser(h.lut)
	head, err := p.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	c := compiler.New(h.lut, h.kw, h.pre)
	prog, err := c.Compile(head)
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	v := New(prog, heap.NewPool(DefaultHeapSize, DefaultHeapMinSize), mtx.NewStack(), prng.NewState(1), nil)
	result, err := v.Run()
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return v, result
}

// Scenario 1 from spec §8: literal Int operands to + still produce a
// Float result.
func TestArithmeticPromotesToFloat(t *testing.T) {
	h := newHarness(t)
	_, result := h.run(t, "(+ 3 4)")
	if result.Tag != value.Float || result.F != 7.0 {
		t.Fatalf("got %s, want FLOAT(7)", result)
	}
}

// Scenario 2 from spec §8: destructuring define binds each name to its
// positional vector element.
func TestDefineDestructureVector(t *testing.T) {
	h := newHarness(t)
	_, result := h.run(t, "(define [a b] [22 33]) a")
	if result.Tag != value.Int || result.I != 22 {
		t.Fatalf("got %s, want INT(22)", result)
	}
	_, result2 := h.run(t, "(define [a b] [22 33]) b")
	if result2.Tag != value.Int || result2.I != 33 {
		t.Fatalf("got %s, want INT(33)", result2)
	}
}

func TestIfBranchValue(t *testing.T) {
	h := newHarness(t)
	_, result := h.run(t, "(if (< 1 2) 10 20)")
	if result.Tag != value.Int || result.I != 10 {
		t.Fatalf("got %s, want INT(10)", result)
	}
	_, result2 := h.run(t, "(if (> 1 2) 10 20)")
	if result2.Tag != value.Int || result2.I != 20 {
		t.Fatalf("got %s, want INT(20)", result2)
	}
}

func TestLoopAccumulates(t *testing.T) {
	h := newHarness(t)
	_, result := h.run(t, "(define total 0) (loop (i from: 0 to: 5) (define total (+ total i))) total")
	if result.Tag != value.Float || result.F != 10 {
		t.Fatalf("got %s, want FLOAT(10) (0+1+2+3+4)", result)
	}
}

func TestFunctionDefinitionAndInvocation(t *testing.T) {
	h := newHarness(t)
	_, result := h.run(t, "(fn (square n: 0) (* n n)) (square n: 6)")
	if result.Tag != value.Float || result.F != 36 {
		t.Fatalf("got %s, want FLOAT(36)", result)
	}
}

func TestVectorAppendAndLength(t *testing.T) {
	h := newHarness(t)
	v, result := h.run(t, "(define vec []) (vector/append vec 1) (vector/append vec 2) vec")
	if result.Tag != value.Vector {
		t.Fatalf("got %s, want VECTOR", result)
	}
	if got := v.Heap.Len(result.VectorHead); got != 2 {
		t.Fatalf("vector length = %d, want 2", got)
	}
}

func TestOnMatrixStackRestoresTransform(t *testing.T) {
	h := newHarness(t)
	v, _ := h.run(t, "(on-matrix-stack 1)")
	if v.Matrix.Depth() != 1 {
		t.Fatalf("matrix stack depth = %d, want 1 (load/store balanced)", v.Matrix.Depth())
	}
}
