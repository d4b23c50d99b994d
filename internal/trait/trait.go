// Package trait implements the trait engine (spec §4.5): discovering
// every alterable node in a parsed script and compiling, per node, a
// standalone trait program whose execution later produces one gene.
package trait

import (
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/heap"
	"github.com/indy/sen/internal/mtx"
	"github.com/indy/sen/internal/prng"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

// Trait is one alterable node's generator: the compiled program that, run
// under a seeded PRNG, produces the gene value substituted back into that
// node at compile time.
type Trait struct {
	ID int
	// WithinVector is true when this trait came from one meaningful child
	// of an alterable vector (one with other than two children — a
	// two-child alterable vector is a single 2D trait instead, matching
	// the compiler's Squish2 shortcut for ordinary vector literals).
	WithinVector bool
	Index        int32
	InitialValue value.Var
	Program      *bytecode.Program
}

// List is the ordered set of traits discovered from one script at one
// parse, plus the seed value the caller associates with it — carried
// through for serialization (spec §4.8) but not consulted by discovery
// itself; genotype building takes its own seed explicitly.
type List struct {
	Traits []Trait
	Seed   uint64
}

// Env bundles the fixed, process-wide state trait discovery needs beyond
// the AST itself: the shared word table, keyword/preamble tables every
// Compiler is constructed from, and the native registry, heap and matrix
// stack sizes used to build the scratch VM that evaluates each alterable
// node's initial value in isolation.
type Env struct {
	Lut      *symtab.WordLut
	Keywords *compiler.Keywords
	Preamble *compiler.Preamble
	Natives  map[symtab.Sym]vm.NativeFunc

	HeapSize        int
	HeapGCThreshold int
}

// NewEnv returns an Env with the engine's default heap sizing (matching
// vm.DefaultHeapSize/DefaultHeapMinSize).
func NewEnv(lut *symtab.WordLut, kw *compiler.Keywords, preamble *compiler.Preamble, natives map[symtab.Sym]vm.NativeFunc) *Env {
	return &Env{
		Lut:             lut,
		Keywords:        kw,
		Preamble:        preamble,
		Natives:         natives,
		HeapSize:        vm.DefaultHeapSize,
		HeapGCThreshold: vm.DefaultHeapMinSize,
	}
}

// Discover walks astHead depth-first, mirroring exactly the traversal
// compiler.AssignGenes performs, so a genotype built from this List's
// traits binds its genes to the same nodes in the same order a later
// compiler.CompileWithGenotype call will visit them.
func (e *Env) Discover(astHead *ast.Node, seed uint64) (*List, error) {
	list := &List{Seed: seed}
	if err := e.discover(astHead, list); err != nil {
		return nil, err
	}
	for i := range list.Traits {
		list.Traits[i].ID = i
	}
	return list, nil
}

func (e *Env) discover(n *ast.Node, list *List) error {
	for cur := n; cur != nil; cur = cur.Next {
		if cur.Alterable {
			if cur.Kind == ast.KindVector && meaningfulCount(cur) != 2 {
				if err := e.discoverVectorChildren(cur, list); err != nil {
					return err
				}
				continue
			}
			t, err := e.buildTrait(false, 0, cur, cur.ParameterAST)
			if err != nil {
				return err
			}
			list.Traits = append(list.Traits, *t)
			continue
		}
		if cur.Kind == ast.KindList || cur.Kind == ast.KindVector {
			if err := e.discover(cur.FirstChild, list); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Env) discoverVectorChildren(vec *ast.Node, list *List) error {
	var idx int32
	for c := vec.FirstChild; c != nil; c = c.Next {
		if !c.IsMeaningful() {
			continue
		}
		t, err := e.buildTrait(true, idx, c, vec.ParameterAST)
		if err != nil {
			return err
		}
		list.Traits = append(list.Traits, *t)
		idx++
	}
	return nil
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

// buildTrait evaluates node's own literal value (its InitialValue) and
// compiles generatorAST against that initial value as a standalone
// program (spec §4.3.6 / §4.5).
func (e *Env) buildTrait(withinVector bool, index int32, node, generatorAST *ast.Node) (*Trait, error) {
	initial, err := e.evalInitial(node)
	if err != nil {
		return nil, err
	}
	prog, err := compiler.New(e.Lut, e.Keywords, e.Preamble).CompileTrait(generatorAST, initial)
	if err != nil {
		return nil, err
	}
	return &Trait{WithinVector: withinVector, Index: index, InitialValue: initial, Program: prog}, nil
}

// evalInitial compiles and runs node alone (not its generator), in
// isolation from the rest of the script, returning whatever value it
// leaves on top of the stack. The scratch VM's PRNG is freshly seeded
// rather than sharing the caller's state: an alterable node's own literal
// value is not meant to depend on the genotype seed that will later drive
// its generator.
func (e *Env) evalInitial(node *ast.Node) (value.Var, error) {
	isolated := *node
	isolated.Next = nil
	isolated.Prev = nil

	prog, err := compiler.New(e.Lut, e.Keywords, e.Preamble).Compile(&isolated)
	if err != nil {
		return value.Var{}, err
	}
	machine := vm.New(prog, heap.NewPool(e.HeapSize, e.HeapGCThreshold), mtx.NewStack(), prng.NewState(1), e.Natives)
	return machine.Run()
}
