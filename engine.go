// Package sen is the root API of the Sen generative-art language: a
// small Lisp-like DSL whose scripts compile to bytecode, run on a stack
// machine, and carry "alterable" nodes that a trait/genotype engine can
// independently regenerate and mutate to explore parametric variation
// (spec §9).
//
// Global mutable state in the original engine becomes a long-lived
// Engine value here, constructed once by NewEngine. Every other entry
// point in this package takes that Engine explicitly; nothing in this
// module reaches for a package-level variable.
package sen

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/compiler"
	"github.com/indy/sen/internal/genotype"
	"github.com/indy/sen/internal/heap"
	"github.com/indy/sen/internal/mtx"
	"github.com/indy/sen/internal/natives"
	"github.com/indy/sen/internal/prng"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/trait"
	"github.com/indy/sen/internal/unparse"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

// Engine bundles everything a script needs in order to be parsed,
// compiled, run and evolved: the shared word table, the fixed keyword
// and preamble tables every Compiler is built from, the native function
// registry, an Unparser bound to the same word table, and a Logger every
// entry point below reports failures through before returning them.
type Engine struct {
	Options EngineOptions
	Log     *logrus.Logger

	Lut      *symtab.WordLut
	Keywords *compiler.Keywords
	Preamble *compiler.Preamble
	Natives  map[symtab.Sym]vm.NativeFunc
	Unparser *unparse.Unparser
}

// NewEngine constructs the word table, keyword and preamble tables and
// native registry opts calls for, the way systems_startup would: each
// step feeds the word table the previous one built, and any failure
// (most plausibly an oversized preamble or a word-table overflow) is
// returned immediately with nothing partially usable handed back.
func NewEngine(opts EngineOptions) (*Engine, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})

	lut := symtab.New(opts.MaxWord, opts.MaxKeyword, opts.MaxNative)
	kw := compiler.RegisterKeywords(lut)

	pre, err := compiler.BuildPreamble(lut)
	if err != nil {
		return nil, logAndWrap(log, err, "build preamble")
	}

	regs, err := natives.Build(lut)
	if err != nil {
		return nil, logAndWrap(log, err, "build native registry")
	}

	return &Engine{
		Options:  opts,
		Log:      log,
		Lut:      lut,
		Keywords: kw,
		Preamble: pre,
		Natives:  regs,
		Unparser: unparse.New(lut),
	}, nil
}

// logAndWrap logs err with the caller's file/line (spec §7: "errors are
// logged with file/line") and returns it wrapped with op as context.
// Every call site below calls logAndWrap directly from the Engine method
// that received err, so runtime.Caller(1) names that method's line.
func logAndWrap(log *logrus.Logger, err error, op string) error {
	if err == nil {
		return nil
	}
	_, file, line, ok := runtime.Caller(1)
	fields := logrus.Fields{"op": op}
	if ok {
		fields["file"] = file
		fields["line"] = line
	}
	if k, kok := errs.KindOf(err); kok {
		fields["kind"] = k.String()
	}
	log.WithFields(fields).Error(err)
	return errors.Wrap(err, op)
}

// Parse lexes and parses src into an AST, binding any newly-seen words
// to e's word table.
func (e *Engine) Parse(src string) (*ast.Node, error) {
	astHead, err := ast.NewParser(e.Lut).Parse(src)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "parse")
	}
	return astHead, nil
}

// Compile lowers astHead into a Program with every alterable node
// compiled from its own literal value. A fresh Compiler backs every
// call, since a Compiler is single-use.
func (e *Engine) Compile(astHead *ast.Node) (*bytecode.Program, error) {
	prog, err := compiler.New(e.Lut, e.Keywords, e.Preamble).Compile(astHead)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "compile")
	}
	return prog, nil
}

// CompileWithGenotype lowers astHead into a Program, substituting genes
// (in AST order) for every alterable node's literal value.
func (e *Engine) CompileWithGenotype(astHead *ast.Node, genes []value.Var) (*bytecode.Program, error) {
	prog, err := compiler.New(e.Lut, e.Keywords, e.Preamble).CompileWithGenotype(astHead, genes)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "compile with genotype")
	}
	return prog, nil
}

// newScratch returns a fresh heap.Pool and mtx.Stack sized per e.Options,
// the pair every Run/trait-discovery/genotype-building call needs its
// own copy of so independent runs never share mutable VM state.
func (e *Engine) newScratch() (*heap.Pool, *mtx.Stack) {
	return heap.NewPool(e.Options.HeapSize, e.Options.HeapGCThreshold), mtx.NewStack()
}

// Run executes prog on a freshly constructed VM seeded from seed, and
// returns its final result.
func (e *Engine) Run(prog *bytecode.Program, seed uint64) (value.Var, error) {
	heapPool, matrix := e.newScratch()
	machine := vm.New(prog, heapPool, matrix, prng.NewState(seed), e.Natives)
	result, err := machine.Run()
	if err != nil {
		return value.Var{}, logAndWrap(e.Log, err, "run")
	}
	return result, nil
}

// DiscoverTraits walks astHead, compiling one trait program per
// alterable node found (spec §4.5), ready for genotype building against
// the returned List.
func (e *Engine) DiscoverTraits(astHead *ast.Node, seed uint64) (*trait.List, error) {
	env := trait.NewEnv(e.Lut, e.Keywords, e.Preamble, e.Natives)
	env.HeapSize = e.Options.HeapSize
	env.HeapGCThreshold = e.Options.HeapGCThreshold
	list, err := env.Discover(astHead, seed)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "discover traits")
	}
	return list, nil
}

// InitialGeneration builds a first generation of populationSize genotypes:
// the first is built from every trait's initial value, and each of the
// others by running every trait's program once, continuing one PRNG
// stream per genotype across all its traits (spec §4.6).
func (e *Engine) InitialGeneration(list *trait.List, populationSize int, seed uint64) (*genotype.GenotypeList, error) {
	heapPool, matrix := e.newScratch()
	gl, err := genotype.InitialGeneration(list, populationSize, seed, heapPool, matrix, e.Natives)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "build initial generation")
	}
	return gl, nil
}

// NextGeneration breeds populationSize genotypes from parents: every
// parent survives verbatim, and the remaining slots are filled by
// crossing over two distinct parents and mutating the result at
// mutationRate.
func (e *Engine) NextGeneration(list *trait.List, parents *genotype.GenotypeList, populationSize int, seed uint64, mutationRate float32) (*genotype.GenotypeList, error) {
	heapPool, matrix := e.newScratch()
	gl, err := genotype.NextGeneration(list, parents, populationSize, seed, mutationRate, heapPool, matrix, e.Natives)
	if err != nil {
		return nil, logAndWrap(e.Log, err, "build next generation")
	}
	return gl, nil
}

// Unparse reconstructs astHead's source text, substituting genes for
// every alterable node (spec §4.7), preserving whitespace and comments
// exactly as the original parse saw them.
func (e *Engine) Unparse(astHead *ast.Node, genes []value.Var) (string, error) {
	src, err := e.Unparser.Unparse(astHead, genes)
	if err != nil {
		return "", logAndWrap(e.Log, err, "unparse")
	}
	return src, nil
}

// SimplifiedUnparse reconstructs astHead's source text like Unparse, but
// discards the alterable-node wrapper syntax, emitting only the gene
// values themselves.
func (e *Engine) SimplifiedUnparse(astHead *ast.Node, genes []value.Var) (string, error) {
	src, err := e.Unparser.SimplifiedUnparse(astHead, genes)
	if err != nil {
		return "", logAndWrap(e.Log, err, "simplified unparse")
	}
	return src, nil
}
