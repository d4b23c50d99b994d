package compiler

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// funcScope holds the local-variable mapping active while compiling one
// top-level function's body. nil at top level, where names resolve
// against globalMappings instead.
type funcScope struct {
	args      map[symtab.Sym]int
	locals    map[symtab.Sym]int
	nextLocal int
	fnInfo    *bytecode.FnInfo
}

// Compiler lowers one parsed AST into a bytecode.Program. A Compiler value
// is single-use: construct a fresh one (via New) for each Compile call so
// mapping tables never leak between scripts, matching the "reset tables"
// first step of the compile pipeline.
type Compiler struct {
	lut      *symtab.WordLut
	kw       *Keywords
	preamble *Preamble

	prog *bytecode.Program

	globalMappings map[symtab.Sym]int
	nextGlobalSlot int

	local *funcScope

	opcodeOffset int
}

// New returns a Compiler bound to lut/kw/preamble, ready to compile one
// script.
func New(lut *symtab.WordLut, kw *Keywords, preamble *Preamble) *Compiler {
	c := &Compiler{
		lut:            lut,
		kw:             kw,
		preamble:       preamble,
		globalMappings: make(map[symtab.Sym]int, len(preamble.Globals)),
	}
	for sym, slot := range preamble.Globals {
		c.globalMappings[sym] = slot
		if slot >= c.nextGlobalSlot {
			c.nextGlobalSlot = slot + 1
		}
	}
	return c
}

// Compile lowers astHead into a Program with no genotype applied: every
// alterable node compiles using its own literal value, since no gene is
// ever bound to it.
func (c *Compiler) Compile(astHead *ast.Node) (*bytecode.Program, error) {
	return c.compileProgram(astHead, nil)
}

// CompileWithGenotype binds genes to every alterable node in astHead (in
// AST order) before compiling, so altered nodes emit their gene's value
// instead of their literal. An unconsumed gene remainder after the walk
// is a GenesRemainingAfterAssigning error.
func (c *Compiler) CompileWithGenotype(astHead *ast.Node, genes []value.Var) (*bytecode.Program, error) {
	remaining, err := AssignGenes(astHead, genes)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, errs.New(errs.GenesRemainingAfterAssigning, "%d gene(s) left unconsumed after assignment", len(remaining))
	}
	return c.compileProgram(astHead, nil)
}

// CompileTrait compiles generatorAST (an alterable node's parameter_ast)
// as a standalone program, rebinding the gen/initial global to
// initialValue so a `(gen/stray from: gen/initial by: ...)` call inside
// the generator can read the altered node's own literal value.
func (c *Compiler) CompileTrait(generatorAST *ast.Node, initialValue value.Var) (*bytecode.Program, error) {
	return c.compileProgram(generatorAST, &initialValue)
}

func (c *Compiler) compileProgram(astHead *ast.Node, traitInitial *value.Var) (*bytecode.Program, error) {
	c.prog = bytecode.NewProgram(c.lut, MaxTopLevelFunctions)
	c.prog.Code = append(c.prog.Code, c.preamble.Code...)
	c.opcodeOffset = 0
	c.local = nil

	if traitInitial != nil {
		slot, ok := c.globalMappings[c.kw.GenInitial]
		if !ok {
			return nil, errs.New(errs.UnknownMemorySegment, "gen/initial has no reserved global slot")
		}
		c.emit(bytecode.LoadConstant(*traitInitial))
		c.emit(bytecode.StoreSeg(bytecode.SegGlobal, slot))
	}

	if err := c.registerTopLevelFunctions(astHead); err != nil {
		return nil, err
	}
	if err := c.registerTopLevelDefines(astHead); err != nil {
		return nil, err
	}

	jumpPos := c.prog.Emit(bytecode.Inst(bytecode.Jump, value.NewInt(0), value.NewInt(0)))
	for cur := ast.SafeFirst(astHead); cur != nil; cur = ast.SafeNext(cur) {
		if cur.Kind == ast.KindList && c.headIsKeyword(cur, c.kw.Fn) {
			if err := c.compileFunctionDef(cur); err != nil {
				return nil, err
			}
		}
	}
	c.prog.Code[jumpPos].Arg1 = value.NewInt(int32(c.prog.Size()))

	for cur := ast.SafeFirst(astHead); cur != nil; cur = ast.SafeNext(cur) {
		if cur.Kind == ast.KindList && c.headIsKeyword(cur, c.kw.Define) {
			if err := c.compileDefine(cur); err != nil {
				return nil, err
			}
		}
	}

	for cur := ast.SafeFirst(astHead); cur != nil; cur = ast.SafeNext(cur) {
		if cur.Kind == ast.KindList && (c.headIsKeyword(cur, c.kw.Fn) || c.headIsKeyword(cur, c.kw.Define)) {
			continue
		}
		if err := c.compileExpr(cur); err != nil {
			return nil, err
		}
	}

	c.emit(bytecode.Inst(bytecode.Stop, value.Var{}, value.Var{}))

	if err := c.fixup(); err != nil {
		return nil, err
	}
	return c.prog, nil
}

// emit appends b to the program and keeps opcodeOffset in sync with its
// fixed stack delta. Variable-delta ops (Native, Pile) adjust the offset
// themselves after calling emit.
func (c *Compiler) emit(b bytecode.Bytecode) int {
	pos := c.prog.Emit(b)
	c.opcodeOffset += bytecode.StackDelta(b.Op)
	return pos
}

func (c *Compiler) headIsKeyword(list *ast.Node, sym symtab.Sym) bool {
	head := ast.SafeFirstChild(list)
	return head != nil && head.Kind == ast.KindName && head.Sym == sym
}

func (c *Compiler) registerTopLevelFunctions(astHead *ast.Node) error {
	for cur := ast.SafeFirst(astHead); cur != nil; cur = ast.SafeNext(cur) {
		if cur.Kind != ast.KindList || !c.headIsKeyword(cur, c.kw.Fn) {
			continue
		}
		sig := ast.SafeNext(ast.SafeFirstChild(cur))
		if sig == nil || sig.Kind != ast.KindList {
			return errs.New(errs.ExpectedNameOrList, "fn signature must be a list")
		}
		nameNode := ast.SafeFirstChild(sig)
		if nameNode == nil || nameNode.Kind != ast.KindName {
			return errs.New(errs.ExpectedNameNode, "fn signature must start with a name")
		}
		if len(c.prog.FnInfo) >= MaxTopLevelFunctions {
			return errs.New(errs.MaxTopLevelFunctions, "too many top-level functions")
		}
		c.prog.FnInfo = append(c.prog.FnInfo, bytecode.FnInfo{
			Active:  true,
			Index:   len(c.prog.FnInfo),
			NameSym: nameNode.Sym,
		})
	}
	return nil
}

func (c *Compiler) registerTopLevelDefines(astHead *ast.Node) error {
	for cur := ast.SafeFirst(astHead); cur != nil; cur = ast.SafeNext(cur) {
		if cur.Kind != ast.KindList || !c.headIsKeyword(cur, c.kw.Define) {
			continue
		}
		args := meaningfulChildren(cur)[1:] // skip the 'define' head
		for i := 0; i+1 < len(args); i += 2 {
			if err := c.registerDefineTargets(args[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) registerDefineTargets(lhs *ast.Node) error {
	switch lhs.Kind {
	case ast.KindName:
		if _, ok := c.globalMappings[lhs.Sym]; !ok {
			c.globalMappings[lhs.Sym] = c.nextGlobalSlot
			c.nextGlobalSlot++
		}
		return nil
	case ast.KindVector:
		for _, child := range meaningfulChildren(lhs) {
			if child.Kind != ast.KindName {
				return errs.New(errs.UnsupportedDestructure, "nested destructuring is not supported")
			}
			if err := c.registerDefineTargets(child); err != nil {
				return err
			}
		}
		return nil
	default:
		return errs.New(errs.ExpectedNameOrList, "define target must be a name or vector of names")
	}
}
