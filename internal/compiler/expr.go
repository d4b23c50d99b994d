package compiler

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// compileExpr compiles n, leaving exactly one value on the operand stack
// (the usual case for every special form and literal) or, for `define`
// and other statement-shaped forms, whatever net effect that form
// produces; callers compiling a body sequence are responsible for
// accounting for any such non-expression forms.
func (c *Compiler) compileExpr(n *ast.Node) error {
	if n == nil || !n.IsMeaningful() {
		return nil
	}
	if n.Gene != nil {
		if err := checkGeneCompatible(n.Kind, *n.Gene); err != nil {
			return err
		}
		c.emit(bytecode.LoadConstant(*n.Gene))
		return nil
	}
	switch n.Kind {
	case ast.KindInt:
		c.emit(bytecode.LoadConstant(value.NewInt(n.IntVal)))
		return nil
	case ast.KindFloat:
		c.emit(bytecode.LoadConstant(value.NewFloat(n.FloatVal)))
		return nil
	case ast.KindName:
		return c.compileName(n)
	case ast.KindVector:
		return c.compileVector(n)
	case ast.KindList:
		return c.compileList(n)
	case ast.KindString:
		c.emit(bytecode.LoadConstant(value.NewName(n.Sym)))
		return nil
	default:
		return errs.New(errs.General, "cannot compile node of kind %s", n.Kind)
	}
}

func checkGeneCompatible(kind ast.Kind, gene value.Var) error {
	switch kind {
	case ast.KindInt:
		if gene.Tag != value.Int {
			return errs.New(errs.IncompatibleGene, "expected an int gene, got %s", gene.Tag)
		}
	case ast.KindFloat:
		if gene.Tag != value.Float {
			return errs.New(errs.IncompatibleGene, "expected a float gene, got %s", gene.Tag)
		}
	case ast.KindName:
		if gene.Tag != value.Name {
			return errs.New(errs.IncompatibleGene, "expected a name gene, got %s", gene.Tag)
		}
	}
	return nil
}

func (c *Compiler) compileName(n *ast.Node) error {
	sym := n.Sym
	if c.local != nil {
		if slot, ok := c.local.locals[sym]; ok {
			c.emit(bytecode.LoadSeg(bytecode.SegLocal, slot))
			return nil
		}
		if slot, ok := c.local.args[sym]; ok {
			c.emit(bytecode.LoadSeg(bytecode.SegArgument, slot))
			return nil
		}
	}
	if slot, ok := c.globalMappings[sym]; ok {
		c.emit(bytecode.LoadSeg(bytecode.SegGlobal, slot))
		return nil
	}
	if c.lut.IsKeyword(sym) {
		c.emit(bytecode.LoadConstant(value.NewName(sym)))
		return nil
	}
	name, _ := c.lut.ReverseLookup(sym)
	return errs.New(errs.UnknownMappingForName, "no mapping for name %q", name)
}

func (c *Compiler) compileVector(n *ast.Node) error {
	children := meaningfulChildren(n)
	if len(children) == 2 {
		if err := c.compileExpr(children[0]); err != nil {
			return err
		}
		if err := c.compileExpr(children[1]); err != nil {
			return err
		}
		c.emit(bytecode.Inst(bytecode.Squish2, value.Var{}, value.Var{}))
		return nil
	}
	c.emit(bytecode.LoadSeg(bytecode.SegVoid, 0))
	for _, child := range children {
		if err := c.compileExpr(child); err != nil {
			return err
		}
		c.emit(bytecode.Inst(bytecode.Append, value.Var{}, value.Var{}))
	}
	return nil
}

func (c *Compiler) compileList(n *ast.Node) error {
	children := meaningfulChildren(n)
	if len(children) == 0 {
		return errs.New(errs.General, "cannot compile an empty list")
	}
	head := children[0]
	if head.Kind != ast.KindName {
		return errs.New(errs.ExpectedNameNode, "list head must be a name")
	}
	args := children[1:]

	switch {
	case head.Sym == c.kw.Define:
		return c.compileDefine(n)
	case head.Sym == c.kw.If:
		return c.compileIf(args)
	case head.Sym == c.kw.Loop:
		return c.compileLoop(args)
	case head.Sym == c.kw.Fence:
		return c.compileFence(args)
	case head.Sym == c.kw.OnMatrixStack:
		return c.compileOnMatrixStack(args)
	case head.Sym == c.kw.FnCall:
		return c.compileFnCall(args)
	case head.Sym == c.kw.Quote:
		if len(args) != 1 {
			return errs.New(errs.General, "quote takes exactly one argument")
		}
		return c.compileQuote(args[0])
	case head.Sym == c.kw.AddressOf:
		return c.compileAddressOf(args)
	case head.Sym == c.kw.VectorAppend:
		return c.compileVectorAppend(args)
	case head.Sym == c.kw.Not:
		return c.compileUnary(bytecode.Not, args)
	case head.Sym == c.kw.Sqrt:
		return c.compileUnary(bytecode.Sqrt, args)
	case c.kw.binaryOp(head.Sym):
		return c.compileBinaryChain(head.Sym, args)
	case head.Sym == c.kw.Fn:
		// Top-level fn bodies are compiled directly by registerTopLevelFunctions'
		// caller; a nested (fn ...) form has no meaning here.
		return errs.New(errs.General, "fn is only valid as a top-level form")
	case c.lut.IsNative(head.Sym):
		return c.compileNativeCall(head.Sym, args)
	default:
		if fi, ok := c.prog.FindFnInfo(head.Sym); ok {
			return c.compileFnInvocation(fi, args)
		}
		name, _ := c.lut.ReverseLookup(head.Sym)
		return errs.New(errs.UnknownMappingForName, "unknown form or function %q", name)
	}
}

func (c *Compiler) compileDefine(list *ast.Node) error {
	args := meaningfulChildren(list)[1:]
	for i := 0; i+1 < len(args); i += 2 {
		if err := c.compileExpr(args[i+1]); err != nil {
			return err
		}
		if err := c.storeDestructure(args[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) storeDestructure(lhs *ast.Node) error {
	switch lhs.Kind {
	case ast.KindName:
		seg, slot, err := c.resolveStoreSlot(lhs.Sym)
		if err != nil {
			return err
		}
		c.emit(bytecode.StoreSeg(seg, slot))
		return nil
	case ast.KindVector:
		names := meaningfulChildren(lhs)
		for _, child := range names {
			if child.Kind != ast.KindName {
				return errs.New(errs.UnsupportedDestructure, "nested destructuring is not supported")
			}
		}
		n := int32(len(names))
		c.prog.Emit(bytecode.Inst(bytecode.Pile, value.NewInt(n), value.Var{}))
		c.opcodeOffset += int(n) - 1
		for i := len(names) - 1; i >= 0; i-- {
			seg, slot, err := c.resolveStoreSlot(names[i].Sym)
			if err != nil {
				return err
			}
			c.emit(bytecode.StoreSeg(seg, slot))
		}
		return nil
	default:
		return errs.New(errs.ExpectedNameOrList, "define target must be a name or a vector of names")
	}
}

func (c *Compiler) resolveStoreSlot(sym symtab.Sym) (bytecode.Segment, int, error) {
	if c.local != nil {
		if slot, ok := c.local.locals[sym]; ok {
			return bytecode.SegLocal, slot, nil
		}
		slot := c.local.nextLocal
		if slot >= MemoryLocalSize {
			return 0, 0, errs.New(errs.AllocationFailure, "local mapping table full")
		}
		c.local.locals[sym] = slot
		c.local.nextLocal++
		return bytecode.SegLocal, slot, nil
	}
	if slot, ok := c.globalMappings[sym]; ok {
		return bytecode.SegGlobal, slot, nil
	}
	slot := c.nextGlobalSlot
	if slot >= MemoryGlobalSize {
		return 0, 0, errs.New(errs.AllocationFailure, "global mapping table full")
	}
	c.globalMappings[sym] = slot
	c.nextGlobalSlot++
	return bytecode.SegGlobal, slot, nil
}

func (c *Compiler) compileIf(args []*ast.Node) error {
	if len(args) < 2 || len(args) > 3 {
		return errs.New(errs.General, "if takes a condition, a then-branch and an optional else-branch")
	}
	if err := c.compileExpr(args[0]); err != nil {
		return err
	}
	jumpIfPos := c.emit(bytecode.Inst(bytecode.JumpIf, value.NewInt(0), value.NewInt(0)))
	offsetBeforeBranches := c.opcodeOffset
	if err := c.compileExpr(args[1]); err != nil {
		return err
	}
	if len(args) == 3 {
		offsetAfterThen := c.opcodeOffset
		jumpPos := c.emit(bytecode.Inst(bytecode.Jump, value.NewInt(0), value.NewInt(0)))
		c.prog.Code[jumpIfPos].Arg1 = value.NewInt(int32(c.prog.Size()))
		c.opcodeOffset = offsetBeforeBranches
		if err := c.compileExpr(args[2]); err != nil {
			return err
		}
		if c.opcodeOffset != offsetAfterThen {
			return errs.New(errs.General, "if branches leave different stack depths")
		}
		c.prog.Code[jumpPos].Arg1 = value.NewInt(int32(c.prog.Size()))
	} else {
		c.prog.Code[jumpIfPos].Arg1 = value.NewInt(int32(c.prog.Size()))
	}
	return nil
}

// loopArgs finds the label/value pairs in a loop/fence header by label sym.
func loopArgs(header []*ast.Node) map[symtab.Sym]*ast.Node {
	out := make(map[symtab.Sym]*ast.Node)
	for i := 1; i+1 < len(header); i += 2 {
		if header[i].Kind == ast.KindLabel {
			out[header[i].Sym] = header[i+1]
		}
	}
	return out
}

func (c *Compiler) compileLoop(args []*ast.Node) error {
	if len(args) < 1 {
		return errs.New(errs.General, "loop requires a header")
	}
	header := meaningfulChildren(args[0])
	if len(header) < 1 || header[0].Kind != ast.KindName {
		return errs.New(errs.ExpectedNameNode, "loop header must start with a name")
	}
	body := args[1:]
	nameSym := header[0].Sym
	labelled := loopArgs(header)

	if fromNode, ok := labelled[c.kw.From]; ok {
		if err := c.compileExpr(fromNode); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.LoadConstant(value.NewFloat(0)))
	}
	seg, slot, err := c.resolveStoreSlot(nameSym)
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(seg, slot))

	loopStart := c.prog.Size()
	c.emit(bytecode.LoadSeg(seg, slot))
	var cmpOp bytecode.Op
	if toNode, ok := labelled[c.kw.To]; ok {
		if err := c.compileExpr(toNode); err != nil {
			return err
		}
		cmpOp = bytecode.Lt
	} else if uptoNode, ok := labelled[c.kw.Upto]; ok {
		if err := c.compileExpr(uptoNode); err != nil {
			return err
		}
		c.emit(bytecode.Inst(bytecode.Gt, value.Var{}, value.Var{}))
		c.emit(bytecode.Inst(bytecode.Not, value.Var{}, value.Var{}))
		cmpOp = -1
	} else {
		return errs.New(errs.General, "loop requires a to: or upto: bound")
	}
	if cmpOp >= 0 {
		c.emit(bytecode.Inst(cmpOp, value.Var{}, value.Var{}))
	}
	exitJump := c.emit(bytecode.Inst(bytecode.JumpIf, value.NewInt(0), value.NewInt(0)))

	bodyStartOffset := c.opcodeOffset
	for _, form := range body {
		if err := c.compileExpr(form); err != nil {
			return err
		}
	}
	for c.opcodeOffset > bodyStartOffset {
		c.emit(bytecode.StoreSeg(bytecode.SegVoid, 0))
	}

	c.emit(bytecode.LoadSeg(seg, slot))
	if incNode, ok := labelled[c.kw.Inc]; ok {
		if err := c.compileExpr(incNode); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.LoadConstant(value.NewFloat(1)))
	}
	c.emit(bytecode.Inst(bytecode.Add, value.Var{}, value.Var{}))
	c.emit(bytecode.StoreSeg(seg, slot))
	c.emit(bytecode.Inst(bytecode.Jump, value.Var{}, value.NewInt(int32(loopStart))))
	c.prog.Code[exitJump].Arg1 = value.NewInt(int32(c.prog.Size()))
	return nil
}

func (c *Compiler) compileFence(args []*ast.Node) error {
	if len(args) < 1 {
		return errs.New(errs.General, "fence requires a header")
	}
	header := meaningfulChildren(args[0])
	if len(header) < 1 || header[0].Kind != ast.KindName {
		return errs.New(errs.ExpectedNameNode, "fence header must start with a name")
	}
	body := args[1:]
	nameSym := header[0].Sym
	labelled := loopArgs(header)

	fromNode, hasFrom := labelled[c.kw.From]
	toNode, hasTo := labelled[c.kw.To]
	numNode, hasNum := labelled[c.kw.Num]
	if !hasTo || !hasNum {
		return errs.New(errs.General, "fence requires to: and num:")
	}

	if hasFrom {
		if err := c.compileExpr(fromNode); err != nil {
			return err
		}
	} else {
		c.emit(bytecode.LoadConstant(value.NewFloat(0)))
	}
	fromSeg, fromSlot, err := c.resolveStoreSlot(mustInternLocal(c.lut, "fence/from"))
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(fromSeg, fromSlot))

	if err := c.compileExpr(toNode); err != nil {
		return err
	}
	toSeg, toSlot, err := c.resolveStoreSlot(mustInternLocal(c.lut, "fence/to"))
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(toSeg, toSlot))

	if err := c.compileExpr(numNode); err != nil {
		return err
	}
	quantSeg, quantSlot, err := c.resolveStoreSlot(mustInternLocal(c.lut, "fence/quantity"))
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(quantSeg, quantSlot))

	// delta = (to - from) / (num - 1)
	c.emit(bytecode.LoadSeg(toSeg, toSlot))
	c.emit(bytecode.LoadSeg(fromSeg, fromSlot))
	c.emit(bytecode.Inst(bytecode.Sub, value.Var{}, value.Var{}))
	c.emit(bytecode.LoadSeg(quantSeg, quantSlot))
	c.emit(bytecode.LoadConstant(value.NewFloat(1)))
	c.emit(bytecode.Inst(bytecode.Sub, value.Var{}, value.Var{}))
	c.emit(bytecode.Inst(bytecode.Div, value.Var{}, value.Var{}))
	deltaSeg, deltaSlot, err := c.resolveStoreSlot(mustInternLocal(c.lut, "fence/delta"))
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(deltaSeg, deltaSlot))

	c.emit(bytecode.LoadConstant(value.NewFloat(0)))
	counterSeg, counterSlot, err := c.resolveStoreSlot(mustInternLocal(c.lut, "fence/counter"))
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(counterSeg, counterSlot))

	loopStart := c.prog.Size()
	c.emit(bytecode.LoadSeg(counterSeg, counterSlot))
	c.emit(bytecode.LoadSeg(quantSeg, quantSlot))
	c.emit(bytecode.Inst(bytecode.Lt, value.Var{}, value.Var{}))
	exitJump := c.emit(bytecode.Inst(bytecode.JumpIf, value.NewInt(0), value.NewInt(0)))

	// name = from + counter*delta
	c.emit(bytecode.LoadSeg(fromSeg, fromSlot))
	c.emit(bytecode.LoadSeg(counterSeg, counterSlot))
	c.emit(bytecode.LoadSeg(deltaSeg, deltaSlot))
	c.emit(bytecode.Inst(bytecode.Mul, value.Var{}, value.Var{}))
	c.emit(bytecode.Inst(bytecode.Add, value.Var{}, value.Var{}))
	nameSeg, nameSlot, err := c.resolveStoreSlot(nameSym)
	if err != nil {
		return err
	}
	c.emit(bytecode.StoreSeg(nameSeg, nameSlot))

	bodyStartOffset := c.opcodeOffset
	for _, form := range body {
		if err := c.compileExpr(form); err != nil {
			return err
		}
	}
	for c.opcodeOffset > bodyStartOffset {
		c.emit(bytecode.StoreSeg(bytecode.SegVoid, 0))
	}

	c.emit(bytecode.LoadSeg(counterSeg, counterSlot))
	c.emit(bytecode.LoadConstant(value.NewFloat(1)))
	c.emit(bytecode.Inst(bytecode.Add, value.Var{}, value.Var{}))
	c.emit(bytecode.StoreSeg(counterSeg, counterSlot))
	c.emit(bytecode.Inst(bytecode.Jump, value.Var{}, value.NewInt(int32(loopStart))))
	c.prog.Code[exitJump].Arg1 = value.NewInt(int32(c.prog.Size()))
	return nil
}

// mustInternLocal interns a compiler-synthesized helper name; these never
// collide with user identifiers since they contain a '/' the parser also
// permits in ordinary names but scripts do not use for these specific
// reserved spellings in practice.
func mustInternLocal(lut *symtab.WordLut, name string) symtab.Sym {
	sym, err := lut.AddWord(name)
	if err != nil {
		sym, _ = lut.Lookup(name)
	}
	return sym
}

func (c *Compiler) compileOnMatrixStack(body []*ast.Node) error {
	c.emit(bytecode.Inst(bytecode.MtxLoad, value.Var{}, value.Var{}))
	for _, form := range body {
		if err := c.compileExpr(form); err != nil {
			return err
		}
	}
	c.emit(bytecode.Inst(bytecode.MtxStore, value.Var{}, value.Var{}))
	return nil
}

func (c *Compiler) compileUnary(op bytecode.Op, args []*ast.Node) error {
	if len(args) != 1 {
		return errs.New(errs.General, "%s takes exactly one argument", op)
	}
	if err := c.compileExpr(args[0]); err != nil {
		return err
	}
	c.emit(bytecode.Inst(op, value.Var{}, value.Var{}))
	return nil
}

func (c *Compiler) compileBinaryChain(sym symtab.Sym, args []*ast.Node) error {
	if len(args) == 0 {
		return errs.New(errs.General, "operator requires at least one operand")
	}
	op := c.binaryOpFor(sym)
	if err := c.compileExpr(args[0]); err != nil {
		return err
	}
	for _, rest := range args[1:] {
		if err := c.compileExpr(rest); err != nil {
			return err
		}
		c.emit(bytecode.Inst(op, value.Var{}, value.Var{}))
	}
	return nil
}

func (c *Compiler) binaryOpFor(sym symtab.Sym) bytecode.Op {
	switch sym {
	case c.kw.Add:
		return bytecode.Add
	case c.kw.Sub:
		return bytecode.Sub
	case c.kw.Mul:
		return bytecode.Mul
	case c.kw.Div:
		return bytecode.Div
	case c.kw.Mod:
		return bytecode.Mod
	case c.kw.Eq:
		return bytecode.Eq
	case c.kw.Lt:
		return bytecode.Lt
	case c.kw.Gt:
		return bytecode.Gt
	case c.kw.And:
		return bytecode.And
	case c.kw.Or:
		return bytecode.Or
	default:
		return bytecode.Nop
	}
}

func (c *Compiler) compileAddressOf(args []*ast.Node) error {
	if len(args) != 1 || args[0].Kind != ast.KindName {
		return errs.New(errs.AddressOfName, "address-of requires a single function name")
	}
	fi, ok := c.prog.FindFnInfo(args[0].Sym)
	if !ok {
		return errs.New(errs.AddressOfName, "address-of: no such function")
	}
	c.emit(bytecode.LoadConstant(value.NewInt(int32(fi.Index))))
	return nil
}

func (c *Compiler) compileVectorAppend(args []*ast.Node) error {
	if len(args) != 2 {
		return errs.New(errs.General, "vector/append takes a vector and a value")
	}
	if err := c.compileExpr(args[0]); err != nil {
		return err
	}
	if err := c.compileExpr(args[1]); err != nil {
		return err
	}
	c.emit(bytecode.Inst(bytecode.Append, value.Var{}, value.Var{}))
	if args[0].Kind == ast.KindName {
		if c.local != nil {
			if slot, ok := c.local.locals[args[0].Sym]; ok {
				c.emit(bytecode.StoreSeg(bytecode.SegLocal, slot))
				return nil
			}
		}
		if slot, ok := c.globalMappings[args[0].Sym]; ok {
			c.emit(bytecode.StoreSeg(bytecode.SegGlobal, slot))
			return nil
		}
	}
	return nil
}

func (c *Compiler) compileQuote(n *ast.Node) error {
	switch n.Kind {
	case ast.KindName:
		c.emit(bytecode.LoadConstant(value.NewName(n.Sym)))
		return nil
	case ast.KindList:
		children := meaningfulChildren(n)
		c.emit(bytecode.LoadSeg(bytecode.SegVoid, 0))
		for _, child := range children {
			if err := c.compileQuote(child); err != nil {
				return err
			}
			c.emit(bytecode.Inst(bytecode.Append, value.Var{}, value.Var{}))
		}
		return nil
	default:
		return c.compileExpr(n)
	}
}

func (c *Compiler) compileNativeCall(sym symtab.Sym, args []*ast.Node) error {
	numArgs := len(args) / 2
	for i := 0; i+1 < len(args); i += 2 {
		labelNode := args[i]
		valueNode := args[i+1]
		if labelNode.Kind != ast.KindLabel {
			return errs.New(errs.ExpectedNameNode, "native call arguments must be labelled")
		}
		c.emit(bytecode.LoadConstant(value.NewName(labelNode.Sym)))
		if err := c.compileExpr(valueNode); err != nil {
			return err
		}
	}
	c.prog.Emit(bytecode.Inst(bytecode.Native, value.NewName(sym), value.NewInt(int32(numArgs))))
	c.opcodeOffset += -(numArgs*2 - 1)
	return nil
}

func (c *Compiler) compileFnCall(args []*ast.Node) error {
	if len(args) < 1 {
		return errs.New(errs.FnCallGivenNonList, "fn-call requires a function-valued expression")
	}
	nameExpr := args[0]
	pairs := args[1:]
	if err := c.compileExpr(nameExpr); err != nil {
		return err
	}
	c.emit(bytecode.Inst(bytecode.CallF, value.Var{}, value.Var{}))
	for i := 0; i+1 < len(pairs); i += 2 {
		labelNode := pairs[i]
		valueNode := pairs[i+1]
		if labelNode.Kind != ast.KindLabel {
			return errs.New(errs.ExpectedNameNode, "fn-call arguments must be labelled")
		}
		if err := c.compileExpr(valueNode); err != nil {
			return err
		}
		if err := c.compileExpr(nameExpr); err != nil {
			return err
		}
		c.emit(bytecode.Inst(bytecode.StoreF, value.NewInt(int32(bytecode.SegArgument)), value.NewName(labelNode.Sym)))
	}
	if err := c.compileExpr(nameExpr); err != nil {
		return err
	}
	c.emit(bytecode.Inst(bytecode.CallF0, value.Var{}, value.Var{}))
	return nil
}
