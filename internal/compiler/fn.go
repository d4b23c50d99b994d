package compiler

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/ast"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// compileFunctionDef lowers one top-level (fn (name label: default ...) body...)
// form, per §4.3.2: a default-argument prologue terminated by Ret0, followed
// by the body terminated by Ret. fi must already be registered by
// registerTopLevelFunctions.
func (c *Compiler) compileFunctionDef(list *ast.Node) error {
	children := meaningfulChildren(list)[1:] // skip 'fn'
	if len(children) < 1 || children[0].Kind != ast.KindList {
		return errs.New(errs.ExpectedVectorOrList, "fn requires a signature list")
	}
	sig := meaningfulChildren(children[0])
	if len(sig) < 1 || sig[0].Kind != ast.KindName {
		return errs.New(errs.ExpectedNameNode, "fn signature must start with a name")
	}
	body := children[1:]

	fi, ok := c.prog.FindFnInfo(sig[0].Sym)
	if !ok {
		return errs.New(errs.UnableToFindFnInfo, "fn %q was not pre-registered", mustName(c.lut, sig[0].Sym))
	}

	c.local = &funcScope{
		args:   make(map[symtab.Sym]int),
		locals: make(map[symtab.Sym]int),
		fnInfo: fi,
	}
	fi.ArgAddress = c.prog.Size()

	argPairs := sig[1:]
	var argumentOffsets []symtab.Sym
	i := 0
	for idx := 0; idx+1 < len(argPairs); idx += 2 {
		labelNode := argPairs[idx]
		valueNode := argPairs[idx+1]
		if labelNode.Kind != ast.KindLabel {
			return errs.New(errs.ExpectedNameNode, "fn argument must be labelled")
		}
		slotLabel := i * 2
		slotValue := i*2 + 1
		c.emit(bytecode.LoadConstant(value.NewName(labelNode.Sym)))
		c.emit(bytecode.StoreSeg(bytecode.SegArgument, slotLabel))
		if err := c.compileExpr(valueNode); err != nil {
			return err
		}
		c.emit(bytecode.StoreSeg(bytecode.SegArgument, slotValue))
		c.local.args[labelNode.Sym] = slotValue
		argumentOffsets = append(argumentOffsets, labelNode.Sym)
		i++
		if i > MaxNumArguments {
			return errs.New(errs.General, "function has too many arguments")
		}
	}
	fi.NumArgs = i
	fi.ArgumentOffsets = argumentOffsets
	c.emit(bytecode.Inst(bytecode.Ret0, value.Var{}, value.Var{}))

	fi.BodyAddress = c.prog.Size()
	for _, form := range body {
		if err := c.compileExpr(form); err != nil {
			return err
		}
	}
	c.emit(bytecode.Inst(bytecode.Ret, value.Var{}, value.Var{}))

	c.local = nil
	return nil
}

// compileFnInvocation lowers a call-site `(name label: value ...)` to a
// known top-level function, per §4.3.3. The two/one preceding Load
// Constant placeholders it emits are patched by the fix-up pass once every
// FnInfo's ArgAddress/BodyAddress/NumArgs is final.
func (c *Compiler) compileFnInvocation(fi *bytecode.FnInfo, argPairs []*ast.Node) error {
	c.emit(bytecode.LoadConstant(value.NewInt(666)))
	c.emit(bytecode.LoadConstant(value.NewInt(667)))
	c.emit(bytecode.Inst(bytecode.Call, value.NewInt(int32(fi.Index)), value.NewInt(int32(fi.Index))))

	for idx := 0; idx+1 < len(argPairs); idx += 2 {
		labelNode := argPairs[idx]
		valueNode := argPairs[idx+1]
		if labelNode.Kind != ast.KindLabel {
			return errs.New(errs.ExpectedNameNode, "function call arguments must be labelled")
		}
		if err := c.compileExpr(valueNode); err != nil {
			return err
		}
		c.emit(bytecode.Inst(bytecode.PlaceholderStore, value.NewInt(int32(fi.Index)), value.NewName(labelNode.Sym)))
	}

	c.emit(bytecode.LoadConstant(value.NewInt(668)))
	c.emit(bytecode.Inst(bytecode.Call0, value.NewInt(int32(fi.Index)), value.NewInt(int32(fi.Index))))
	return nil
}

func mustName(lut *symtab.WordLut, sym symtab.Sym) string {
	name, _ := lut.ReverseLookup(sym)
	return name
}
