package vm

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
)

// execNative implements the native-call ABI (§6): Arg0 carries the native's
// interned Sym, Arg1 the label/value pair count pushed immediately before
// this instruction (label first, then value, per pair).
func (v *VM) execNative(b bytecode.Bytecode) error {
	numArgs := int(b.Arg1.I)
	args := make(map[symtab.Sym]value.Var, numArgs)
	for i := 0; i < numArgs; i++ {
		val, err := v.pop()
		if err != nil {
			return err
		}
		label, err := v.pop()
		if err != nil {
			return err
		}
		args[label.Sym] = val
	}
	fn, ok := v.Natives[b.Arg0.Sym]
	if !ok {
		return errs.New(errs.RuntimeNativeNotFound, "no native registered for this call")
	}
	result, err := fn(v, args)
	if err != nil {
		return err
	}
	v.push(result)
	v.ip++
	return nil
}
