package compiler

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/value"
)

// fixup implements §4.3.4: walk the finalized code patching every Call,
// Call0 and PlaceholderStore with the addresses/slots that only became
// known once every function's body had been compiled.
func (c *Compiler) fixup() error {
	code := c.prog.Code
	for i := range code {
		switch code[i].Op {
		case bytecode.Call:
			fi, ok := c.prog.FnInfoByIndex(int(code[i].Arg0.I))
			if !ok {
				return errs.New(errs.UnableToFindFnInfo, "call fix-up: no FnInfo at index %d", code[i].Arg0.I)
			}
			if i < 2 || code[i-1].Op != bytecode.Load || code[i-2].Op != bytecode.Load {
				return errs.New(errs.UnableToCorrectFnAddr, "call at %d is not preceded by two Load Constant ops", i)
			}
			code[i-2].Arg1 = value.NewInt(int32(fi.ArgAddress))
			code[i-1].Arg1 = value.NewInt(int32(fi.NumArgs))
		case bytecode.Call0:
			fi, ok := c.prog.FnInfoByIndex(int(code[i].Arg0.I))
			if !ok {
				return errs.New(errs.UnableToFindFnInfo, "call0 fix-up: no FnInfo at index %d", code[i].Arg0.I)
			}
			if i < 1 || code[i-1].Op != bytecode.Load {
				return errs.New(errs.UnableToCorrectFnAddr, "call0 at %d is not preceded by a Load Constant op", i)
			}
			code[i-1].Arg1 = value.NewInt(int32(fi.BodyAddress))
		case bytecode.PlaceholderStore:
			fi, ok := c.prog.FnInfoByIndex(int(code[i].Arg0.I))
			if !ok {
				return errs.New(errs.UnableToFindFnInfo, "placeholder-store fix-up: no FnInfo at index %d", code[i].Arg0.I)
			}
			label := code[i].Arg1.Sym
			slot, found := -1, false
			for argIdx, sym := range fi.ArgumentOffsets {
				if sym == label {
					slot = argIdx*2 + 1
					found = true
					break
				}
			}
			if found {
				code[i] = bytecode.StoreSeg(bytecode.SegArgument, slot)
			} else {
				code[i] = bytecode.StoreSeg(bytecode.SegVoid, 0)
			}
		}
	}
	return nil
}
