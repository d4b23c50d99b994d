package vm

import (
	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/value"
)

// openFrame reserves numArgs*2 argument slots, a frameHeaderSize header and
// a fixed MemoryLocalSize local region above the current stack top, points
// fp at the new header and leaves sp just past the local region. This is
// shared by Call (static invocation) and CallF (dynamic fn-call): both
// resolve a target FnInfo before entering the argument-default prologue.
func (v *VM) openFrame(argAddress, numArgs, returnIP int) {
	argBase := v.sp
	header := argBase + numArgs*2
	localBase := header + frameHeaderSize
	v.ensure(localBase + MemoryLocalSize)
	for i := argBase; i < header; i++ {
		v.stack[i] = value.Var{}
	}
	v.stack[header+0] = value.NewInt(int32(v.fp))
	v.stack[header+1] = value.NewInt(int32(returnIP))
	v.stack[header+2] = value.NewInt(int32(numArgs))
	for i := localBase; i < localBase+MemoryLocalSize; i++ {
		v.stack[i] = value.Var{}
	}
	v.fp = header
	v.sp = localBase + MemoryLocalSize
	v.ip = argAddress
}

// execCall implements the static Call opcode (§4.3.3/§4.3.4): the two
// preceding Load Constant ops (patched by fixup) pushed arg_address then
// num_args, which Call consumes to open the callee's frame and jump into
// its default-argument prologue.
func (v *VM) execCall(b bytecode.Bytecode) error {
	numArgsVar, err := v.pop()
	if err != nil {
		return err
	}
	argAddrVar, err := v.pop()
	if err != nil {
		return err
	}
	v.openFrame(int(argAddrVar.I), int(numArgsVar.I), v.ip+1)
	return nil
}

// execCall0 implements Call0: it reuses the frame Call already opened (no
// new reservation), overwrites the saved-ip header slot so the eventual
// Ret returns to just after this instruction rather than after Call, and
// jumps into the function body.
func (v *VM) execCall0(b bytecode.Bytecode) error {
	bodyAddrVar, err := v.pop()
	if err != nil {
		return err
	}
	v.stack[v.fp+1] = value.NewInt(int32(v.ip + 1))
	v.ip = int(bodyAddrVar.I)
	return nil
}

// execRet0 ends the default-argument prologue: only ip is restored, since
// the caller still needs fp pointing at this (the callee's) frame while it
// overwrites specific argument slots before the matching Call0.
func (v *VM) execRet0() error {
	v.ip = int(v.stack[v.fp+1].I)
	return nil
}

// execRet ends a function body: it pops the return value, tears the frame
// down to the position it had before the matching Call (sp = fp -
// numArgs*2), restores fp/ip and pushes the return value for the caller.
func (v *VM) execRet() error {
	retVal, err := v.pop()
	if err != nil {
		return err
	}
	numArgs := int(v.stack[v.fp+2].I)
	savedFP := int(v.stack[v.fp+0].I)
	savedIP := int(v.stack[v.fp+1].I)
	v.sp = v.fp - numArgs*2
	v.fp = savedFP
	v.ip = savedIP
	v.push(retVal)
	return nil
}

func (v *VM) lookupFn(index int) (*bytecode.FnInfo, error) {
	fi, ok := v.prog.FnInfoByIndex(index)
	if !ok {
		return nil, errs.New(errs.RuntimeUnknownFnIndex, "no function registered at index %d", index)
	}
	return fi, nil
}

// execCallF implements the dynamic fn-call path's opening call: the
// function-valued expression's index is popped and resolved against the
// program's FnInfo table at runtime, rather than fixed up at compile time.
func (v *VM) execCallF() error {
	idxVar, err := v.pop()
	if err != nil {
		return err
	}
	fi, err := v.lookupFn(int(idxVar.I))
	if err != nil {
		return err
	}
	v.openFrame(fi.ArgAddress, fi.NumArgs, v.ip+1)
	return nil
}

func (v *VM) execCallF0() error {
	idxVar, err := v.pop()
	if err != nil {
		return err
	}
	fi, err := v.lookupFn(int(idxVar.I))
	if err != nil {
		return err
	}
	v.stack[v.fp+1] = value.NewInt(int32(v.ip + 1))
	v.ip = fi.BodyAddress
	return nil
}

// execStoreF implements the dynamic fn-call path's argument override: the
// function index is popped and resolved to find the label's argument
// slot, then the value (pushed before the re-evaluated name expression) is
// popped and stored; an unmatched label discards the value, matching the
// static PlaceholderStore path's MEM_SEG_VOID fallback.
func (v *VM) execStoreF(b bytecode.Bytecode) error {
	idxVar, err := v.pop()
	if err != nil {
		return err
	}
	val, err := v.pop()
	if err != nil {
		return err
	}
	fi, err := v.lookupFn(int(idxVar.I))
	if err != nil {
		return err
	}
	label := b.Arg1.Sym
	for argIdx, sym := range fi.ArgumentOffsets {
		if sym == label {
			slot := v.argSlotBase() + argIdx*2 + 1
			v.ensure(slot + 1)
			v.freeIfVector(v.stack[slot])
			v.stack[slot] = val
			break
		}
	}
	v.ip++
	return nil
}
