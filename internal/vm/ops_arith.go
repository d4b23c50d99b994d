package vm

import (
	"math"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/bytecode"
	"github.com/indy/sen/internal/value"
)

// execArith implements Add/Sub/Mul/Div/Mod: both operands are coerced to
// float32 regardless of their literal tag (an Int plus an Int still
// produces a Float result, per §8 scenario 1) and Div/Mod by zero is a
// RuntimeDivideByZero fault rather than an Inf/NaN result.
func (v *VM) execArith(op bytecode.Op) error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	lhs, rhs := a.AsFloat32(), b.AsFloat32()
	var out float32
	switch op {
	case bytecode.Add:
		out = lhs + rhs
	case bytecode.Sub:
		out = lhs - rhs
	case bytecode.Mul:
		out = lhs * rhs
	case bytecode.Div:
		if rhs == 0 {
			return errs.New(errs.RuntimeDivideByZero, "division by zero")
		}
		out = lhs / rhs
	case bytecode.Mod:
		if rhs == 0 {
			return errs.New(errs.RuntimeDivideByZero, "modulo by zero")
		}
		out = float32(math.Mod(float64(lhs), float64(rhs)))
	}
	v.push(value.NewFloat(out))
	v.ip++
	return nil
}

func (v *VM) execNeg() error {
	a, err := v.pop()
	if err != nil {
		return err
	}
	switch a.Tag {
	case value.Int:
		v.push(value.NewInt(-a.I))
	default:
		v.push(value.NewFloat(-a.AsFloat32()))
	}
	v.ip++
	return nil
}

func (v *VM) execSqrt() error {
	a, err := v.pop()
	if err != nil {
		return err
	}
	v.push(value.NewFloat(float32(math.Sqrt(float64(a.AsFloat32())))))
	v.ip++
	return nil
}

func (v *VM) execCompare(op bytecode.Op) error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case bytecode.Eq:
		result = varsEqual(a, b)
	case bytecode.Lt:
		result = a.AsFloat32() < b.AsFloat32()
	case bytecode.Gt:
		result = a.AsFloat32() > b.AsFloat32()
	}
	v.push(value.NewBool(result))
	v.ip++
	return nil
}

func varsEqual(a, b value.Var) bool {
	switch {
	case a.Tag == value.Name && b.Tag == value.Name:
		return a.Sym == b.Sym
	case isNumeric(a.Tag) && isNumeric(b.Tag):
		return a.AsFloat32() == b.AsFloat32()
	default:
		return a == b
	}
}

func isNumeric(t value.Tag) bool {
	return t == value.Int || t == value.Float || t == value.Bool
}

func (v *VM) execLogic(op bytecode.Op) error {
	b, err := v.pop()
	if err != nil {
		return err
	}
	a, err := v.pop()
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case bytecode.And:
		result = a.Truthy() && b.Truthy()
	case bytecode.Or:
		result = a.Truthy() || b.Truthy()
	}
	v.push(value.NewBool(result))
	v.ip++
	return nil
}

func (v *VM) execNot() error {
	a, err := v.pop()
	if err != nil {
		return err
	}
	v.push(value.NewBool(!a.Truthy()))
	v.ip++
	return nil
}

func (v *VM) execJumpIf(b bytecode.Bytecode) error {
	cond, err := v.pop()
	if err != nil {
		return err
	}
	if !cond.Truthy() {
		v.ip = int(b.Arg1.I)
	} else {
		v.ip++
	}
	return nil
}
