package natives

import (
	"github.com/sirupsen/logrus"

	"github.com/indy/sen/errs"
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

func errNativeArg(msg string) error {
	return errs.New(errs.General, "%s", msg)
}

// vectorLength implements `(vector/length v: vec)`.
func (lb *labels) vectorLength(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	vec, ok := args[lb.v]
	if !ok || vec.Tag != value.Vector {
		return value.Var{}, errNativeArg("vector/length requires a v: vector")
	}
	return value.NewInt(int32(m.Heap.Len(vec.VectorHead))), nil
}

// nth implements `(nth v: vec n: index)`: returns the zero-based nth
// element, or an empty vector if the index is out of range.
func (lb *labels) nth(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	vec, ok := args[lb.v]
	if !ok || vec.Tag != value.Vector {
		return value.Var{}, errNativeArg("nth requires a v: vector")
	}
	idx := int(argFloat(args, lb.n, 0))
	elems := m.Heap.Elements(vec.VectorHead)
	if idx < 0 || idx >= len(elems) {
		return value.EmptyVector(), nil
	}
	return elems[idx], nil
}

// debugPrint implements `(debug/print value: v)`: logs v at Info level
// and passes it through unchanged, so it can sit inline in an expression.
func (lb *labels) debugPrint(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	v, ok := args[lb.value]
	if !ok {
		return value.Var{}, nil
	}
	logrus.WithField("native", "debug/print").Info(v.String())
	return v, nil
}

func clamp01(f float32) float32 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
