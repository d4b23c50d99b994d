package natives

import (
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

func argFloat(args map[symtab.Sym]value.Var, sym symtab.Sym, def float32) float32 {
	if v, ok := args[sym]; ok {
		return v.AsFloat32()
	}
	return def
}

// genInt implements `(gen/int min: .. max: ..)`: a uniformly distributed
// Int in [min, max] inclusive, drawn from the VM's seeded PRNG so the
// genotype engine's "same seed, same genotype" property (§8) holds.
func (lb *labels) genInt(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	min := int32(argFloat(args, lb.min, 0))
	max := int32(argFloat(args, lb.max, 1))
	return value.NewInt(m.PRNG.I32Range(min, max+1)), nil
}

// genScalar implements `(gen/scalar min: .. max: ..)`.
func (lb *labels) genScalar(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	min := argFloat(args, lb.min, 0)
	max := argFloat(args, lb.max, 1)
	return value.NewFloat(m.PRNG.F32Range(min, max)), nil
}

// gen2D implements `(gen/2d min: .. max: ..)`: both channels drawn
// independently from the same range.
func (lb *labels) gen2D(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	min := argFloat(args, lb.min, 0)
	max := argFloat(args, lb.max, 1)
	return value.NewPair2D(m.PRNG.F32Range(min, max), m.PRNG.F32Range(min, max)), nil
}

// genSelect implements `(gen/select from: a-vector)`: picks one element of
// the vector uniformly at random.
func (lb *labels) genSelect(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	from, ok := args[lb.from]
	if !ok || from.Tag != value.Vector {
		return value.Var{}, errNativeArg("gen/select requires a from: vector")
	}
	elems := m.Heap.Elements(from.VectorHead)
	if len(elems) == 0 {
		return value.EmptyVector(), nil
	}
	idx := m.PRNG.I32Range(0, int32(len(elems)))
	return elems[idx], nil
}

// genCol implements `(gen/col)`: a uniformly random opaque RGB colour.
func (lb *labels) genCol(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	return value.NewColour(value.RGB, m.PRNG.F32(), m.PRNG.F32(), m.PRNG.F32(), 1), nil
}

// genStray implements `(gen/stray from: x by: variance)`: a Float varying
// around x, per the PRNG's F32Around helper.
func (lb *labels) genStray(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	from := argFloat(args, lb.from, 0)
	by := argFloat(args, lb.by, 0)
	return value.NewFloat(m.PRNG.F32Around(from, by)), nil
}

// genStrayInt implements `(gen/stray-int from: x by: variance)`.
func (lb *labels) genStrayInt(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	from := int32(argFloat(args, lb.from, 0))
	by := int32(argFloat(args, lb.by, 0))
	if by <= 0 {
		return value.NewInt(from), nil
	}
	return value.NewInt(from + m.PRNG.I32Range(-by, by+1)), nil
}

// genStray2D implements `(gen/stray-2d from: [x y] by: variance)`: each
// channel strays independently around the matching input channel.
func (lb *labels) genStray2D(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	from := args[lb.from]
	by := argFloat(args, lb.by, 0)
	return value.NewPair2D(
		m.PRNG.F32Around(from.X(), by),
		m.PRNG.F32Around(from.Y(), by),
	), nil
}

// genStray3D implements `(gen/stray-3d from: col by: variance)`, straying
// the first three channels of a Colour-shaped Var (the fourth, alpha, is
// carried through unchanged).
func (lb *labels) genStray3D(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	from := args[lb.from]
	by := argFloat(args, lb.by, 0)
	return value.NewColour(from.Format,
		m.PRNG.F32Around(from.Channels[0], by),
		m.PRNG.F32Around(from.Channels[1], by),
		m.PRNG.F32Around(from.Channels[2], by),
		from.Channels[3],
	), nil
}

// genStray4D implements `(gen/stray-4d from: col by: variance)`, straying
// every channel including alpha.
func (lb *labels) genStray4D(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	from := args[lb.from]
	by := argFloat(args, lb.by, 0)
	return value.NewColour(from.Format,
		m.PRNG.F32Around(from.Channels[0], by),
		m.PRNG.F32Around(from.Channels[1], by),
		m.PRNG.F32Around(from.Channels[2], by),
		m.PRNG.F32Around(from.Channels[3], by),
	), nil
}
