package natives

import (
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

// perlin implements `(perlin x: .. y: .. z: ..)`, sampling the VM's
// seeded Perlin field. z defaults to 0 so 2D callers can omit it.
func (lb *labels) perlin(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	x := argFloat(args, lb.x, 0)
	y := argFloat(args, lb.y, 0)
	z := argFloat(args, lb.z, 0)
	return value.NewFloat(m.Perlin.Noise3(x, y, z)), nil
}
