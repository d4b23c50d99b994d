package natives

import (
	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

// labels interns every label/argument name a native in this package reads,
// once per WordLut, so call-site dispatch can key a plain map[Sym]Var
// instead of re-parsing strings per call.
type labels struct {
	min, max               symtab.Sym
	from, by               symtab.Sym
	seed                   symtab.Sym
	col, value             symtab.Sym
	format                 symtab.Sym
	r, g, b, h, s, l, v, a symtab.Sym // v doubles as vector/length's and nth's "v" argument
	n                      symtab.Sym
	x, y, z                symtab.Sym // perlin's coordinate arguments

	// Target-format names recognized by col/convert's format: argument.
	fmtRGB, fmtHSL, fmtHSLuv, fmtHSV, fmtLAB symtab.Sym
}

func internLabels(lut *symtab.WordLut) (*labels, error) {
	names := []string{
		"min", "max", "from", "by", "seed", "col", "value", "format",
		"r", "g", "b", "h", "s", "l", "v", "a", "n",
		"rgb", "hsl", "hsluv", "hsv", "lab",
		"x", "y", "z",
	}
	syms := make([]symtab.Sym, 0, len(names))
	for _, n := range names {
		sym, err := lut.Intern(n)
		if err != nil {
			return nil, err
		}
		syms = append(syms, sym)
	}
	return &labels{
		min: syms[0], max: syms[1], from: syms[2], by: syms[3], seed: syms[4],
		col: syms[5], value: syms[6], format: syms[7],
		r: syms[8], g: syms[9], b: syms[10], h: syms[11], s: syms[12], l: syms[13], v: syms[14], a: syms[15],
		n: syms[16],
		fmtRGB: syms[17], fmtHSL: syms[18], fmtHSLuv: syms[19], fmtHSV: syms[20], fmtLAB: syms[21],
		x: syms[22], y: syms[23], z: syms[24],
	}, nil
}

// Build interns every native's name (via lut.AddNative) and every label it
// reads, and returns the dispatch table an *vm.VM is constructed with.
// Called once during engine startup, alongside RegisterKeywords and
// BuildPreamble.
func Build(lut *symtab.WordLut) (map[symtab.Sym]vm.NativeFunc, error) {
	lb, err := internLabels(lut)
	if err != nil {
		return nil, err
	}
	reg := map[symtab.Sym]vm.NativeFunc{}

	add := func(name string, fn vm.NativeFunc) {
		reg[lut.AddNative(name)] = fn
	}

	add(GenInt, lb.genInt)
	add(GenScalar, lb.genScalar)
	add(Gen2D, lb.gen2D)
	add(GenSelect, lb.genSelect)
	add(GenCol, lb.genCol)
	add(GenStray, lb.genStray)
	add(GenStrayInt, lb.genStrayInt)
	add(GenStray2D, lb.genStray2D)
	add(GenStray3D, lb.genStray3D)
	add(GenStray4D, lb.genStray4D)

	add(ColRGB, lb.colCtor(value.RGB))
	add(ColHSL, lb.colCtor(value.HSL))
	add(ColHSLuv, lb.colCtor(value.HSLuv))
	add(ColHSV, lb.colCtor(value.HSV))
	add(ColLAB, lb.colCtor(value.LAB))
	add(ColConvert, lb.colConvert)
	add(ColComplementary, lb.colComplementary)
	add(ColSplitComplementary, lb.colSplitComplementary)
	add(ColAnalagous, lb.colAnalagous)
	add(ColTriad, lb.colTriad)
	add(ColDarken, lb.colDarken)
	add(ColLighten, lb.colLighten)
	lb.addChannelAccessors(lut, add)

	add(VectorLength, lb.vectorLength)
	add(Nth, lb.nth)
	add(DebugPrint, lb.debugPrint)
	add(Perlin, lb.perlin)

	return reg, nil
}
