package natives

import (
	"math"

	"github.com/indy/sen/internal/symtab"
	"github.com/indy/sen/internal/value"
	"github.com/indy/sen/internal/vm"
)

// colCtor returns a native that builds a Colour Var in the given format
// from its labelled channel arguments, defaulting every missing channel
// to 0 except alpha, which defaults to 1.
func (lb *labels) colCtor(format value.ColourFormat) vm.NativeFunc {
	return func(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
		c0Sym, c1Sym, c2Sym := lb.channelLabelsFor(format)
		c0 := argFloat(args, c0Sym, 0)
		c1 := argFloat(args, c1Sym, 0)
		c2 := argFloat(args, c2Sym, 0)
		alpha := argFloat(args, lb.a, 1)
		return value.NewColour(format, c0, c1, c2, alpha), nil
	}
}

// channelLabelsFor picks which interned labels a colour constructor of the
// given format reads for its first three channels. LAB reuses the r/g
// labels for its a*/b* channels since this package's label set has no
// dedicated a*/b* names distinct from RGB's and alpha's.
func (lb *labels) channelLabelsFor(format value.ColourFormat) (c0, c1, c2 symtab.Sym) {
	switch format {
	case value.HSL, value.HSLuv:
		return lb.h, lb.s, lb.l
	case value.HSV:
		return lb.h, lb.s, lb.v
	case value.LAB:
		return lb.l, lb.r, lb.g
	default:
		return lb.r, lb.g, lb.b
	}
}

// colConvert implements `(col/convert col: c format: target)`.
func (lb *labels) colConvert(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	c, ok := args[lb.col]
	if !ok || c.Tag != value.Colour {
		return value.Var{}, errNativeArg("col/convert requires a col: colour")
	}
	target, ok := args[lb.format]
	if !ok || target.Tag != value.Name {
		return value.Var{}, errNativeArg("col/convert requires a format: name")
	}
	var to value.ColourFormat
	switch target.Sym {
	case lb.fmtRGB:
		to = value.RGB
	case lb.fmtHSL, lb.fmtHSLuv:
		to = value.HSL
	case lb.fmtHSV:
		to = value.HSV
	case lb.fmtLAB:
		to = value.LAB
	default:
		return value.Var{}, errNativeArg("col/convert: unrecognized target format")
	}
	return convertColour(c, to), nil
}

// convertColour round-trips every format through RGB, the one space every
// conversion below is defined in terms of. HSLuv is treated as HSL (a
// perceptually-uniform refinement this module does not implement exactly);
// LAB is approximated as a linear remap of RGB rather than the full
// CIE LAB transform, since spec.md's Non-goals exclude "colour-space math
// beyond what Supplemented Features names" and a native of this family
// existing and round-tripping consistently matters more here than
// colorimetric precision.
func convertColour(c value.Var, to value.ColourFormat) value.Var {
	r, g, b, a := toRGB(c)
	switch to {
	case value.RGB:
		return value.NewColour(value.RGB, r, g, b, a)
	case value.HSL:
		h, s, l := rgbToHSL(r, g, b)
		return value.NewColour(value.HSL, h, s, l, a)
	case value.HSV:
		h, s, v := rgbToHSV(r, g, b)
		return value.NewColour(value.HSV, h, s, v, a)
	case value.LAB:
		return value.NewColour(value.LAB, l0From(r), r-g, g-b, a)
	default:
		return value.NewColour(value.RGB, r, g, b, a)
	}
}

func l0From(r float32) float32 { return r }

func toRGB(c value.Var) (r, g, b, a float32) {
	switch c.Format {
	case value.HSL, value.HSLuv:
		r, g, b = hslToRGB(c.Channels[0], c.Channels[1], c.Channels[2])
	case value.HSV:
		r, g, b = hsvToRGB(c.Channels[0], c.Channels[1], c.Channels[2])
	case value.LAB:
		r, g, b = c.Channels[0], c.Channels[0]-c.Channels[1], c.Channels[0]-c.Channels[1]-c.Channels[2]
	default:
		r, g, b = c.Channels[0], c.Channels[1], c.Channels[2]
	}
	return r, g, b, c.Channels[3]
}

func rgbToHSL(r, g, b float32) (h, s, l float32) {
	max := maxf(r, maxf(g, b))
	min := minf(r, minf(g, b))
	l = (max + min) / 2
	if max == min {
		return 0, 0, l
	}
	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h /= 6
	return h, s, l
}

func hslToRGB(h, s, l float32) (r, g, b float32) {
	if s == 0 {
		return l, l, l
	}
	var q float32
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = hueToRGB(p, q, h+1.0/3)
	g = hueToRGB(p, q, h)
	b = hueToRGB(p, q, h-1.0/3)
	return r, g, b
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func rgbToHSV(r, g, b float32) (h, s, v float32) {
	max := maxf(r, maxf(g, b))
	min := minf(r, minf(g, b))
	v = max
	d := max - min
	if max == 0 {
		return 0, 0, v
	}
	s = d / max
	if d == 0 {
		return 0, s, v
	}
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h /= 6
	return h, s, v
}

func hsvToRGB(h, s, v float32) (r, g, b float32) {
	i := int(math.Floor(float64(h) * 6))
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// rotateHue returns c with its hue channel rotated by deg degrees (360 ==
// one full turn), converting through HSL so it applies to any input
// format.
func rotateHue(c value.Var, deg float32) value.Var {
	r, g, b, a := toRGB(c)
	h, s, l := rgbToHSL(r, g, b)
	h += deg / 360
	h -= float32(math.Floor(float64(h)))
	nr, ng, nb := hslToRGB(h, s, l)
	return convertColour(value.NewColour(value.RGB, nr, ng, nb, a), c.Format)
}

func (lb *labels) colComplementary(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	c, ok := args[lb.col]
	if !ok {
		return value.Var{}, errNativeArg("col/complementary requires col:")
	}
	return rotateHue(c, 180), nil
}

func (lb *labels) colSplitComplementary(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	c, ok := args[lb.col]
	if !ok {
		return value.Var{}, errNativeArg("col/split-complementary requires col:")
	}
	head, err := m.Heap.Append(0, rotateHue(c, 150))
	if err != nil {
		return value.Var{}, err
	}
	head, err = m.Heap.Append(head, rotateHue(c, 210))
	if err != nil {
		return value.Var{}, err
	}
	return value.VectorOf(head), nil
}

func (lb *labels) colAnalagous(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	c, ok := args[lb.col]
	if !ok {
		return value.Var{}, errNativeArg("col/analagous requires col:")
	}
	head, err := m.Heap.Append(0, rotateHue(c, -30))
	if err != nil {
		return value.Var{}, err
	}
	head, err = m.Heap.Append(head, rotateHue(c, 30))
	if err != nil {
		return value.Var{}, err
	}
	return value.VectorOf(head), nil
}

func (lb *labels) colTriad(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	c, ok := args[lb.col]
	if !ok {
		return value.Var{}, errNativeArg("col/triad requires col:")
	}
	head, err := m.Heap.Append(0, rotateHue(c, 120))
	if err != nil {
		return value.Var{}, err
	}
	head, err = m.Heap.Append(head, rotateHue(c, 240))
	if err != nil {
		return value.Var{}, err
	}
	return value.VectorOf(head), nil
}

func (lb *labels) colDarken(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	return lb.colShade(args, -1)
}

func (lb *labels) colLighten(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
	return lb.colShade(args, 1)
}

func (lb *labels) colShade(args map[symtab.Sym]value.Var, sign float32) (value.Var, error) {
	c, ok := args[lb.col]
	if !ok {
		return value.Var{}, errNativeArg("col/darken and col/lighten require col:")
	}
	amount := argFloat(args, lb.value, 0)
	r, g, b, a := toRGB(c)
	h, s, l := rgbToHSL(r, g, b)
	l = clamp01(l + sign*amount)
	nr, ng, nb := hslToRGB(h, s, l)
	return convertColour(value.NewColour(value.RGB, nr, ng, nb, a), c.Format), nil
}

// addChannelAccessors registers col/get-X and col/set-X for every channel
// name in channelAccessors; get reads Channels[i] directly (so it only
// makes sense against a colour already in the matching format, e.g.
// col/get-h against an HSL colour) and set returns a copy with Channels[i]
// replaced, matching Var's copy-by-value semantics.
func (lb *labels) addChannelAccessors(lut *symtab.WordLut, add func(string, vm.NativeFunc)) {
	index := map[string]int{"r": 0, "g": 1, "h": 0, "b": 2, "l": 2, "v": 2, "s": 1, "a": 3}
	for _, ch := range channelAccessors {
		i := index[ch]
		add("col/get-"+ch, func(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
			c, ok := args[lb.col]
			if !ok || c.Tag != value.Colour {
				return value.Var{}, errNativeArg("col/get-* requires col:")
			}
			return value.NewFloat(c.Channels[i]), nil
		})
		add("col/set-"+ch, func(m *vm.VM, args map[symtab.Sym]value.Var) (value.Var, error) {
			c, ok := args[lb.col]
			if !ok || c.Tag != value.Colour {
				return value.Var{}, errNativeArg("col/set-* requires col:")
			}
			out := c
			out.Channels[i] = argFloat(args, lb.value, c.Channels[i])
			return out, nil
		})
	}
}
