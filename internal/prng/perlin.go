package prng

// Perlin is a classic 3D Perlin noise generator with a permutation table
// built from a seeded State, so noise fields reproduce deterministically
// across runs given the same seed.
type Perlin struct {
	perm [512]int
}

// NewPerlin builds a Perlin generator by Fisher-Yates shuffling the
// identity permutation [0, 255] with s, then duplicating it to avoid an
// overflow check on every lookup.
func NewPerlin(s *State) *Perlin {
	var base [256]int
	for i := range base {
		base[i] = i
	}
	for i := 255; i > 0; i-- {
		j := int(s.NextU64() % uint64(i+1))
		base[i], base[j] = base[j], base[i]
	}
	p := &Perlin{}
	for i := 0; i < 512; i++ {
		p.perm[i] = base[i%256]
	}
	return p
}

func fade(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float32) float32 { return a + t*(b-a) }

func grad(hash int, x, y, z float32) float32 {
	h := hash & 15
	var u float32
	if h < 8 {
		u = x
	} else {
		u = y
	}
	var v float32
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	var ru, rv float32
	if h&1 == 0 {
		ru = u
	} else {
		ru = -u
	}
	if h&2 == 0 {
		rv = v
	} else {
		rv = -v
	}
	return ru + rv
}

// Noise3 evaluates 3D Perlin noise at (x, y, z), returning a value in
// approximately [-1, 1].
func (p *Perlin) Noise3(x, y, z float32) float32 {
	floorX, floorY, floorZ := floorInt(x), floorInt(y), floorInt(z)
	xi := floorX & 255
	yi := floorY & 255
	zi := floorZ & 255

	xf := x - float32(floorX)
	yf := y - float32(floorY)
	zf := z - float32(floorZ)

	u := fade(xf)
	v := fade(yf)
	w := fade(zf)

	a := p.perm[xi] + yi
	aa := p.perm[a] + zi
	ab := p.perm[a+1] + zi
	b := p.perm[xi+1] + yi
	ba := p.perm[b] + zi
	bb := p.perm[b+1] + zi

	x1 := lerp(u, grad(p.perm[aa], xf, yf, zf), grad(p.perm[ba], xf-1, yf, zf))
	x2 := lerp(u, grad(p.perm[ab], xf, yf-1, zf), grad(p.perm[bb], xf-1, yf-1, zf))
	y1 := lerp(v, x1, x2)

	x3 := lerp(u, grad(p.perm[aa+1], xf, yf, zf-1), grad(p.perm[ba+1], xf-1, yf, zf-1))
	x4 := lerp(u, grad(p.perm[ab+1], xf, yf-1, zf-1), grad(p.perm[bb+1], xf-1, yf-1, zf-1))
	y2 := lerp(v, x3, x4)

	return lerp(w, y1, y2)
}

func floorInt(f float32) int {
	i := int(f)
	if f < 0 && float32(i) != f {
		i--
	}
	return i
}
