// Package natives implements the core native function registry (§6, and
// SPEC_FULL.md's "core native registry seeded by the engine itself" —
// the gen/* and col/* families the trait engine exercises directly, plus
// the minimal vector/debug natives original scripts always have
// available, with no host present).
package natives

// Names of every native this package registers.
const (
	GenInt       = "gen/int"
	GenScalar    = "gen/scalar"
	Gen2D        = "gen/2d"
	GenSelect    = "gen/select"
	GenCol       = "gen/col"
	GenStray     = "gen/stray"
	GenStrayInt  = "gen/stray-int"
	GenStray2D   = "gen/stray-2d"
	GenStray3D   = "gen/stray-3d"
	GenStray4D   = "gen/stray-4d"

	ColRGB               = "col/rgb"
	ColHSL               = "col/hsl"
	ColHSLuv             = "col/hsluv"
	ColHSV               = "col/hsv"
	ColLAB               = "col/lab"
	ColConvert           = "col/convert"
	ColComplementary     = "col/complementary"
	ColSplitComplementary = "col/split-complementary"
	ColAnalagous         = "col/analagous"
	ColTriad             = "col/triad"
	ColDarken            = "col/darken"
	ColLighten           = "col/lighten"

	VectorLength = "vector/length"
	Nth          = "nth"
	DebugPrint   = "debug/print"
	Perlin       = "perlin"
)

var channelAccessors = []string{"r", "g", "b", "h", "s", "l", "v", "a"}
