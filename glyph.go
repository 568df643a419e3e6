package fractal

import "math"

// glyphRamp orders glyphs from sparse to dense. Escape-time cells index it
// by gamma-corrected iteration ratio; the densest glyph marks interior
// points that never escaped.
var glyphRamp = []rune(" .:-=+*#%@")

// newtonGlyph is the constant glyph for root-basin cells; the color pair,
// not the glyph shape, carries which basin a cell belongs to.
const newtonGlyph = '█'

// gammaExp remaps the normalized iteration count to perceptually even
// brightness. Linear indexing visibly over-weights low counts.
const gammaExp = 1 / 2.2

// GlyphRamp returns a copy of the glyph ramp, sparse to dense.
func GlyphRamp() []rune {
	ramp := make([]rune, len(glyphRamp))
	copy(ramp, glyphRamp)
	return ramp
}

// QuantizeGlyph maps a classification to its live-view glyph. maxIter is
// the escape budget the classification was produced with; zero selects the
// default.
func QuantizeGlyph(c Classification, kind Kind, maxIter int) rune {
	if kind.IsNewton() {
		return newtonGlyph
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if c.Value >= maxIter {
		return glyphRamp[len(glyphRamp)-1]
	}
	t := gammaCorrect(float64(c.Value) / float64(maxIter))
	return glyphRamp[int(t*float64(len(glyphRamp)-1))]
}

func gammaCorrect(t float64) float64 {
	return math.Pow(t, gammaExp)
}
