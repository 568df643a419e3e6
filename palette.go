package fractal

import (
	"fmt"
	"image/color"
	"strings"
)

// Palette names an escape-time color mapping for export and halfblock
// rendering. Newton kinds ignore the palette and use per-kind root tables.
type Palette int

const (
	Grayscale Palette = iota
	Fire
	Ocean
	Forest
)

// Palettes returns every palette in display order.
func Palettes() []Palette {
	return []Palette{Grayscale, Fire, Ocean, Forest}
}

// String returns the canonical lowercase palette name.
func (p Palette) String() string {
	switch p {
	case Grayscale:
		return "grayscale"
	case Fire:
		return "fire"
	case Ocean:
		return "ocean"
	case Forest:
		return "forest"
	default:
		return fmt.Sprintf("Palette(%d)", int(p))
	}
}

func (p Palette) valid() bool {
	return p >= Grayscale && p <= Forest
}

// ParsePalette resolves a palette from its canonical name.
func ParsePalette(s string) (Palette, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Palettes() {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown palette %q", s)
}

// Per-channel multipliers applied to the gamma-corrected iteration ratio.
// The dominant channel overdrives and clamps at 255 so highlights saturate
// before the supporting channels catch up.
var paletteMul = [...][3]float64{
	Grayscale: {255, 255, 255},
	Fire:      {382, 204, 51},
	Ocean:     {51, 204, 382},
	Forest:    {102, 382, 51},
}

// newtonColors maps 1-based root indices to basin colors per Newton kind.
// Index 0 (no convergence) is always black.
var newtonColors = map[Kind][]color.RGBA{
	Newton: {
		{R: 231, G: 76, B: 60, A: 255},
		{R: 46, G: 204, B: 113, A: 255},
		{R: 52, G: 152, B: 219, A: 255},
	},
	Newton2: {
		{R: 230, G: 126, B: 34, A: 255},
		{R: 155, G: 89, B: 182, A: 255},
		{R: 26, G: 188, B: 156, A: 255},
	},
	Newton3: {
		{R: 231, G: 76, B: 60, A: 255},
		{R: 46, G: 204, B: 113, A: 255},
		{R: 52, G: 152, B: 219, A: 255},
		{R: 241, G: 196, B: 15, A: 255},
		{R: 155, G: 89, B: 182, A: 255},
	},
}

// QuantizeColor maps a classification to an export pixel color. Interior
// and non-converging points are black. maxIter is the escape budget the
// classification was produced with; zero selects the default. Palettes
// outside the known set behave as Grayscale.
func QuantizeColor(c Classification, kind Kind, pal Palette, maxIter int) color.RGBA {
	if kind.IsNewton() {
		return rootColor(kind, c.Value)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if c.Value >= maxIter {
		return color.RGBA{A: 255}
	}
	if !pal.valid() {
		pal = Grayscale
	}
	t := gammaCorrect(float64(c.Value) / float64(maxIter))
	m := paletteMul[pal]
	return color.RGBA{
		R: clampChannel(t * m[0]),
		G: clampChannel(t * m[1]),
		B: clampChannel(t * m[2]),
		A: 255,
	}
}

func clampChannel(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v)
}

// rootColor returns the basin color for a 1-based root index, black for
// index 0 or anything out of table range.
func rootColor(kind Kind, index int) color.RGBA {
	table := newtonColors[kind]
	if index <= 0 || index > len(table) {
		return color.RGBA{A: 255}
	}
	return table[index-1]
}

// rootPair returns the live-view color pair for a basin: the basin color
// over the same hue at quarter brightness.
func rootPair(kind Kind, index int) (fg, bg color.RGBA) {
	fg = rootColor(kind, index)
	bg = color.RGBA{R: fg.R / 4, G: fg.G / 4, B: fg.B / 4, A: 255}
	return fg, bg
}
