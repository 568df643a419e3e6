package fractal

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one live-surface glyph with its color pair. Zero-alpha colors
// mean the terminal default.
type Cell struct {
	Rune rune
	FG   color.RGBA
	BG   color.RGBA
}

// CellSurface is a row-major glyph grid produced by the live driver. The
// caller owns the surface and may reuse it between renders.
type CellSurface struct {
	W, H  int
	Cells []Cell
}

// NewCellSurface allocates a w x h surface of default-colored spaces.
func NewCellSurface(w, h int) *CellSurface {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	cells := make([]Cell, w*h)
	for i := range cells {
		cells[i].Rune = ' '
	}
	return &CellSurface{W: w, H: h, Cells: cells}
}

// At returns the cell at (col, row); out-of-range lookups return a blank.
func (s *CellSurface) At(col, row int) Cell {
	if col < 0 || col >= s.W || row < 0 || row >= s.H {
		return Cell{Rune: ' '}
	}
	return s.Cells[row*s.W+col]
}

// Set stores the cell at (col, row); out-of-range writes are ignored.
func (s *CellSurface) Set(col, row int, c Cell) {
	if col < 0 || col >= s.W || row < 0 || row >= s.H {
		return
	}
	s.Cells[row*s.W+col] = c
}

// Row returns the plain glyphs of one row, colors dropped.
func (s *CellSurface) Row(row int) string {
	if row < 0 || row >= s.H {
		return ""
	}
	runes := make([]rune, s.W)
	for col := 0; col < s.W; col++ {
		runes[col] = s.Cells[row*s.W+col].Rune
	}
	return string(runes)
}

// String returns the plain-glyph form, one line per row.
func (s *CellSurface) String() string {
	var b strings.Builder
	b.Grow(s.H * (s.W + 1))
	for row := 0; row < s.H; row++ {
		b.WriteString(s.Row(row))
		if row < s.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ANSI returns the styled form: runs of cells sharing a color pair are
// grouped into single styled segments, so monochrome escape-time surfaces
// carry no escape codes at all.
func (s *CellSurface) ANSI() string {
	var b strings.Builder
	styles := make(map[[2]color.RGBA]lipgloss.Style)
	for row := 0; row < s.H; row++ {
		col := 0
		for col < s.W {
			first := s.At(col, row)
			start := col
			for col < s.W && samePair(s.At(col, row), first) {
				col++
			}
			runes := make([]rune, 0, col-start)
			for i := start; i < col; i++ {
				runes = append(runes, s.At(i, row).Rune)
			}
			seg := string(runes)
			if first.FG.A == 0 && first.BG.A == 0 {
				b.WriteString(seg)
				continue
			}
			key := [2]color.RGBA{first.FG, first.BG}
			style, ok := styles[key]
			if !ok {
				style = lipgloss.NewStyle()
				if first.FG.A != 0 {
					style = style.Foreground(lipgloss.Color(hexColor(first.FG)))
				}
				if first.BG.A != 0 {
					style = style.Background(lipgloss.Color(hexColor(first.BG)))
				}
				styles[key] = style
			}
			b.WriteString(style.Render(seg))
		}
		if row < s.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func samePair(a, b Cell) bool {
	return a.FG == b.FG && a.BG == b.BG
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
