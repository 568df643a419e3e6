package fractal

import "strings"

// Region is a named point of interest with a suggested field of view.
type Region struct {
	Name    string
	Kind    Kind
	CenterX float64
	CenterY float64
	PlaneW  float64 // field of view width in plane units
	JuliaX  float64
	JuliaY  float64
}

// View converts the region into a viewport for a raster of the given width.
// The scale is chosen so the region's field of view spans rasterW cells.
func (r Region) View(rasterW int) Viewport {
	if rasterW <= 0 {
		rasterW = 80
	}
	return Viewport{
		CenterX: r.CenterX,
		CenterY: r.CenterY,
		Scale:   r.PlaneW / float64(rasterW),
		JuliaX:  r.JuliaX,
		JuliaY:  r.JuliaY,
	}
}

var regions = []Region{
	{Name: "seahorse-valley", Kind: Mandelbrot, CenterX: -0.75, CenterY: 0.1, PlaneW: 0.1},
	{Name: "elephant-valley", Kind: Mandelbrot, CenterX: 0.275, CenterY: 0.005, PlaneW: 0.02},
	{Name: "triple-spiral", Kind: Mandelbrot, CenterX: -0.7465, CenterY: 0.0965, PlaneW: 0.003},
	{Name: "spiral-arm", Kind: Mandelbrot, CenterX: -0.74275, CenterY: 0.13175, PlaneW: 0.0015},
	{Name: "minibrot", Kind: Mandelbrot, CenterX: -1.7549, CenterY: 0, PlaneW: 0.02},
	{Name: "the-ship", Kind: BurningShip, CenterX: -1.755, CenterY: -0.035, PlaneW: 0.15},
	{Name: "dendrite", Kind: Julia, PlaneW: 3.6, JuliaX: 0, JuliaY: 1},
	{Name: "douady-rabbit", Kind: Julia, PlaneW: 3.2, JuliaX: -0.123, JuliaY: 0.745},
	{Name: "siegel-disk", Kind: Julia, PlaneW: 3.2, JuliaX: -0.390541, JuliaY: -0.586788},
	{Name: "san-marco", Kind: Julia, PlaneW: 3.2, JuliaX: -0.75, JuliaY: 0},
	{Name: "quintic-basins", Kind: Newton3, PlaneW: 3.2},
}

// Regions returns every named region.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionsFor returns the regions belonging to one fractal kind.
func RegionsFor(kind Kind) []Region {
	var out []Region
	for _, r := range regions {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// FindRegion looks a region up by name, case-insensitively.
func FindRegion(name string) (Region, bool) {
	for _, r := range regions {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Region{}, false
}
