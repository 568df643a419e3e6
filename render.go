package fractal

import (
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// Render configures a single render pass with a fluent API.
//
//	cells, err := fractal.New(fractal.Mandelbrot).Size(120, 40).Cells()
//	img, err := fractal.New(fractal.Julia).Size(1920, 1080).Palette(fractal.Fire).Image()
type Render struct {
	kind        Kind
	view        Viewport
	width       int
	height      int
	aspect      float64
	palette     Palette
	maxIter     int
	newtonIter  int
	workers     int
	supersample int
	liveW       int
	liveH       int
	onProgress  func(done, total int)
}

// New starts configuring a render of the given kind, seeded with the
// kind's default viewport.
func New(kind Kind) *Render {
	return &Render{
		kind:    kind,
		view:    kind.DefaultViewport(),
		aspect:  DefaultAspect,
		palette: Grayscale,
	}
}

// View sets the viewport to render.
func (r *Render) View(v Viewport) *Render {
	r.view = v
	return r
}

// Size sets the raster dimensions: character cells for Cells, pixels for
// Image.
func (r *Render) Size(w, h int) *Render {
	r.width = w
	r.height = h
	return r
}

// Aspect sets the cell aspect ratio (plane height of one cell over its
// width). Must stay within [MinAspect, MaxAspect].
func (r *Render) Aspect(a float64) *Render {
	r.aspect = a
	return r
}

// Palette sets the color mapping used by Image; Newton kinds ignore it.
func (r *Render) Palette(p Palette) *Render {
	r.palette = p
	return r
}

// MaxIter overrides the escape-time iteration budget.
func (r *Render) MaxIter(n int) *Render {
	r.maxIter = n
	return r
}

// NewtonIter overrides the Newton iteration budget.
func (r *Render) NewtonIter(n int) *Render {
	r.newtonIter = n
	return r
}

// Workers sets the parallel worker count. Zero or less means NumCPU.
func (r *Render) Workers(n int) *Render {
	r.workers = n
	return r
}

// Supersample renders Image at an integer multiple of the target size and
// downscales, for smoother exports. Valid factors are 1 through 4.
func (r *Render) Supersample(factor int) *Render {
	r.supersample = factor
	return r
}

// LiveSize supplies the live raster dimensions an export should match the
// field of view of. Without it the export raster is its own reference.
func (r *Render) LiveSize(w, h int) *Render {
	r.liveW = w
	r.liveH = h
	return r
}

// OnProgress registers a callback invoked after each finished row. The
// callback runs on worker goroutines and must be safe for concurrent use.
func (r *Render) OnProgress(fn func(done, total int)) *Render {
	r.onProgress = fn
	return r
}

func (r *Render) validate() error {
	if !r.kind.valid() {
		return fmt.Errorf("unknown fractal kind %d", int(r.kind))
	}
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("raster size %dx%d is not positive", r.width, r.height)
	}
	if r.view.Scale <= 0 {
		return fmt.Errorf("viewport scale must be positive, got %g", r.view.Scale)
	}
	if r.aspect < MinAspect || r.aspect > MaxAspect {
		return fmt.Errorf("aspect ratio %.3g outside [%g, %g]", r.aspect, MinAspect, MaxAspect)
	}
	if !r.palette.valid() {
		return fmt.Errorf("unknown palette %d", int(r.palette))
	}
	if r.supersample < 0 || r.supersample > 4 {
		return fmt.Errorf("supersample factor %d outside [1, 4]", r.supersample)
	}
	return nil
}

func (r *Render) params() ViewParams {
	return ViewParams{
		JuliaX:     r.view.JuliaX,
		JuliaY:     r.view.JuliaY,
		MaxIter:    r.maxIter,
		NewtonIter: r.newtonIter,
	}.normalized()
}

// Cells runs the live driver: glyphs for escape-time kinds, a constant
// glyph with per-root color pairs for Newton kinds.
func (r *Render) Cells() (*CellSurface, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	grid := liveGrid(r.view, r.width, r.height, r.aspect)
	params := r.params()
	eval := evalTable[r.kind]
	newton := r.kind.IsNewton()
	surf := NewCellSurface(r.width, r.height)
	r.forEachRow(grid.h, func(row int) {
		base := row * grid.w
		for col := 0; col < grid.w; col++ {
			cx, cy := grid.at(col, row)
			c := eval(cx, cy, params)
			cell := Cell{Rune: QuantizeGlyph(c, r.kind, params.MaxIter)}
			if newton {
				cell.FG, cell.BG = rootPair(r.kind, c.Value)
			}
			surf.Cells[base+col] = cell
		}
	})
	return surf, nil
}

// Image runs the export driver into an RGBA buffer, honoring supersampling
// and the live field-of-view reference. Without LiveSize the raster is its
// own reference and pixels are square; with it the cell aspect carries over
// so the export reproduces the live view.
func (r *Render) Image() (*image.RGBA, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	ss := r.supersample
	if ss < 1 {
		ss = 1
	}
	aspect := 1.0
	if r.liveW > 0 || r.liveH > 0 {
		aspect = r.aspect
	}
	// The field-of-view reference is the live raster when one was supplied,
	// otherwise the target size, so supersampling never widens the view.
	liveW, liveH := r.liveW, r.liveH
	if liveW <= 0 {
		liveW = r.width
	}
	if liveH <= 0 {
		liveH = r.height
	}
	w, h := r.width*ss, r.height*ss
	grid := exportGrid(r.view, w, h, liveW, liveH, aspect)
	params := r.params()
	eval := evalTable[r.kind]
	pal := r.palette
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r.forEachRow(h, func(row int) {
		for col := 0; col < w; col++ {
			cx, cy := grid.at(col, row)
			c := eval(cx, cy, params)
			img.SetRGBA(col, row, QuantizeColor(c, r.kind, pal, params.MaxIter))
		}
	})
	if ss > 1 {
		img = downscale(img, r.width, r.height)
	}
	return img, nil
}

// forEachRow fans the row loop out across a fixed worker pool. Rows are
// disjoint regions of the output, so the WaitGroup join is the only
// synchronization.
func (r *Render) forEachRow(rows int, fn func(row int)) {
	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > rows {
		workers = rows
	}

	jobs := make(chan int, rows)
	var wg sync.WaitGroup
	var done atomic.Int64
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for row := range jobs {
				fn(row)
				if r.onProgress != nil {
					r.onProgress(int(done.Add(1)), rows)
				}
			}
		}()
	}
	for row := range rows {
		jobs <- row
	}
	close(jobs)
	wg.Wait()
}

// RenderLive renders the glyph/color-pair surface for a terminal grid.
// It is the long form of New(kind).View(v).Size(w, h).Aspect(a).Cells().
func RenderLive(kind Kind, v Viewport, rasterW, rasterH int, aspect float64) (*CellSurface, error) {
	return New(kind).View(v).Size(rasterW, rasterH).Aspect(aspect).Cells()
}

// RenderExport renders an RGB image of the viewport at the given size.
func RenderExport(kind Kind, v Viewport, imageW, imageH int, pal Palette) (*image.RGBA, error) {
	return New(kind).View(v).Size(imageW, imageH).Palette(pal).Image()
}
