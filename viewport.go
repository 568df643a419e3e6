package fractal

// Pan and zoom step sizes used by the explorer key bindings.
const (
	// FinePanCells is the arrow-key pan distance in raster cells.
	FinePanCells = 0.1
	// CoarsePanCells is the w/a/s/d pan distance in raster cells.
	CoarsePanCells = 10.0
	// ZoomInFactor shrinks the per-cell scale ('+').
	ZoomInFactor = 0.8
	// ZoomOutFactor grows the per-cell scale ('-').
	ZoomOutFactor = 1.2
)

// Aspect ratio bounds enforced at the API boundary. The aspect ratio is the
// plane height of one cell divided by its width; 2.0 matches the usual
// terminal cell shape.
const (
	MinAspect     = 0.5
	MaxAspect     = 3.0
	DefaultAspect = 2.0
)

// Iteration budgets. Escape-time kinds run up to MaxIter steps; Newton
// kinds converge much faster and get a smaller budget.
const (
	DefaultMaxIter    = 100
	DefaultNewtonIter = 50
)

// Viewport is the plane region mapped onto a raster: a center point and
// the plane distance covered by one raster column. One viewport exists per
// fractal kind and persists across renders; the caller owns it and must
// not mutate it while a render is in flight.
type Viewport struct {
	CenterX float64
	CenterY float64
	// Scale is the plane step per raster column. Must be positive.
	Scale float64
	// JuliaX, JuliaY hold the Julia iteration constant. Other kinds
	// ignore them.
	JuliaX float64
	JuliaY float64
}

// Pan returns the viewport shifted by (dx, dy) raster cells. Vertical
// motion carries the aspect factor so panning tracks cell geometry.
func (v Viewport) Pan(dx, dy, aspect float64) Viewport {
	v.CenterX += dx * v.Scale
	v.CenterY += dy * v.Scale * aspect
	return v
}

// Zoom returns the viewport scaled about its center. Factors below one
// zoom in.
func (v Viewport) Zoom(factor float64) Viewport {
	v.Scale *= factor
	return v
}

// Params derives the immutable evaluator snapshot for this viewport with
// default iteration budgets.
func (v Viewport) Params() ViewParams {
	return ViewParams{JuliaX: v.JuliaX, JuliaY: v.JuliaY}.normalized()
}

// ViewParams is the read-only snapshot evaluators receive. It is taken
// once per render pass; nothing mutates it afterwards.
type ViewParams struct {
	JuliaX float64
	JuliaY float64
	// MaxIter bounds escape-time iteration. Zero means DefaultMaxIter.
	MaxIter int
	// NewtonIter bounds Newton steps. Zero means DefaultNewtonIter.
	NewtonIter int
}

func (p ViewParams) normalized() ViewParams {
	if p.MaxIter <= 0 {
		p.MaxIter = DefaultMaxIter
	}
	if p.NewtonIter <= 0 {
		p.NewtonIter = DefaultNewtonIter
	}
	return p
}

// MapCell converts a raster cell index to its plane point. The horizontal
// step is exactly Scale; the vertical step additionally carries the aspect
// ratio to compensate for non-square character cells. The cell at
// (rasterW/2, rasterH/2) maps to the center exactly.
func MapCell(col, row, rasterW, rasterH int, v Viewport, aspect float64) (cx, cy float64) {
	return liveGrid(v, rasterW, rasterH, aspect).at(col, row)
}

// planeGrid is the immutable cell-to-plane mapping one render pass uses.
type planeGrid struct {
	w, h             int
	centerX, centerY float64
	stepX, stepY     float64
}

func liveGrid(v Viewport, w, h int, aspect float64) planeGrid {
	return planeGrid{
		w: w, h: h,
		centerX: v.CenterX, centerY: v.CenterY,
		stepX: v.Scale,
		stepY: v.Scale * aspect,
	}
}

// exportGrid rescales the horizontal step by liveW/exportW and the vertical
// step by liveH/exportH so an exported image keeps the live view's field of
// view at any resolution. Without a live reference the export raster is its
// own reference and the steps reduce to the live form.
func exportGrid(v Viewport, imgW, imgH, liveW, liveH int, aspect float64) planeGrid {
	if liveW <= 0 {
		liveW = imgW
	}
	if liveH <= 0 {
		liveH = imgH
	}
	return planeGrid{
		w: imgW, h: imgH,
		centerX: v.CenterX, centerY: v.CenterY,
		stepX: v.Scale * float64(liveW) / float64(imgW),
		stepY: v.Scale * aspect * float64(liveH) / float64(imgH),
	}
}

func (g planeGrid) at(col, row int) (cx, cy float64) {
	cx = float64(col-g.w/2)*g.stepX + g.centerX
	cy = float64(row-g.h/2)*g.stepY + g.centerY
	return cx, cy
}
