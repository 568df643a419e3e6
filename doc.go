/*
Package fractal renders escape-time fractals and Newton basins, both as
character rasters for live terminal exploration and as RGB images for PNG
export.

Eleven fractal kinds are built in: the Mandelbrot set and its sine, inverted,
Tricorn, Burning Ship, Celtic and Buffalo variants, Julia sets with a
configurable parameter, and Newton basins for three polynomials. Every kind
is evaluated per point on the complex plane; a viewport maps raster cells to
plane coordinates so the same view renders identically at any resolution.

Main features:

  - Character-cell rendering with a gamma-corrected glyph ramp
  - 24-bit color rendering with selectable palettes
  - Newton basins colored by root with per-cell foreground/background pairs
  - Row-parallel rendering across a worker pool
  - Asynchronous rendering with latest-wins frame dropping for UIs
  - PNG export with optional supersampling
  - Inline terminal previews via kitty, iTerm2, sixel or halfblocks,
    including tmux passthrough
  - Named regions of interest for well-known views

Basic Usage:

	// Character raster for an 80x24 terminal
	cells, err := fractal.RenderLive(fractal.Mandelbrot,
	    fractal.Mandelbrot.DefaultViewport(), 80, 24, fractal.DefaultAspect)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cells.ANSI())

	// PNG export
	img, err := fractal.New(fractal.Julia).
	    Size(1920, 1080).
	    Palette(fractal.Fire).
	    Supersample(2).
	    Image()
	if err != nil {
	    log.Fatal(err)
	}
	err = fractal.SavePNG("julia.png", img)

Fluent API:

	cells, err := fractal.New(fractal.BurningShip).
	    View(fractal.Viewport{CenterX: -1.755, CenterY: -0.035, Scale: 0.002}).
	    Size(120, 40).
	    Aspect(2.0).
	    MaxIter(500).
	    Workers(8).
	    Cells()

Interactive rendering:

	r := fractal.NewAsyncRenderer()
	defer r.Close()
	r.Request(fractal.RenderRequest{
	    Kind: fractal.Mandelbrot, View: view, Width: 120, Height: 40,
	})
	out := <-r.Outcomes() // newest finished frame

Terminal previews:

	err = fractal.Preview(os.Stdout, img, fractal.PreviewOptions{
	    Protocol: fractal.PreviewAuto,
	})
*/
package fractal
