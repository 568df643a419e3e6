package fractal

import (
	"time"
)

// RenderRequest describes one live frame for AsyncRenderer.
type RenderRequest struct {
	Kind       Kind
	View       Viewport
	Width      int
	Height     int
	Aspect     float64
	MaxIter    int
	NewtonIter int
}

// RenderOutcome carries a finished frame back to the caller. Skipped
// reports how many older requests were discarded before this one ran.
type RenderOutcome struct {
	Cells    *CellSurface
	Request  RenderRequest
	Duration time.Duration
	Err      error
	Skipped  int
}

// AsyncRenderer renders live frames on a background goroutine with
// latest-wins semantics: when requests arrive faster than frames finish,
// intermediate ones are dropped and only the newest is rendered. Interactive
// panning and zooming stay responsive at any raster size.
type AsyncRenderer struct {
	reqCh  chan RenderRequest
	outCh  chan RenderOutcome
	doneCh chan struct{}
}

// NewAsyncRenderer starts the render goroutine.
func NewAsyncRenderer() *AsyncRenderer {
	a := &AsyncRenderer{
		reqCh:  make(chan RenderRequest, 1),
		outCh:  make(chan RenderOutcome, 1),
		doneCh: make(chan struct{}),
	}
	go a.loop()
	return a
}

// Request queues a frame, replacing any frame still waiting to start.
// It never blocks. Request must not be called after Close.
func (a *AsyncRenderer) Request(req RenderRequest) {
	for {
		select {
		case a.reqCh <- req:
			return
		default:
		}
		select {
		case <-a.reqCh:
		default:
		}
	}
}

// Outcomes delivers finished frames. Only the newest undelivered outcome is
// retained; slow consumers see the latest frame, not a backlog.
func (a *AsyncRenderer) Outcomes() <-chan RenderOutcome {
	return a.outCh
}

// Close stops the render goroutine. Pending outcomes may still be read
// from Outcomes afterwards.
func (a *AsyncRenderer) Close() {
	close(a.doneCh)
}

func (a *AsyncRenderer) loop() {
	for {
		var req RenderRequest
		select {
		case <-a.doneCh:
			return
		case req = <-a.reqCh:
		}

		// Drain to the newest request before spending time rendering.
		skipped := 0
		for {
			select {
			case next := <-a.reqCh:
				req = next
				skipped++
				continue
			default:
			}
			break
		}

		aspect := req.Aspect
		if aspect <= 0 {
			aspect = DefaultAspect
		}

		start := time.Now()
		cells, err := New(req.Kind).
			View(req.View).
			Size(req.Width, req.Height).
			Aspect(aspect).
			MaxIter(req.MaxIter).
			NewtonIter(req.NewtonIter).
			Cells()
		out := RenderOutcome{
			Cells:    cells,
			Request:  req,
			Duration: time.Since(start),
			Err:      err,
			Skipped:  skipped,
		}

		for {
			select {
			case a.outCh <- out:
			case <-a.outCh:
				continue
			case <-a.doneCh:
				return
			}
			break
		}
	}
}
