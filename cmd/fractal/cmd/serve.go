package cmd

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"

	fractal "github.com/Is-This-a-JoJo-Reference/Fractals-project"
)

var serveFlags struct {
	addr    string
	maxSize int
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8335", "Listen address")
	serveCmd.Flags().IntVar(&serveFlags.maxSize, "max-size", 4096, "Largest image dimension served")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fractal renders over HTTP",
	Long: `serve exposes the renderer over HTTP. GET /render returns a PNG for the
query parameters; GET /ws upgrades to a websocket, streams JSON progress
frames while the render runs and finishes with the PNG as a single binary
message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mux := http.NewServeMux()
		mux.HandleFunc("/", handleIndex)
		mux.HandleFunc("/render", handleRender)
		mux.HandleFunc("/ws", handleRenderWS)

		srv := &http.Server{
			Addr:              serveFlags.addr,
			Handler:           logRequests(mux),
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.WithField("addr", serveFlags.addr).Info("listening")
		return srv.ListenAndServe()
	},
}

// statusWriter records the response code for the request log. Hijack and
// Unwrap keep the websocket upgrade working through the wrapper.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer %T does not support hijacking", w.ResponseWriter)
	}
	return hj.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.status,
			"dur":    time.Since(start).Round(time.Millisecond).String(),
		}).Debug("request")
	})
}

type renderParams struct {
	kind        fractal.Kind
	view        fractal.Viewport
	width       int
	height      int
	palette     fractal.Palette
	iters       int
	supersample int
}

// parseRenderParams resolves query parameters into a render description.
// Every parameter is optional; defaults produce the kind's standard view.
func parseRenderParams(q url.Values, maxSize int) (renderParams, error) {
	p := renderParams{
		kind:    fractal.Mandelbrot,
		width:   1024,
		height:  768,
		palette: fractal.Grayscale,
	}

	var err error
	if s := q.Get("kind"); s != "" {
		if p.kind, err = fractal.ParseKind(s); err != nil {
			return p, err
		}
	}
	if s := q.Get("palette"); s != "" {
		if p.palette, err = fractal.ParsePalette(s); err != nil {
			return p, err
		}
	}
	if s := q.Get("w"); s != "" {
		if p.width, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("bad w %q", s)
		}
	}
	if s := q.Get("h"); s != "" {
		if p.height, err = strconv.Atoi(s); err != nil {
			return p, fmt.Errorf("bad h %q", s)
		}
	}
	if p.width <= 0 || p.height <= 0 || p.width > maxSize || p.height > maxSize {
		return p, fmt.Errorf("size %dx%d outside 1..%d", p.width, p.height, maxSize)
	}

	p.view = p.kind.DefaultViewport()
	p.view.Scale = p.view.Scale * 80 / float64(p.width)
	if s := q.Get("region"); s != "" {
		r, ok := fractal.FindRegion(s)
		if !ok {
			return p, fmt.Errorf("unknown region %q", s)
		}
		p.kind = r.Kind
		p.view = r.View(p.width)
	}
	if s := q.Get("cx"); s != "" {
		if p.view.CenterX, err = strconv.ParseFloat(s, 64); err != nil {
			return p, fmt.Errorf("bad cx %q", s)
		}
	}
	if s := q.Get("cy"); s != "" {
		if p.view.CenterY, err = strconv.ParseFloat(s, 64); err != nil {
			return p, fmt.Errorf("bad cy %q", s)
		}
	}
	if s := q.Get("scale"); s != "" {
		if p.view.Scale, err = strconv.ParseFloat(s, 64); err != nil {
			return p, fmt.Errorf("bad scale %q", s)
		}
		if p.view.Scale <= 0 {
			return p, fmt.Errorf("scale must be positive, got %s", s)
		}
	}
	if s := q.Get("julia"); s != "" {
		if p.view.JuliaX, p.view.JuliaY, err = parsePair(s); err != nil {
			return p, err
		}
	}
	if s := q.Get("iters"); s != "" {
		if p.iters, err = strconv.Atoi(s); err != nil || p.iters <= 0 {
			return p, fmt.Errorf("bad iters %q", s)
		}
	}
	if s := q.Get("supersample"); s != "" {
		if p.supersample, err = strconv.Atoi(s); err != nil || p.supersample < 1 || p.supersample > 4 {
			return p, fmt.Errorf("bad supersample %q", s)
		}
	}
	return p, nil
}

func (p renderParams) render() *fractal.Render {
	r := fractal.New(p.kind).View(p.view).Size(p.width, p.height).Palette(p.palette)
	if p.iters > 0 {
		if p.kind.IsNewton() {
			r = r.NewtonIter(p.iters)
		} else {
			r = r.MaxIter(p.iters)
		}
	}
	if p.supersample > 1 {
		r = r.Supersample(p.supersample)
	}
	return r
}

func handleRender(w http.ResponseWriter, r *http.Request) {
	p, err := parseRenderParams(r.URL.Query(), serveFlags.maxSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img, err := p.render().Image()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := fractal.EncodePNG(w, img); err != nil {
		log.WithError(err).Error("failed to write PNG response")
	}
}

// wsProgress is one render progress frame: rows finished out of total.
type wsProgress struct {
	Rows  int `json:"rows"`
	Total int `json:"total"`
}

func handleRenderWS(w http.ResponseWriter, r *http.Request) {
	p, err := parseRenderParams(r.URL.Query(), serveFlags.maxSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.WithError(err).Error("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	// Supersampled renders walk the enlarged raster, so the row count the
	// progress callback sees scales with the factor.
	total := p.height
	if p.supersample > 1 {
		total *= p.supersample
	}
	step := max(total/20, 1) // report roughly every 5%

	// Progress arrives from render workers; the buffer is sized for every
	// report so the non-blocking sends never stall a worker.
	progress := make(chan int, total/step+2)
	render := p.render().OnProgress(func(done, _ int) {
		if done%step == 0 || done == total {
			select {
			case progress <- done:
			default:
			}
		}
	})

	type result struct {
		img *image.RGBA
		err error
	}
	resCh := make(chan result, 1)
	go func() {
		img, err := render.Image()
		close(progress)
		resCh <- result{img, err}
	}()

	for done := range progress {
		if err := wsjson.Write(ctx, conn, wsProgress{Rows: done, Total: total}); err != nil {
			return
		}
	}

	res := <-resCh
	if res.err != nil {
		conn.Close(websocket.StatusInternalError, res.err.Error())
		return
	}
	var buf bytes.Buffer
	if err := fractal.EncodePNG(&buf, res.img); err != nil {
		conn.Close(websocket.StatusInternalError, err.Error())
		return
	}
	if err := conn.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return
	}
	conn.Close(websocket.StatusNormalClosure, "")
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>fractal</title></head>
<body style="background:#111;color:#eee;font-family:monospace">
<h1>fractal</h1>
<p>GET /render?kind=mandelbrot&amp;w=1024&amp;h=768&amp;palette=fire</p>
<p>Parameters: kind, w, h, palette, cx, cy, scale (plane units per pixel),
julia=re,im, iters, supersample, region.</p>
<p>GET /ws with the same parameters streams {"rows":n,"total":h} progress
frames, then the PNG as one binary message.</p>
<img src="/render?w=800&amp;h=600&amp;palette=fire" width="800" height="600" alt="mandelbrot">
</body>
</html>`

func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}
