package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	fractal "github.com/Is-This-a-JoJo-Reference/Fractals-project"
)

func TestParseRenderParams(t *testing.T) {
	mandel := fractal.Mandelbrot.DefaultViewport()
	julia := fractal.Julia.DefaultViewport()
	ship, ok := fractal.FindRegion("the-ship")
	if !ok {
		t.Fatal("region the-ship is missing")
	}

	tests := []struct {
		name  string
		query string
		want  renderParams
	}{
		{
			name:  "defaults",
			query: "",
			want: renderParams{
				kind:    fractal.Mandelbrot,
				width:   1024,
				height:  768,
				palette: fractal.Grayscale,
				view: fractal.Viewport{
					CenterX: mandel.CenterX,
					CenterY: mandel.CenterY,
					Scale:   mandel.Scale * 80 / float64(1024),
				},
			},
		},
		{
			name:  "kind carries its default view",
			query: "kind=julia",
			want: renderParams{
				kind:    fractal.Julia,
				width:   1024,
				height:  768,
				palette: fractal.Grayscale,
				view: fractal.Viewport{
					Scale:  julia.Scale * 80 / float64(1024),
					JuliaX: julia.JuliaX,
					JuliaY: julia.JuliaY,
				},
			},
		},
		{
			name:  "size rescales the default view",
			query: "w=64&h=32&palette=fire",
			want: renderParams{
				kind:    fractal.Mandelbrot,
				width:   64,
				height:  32,
				palette: fractal.Fire,
				view: fractal.Viewport{
					CenterX: mandel.CenterX,
					CenterY: mandel.CenterY,
					Scale:   mandel.Scale * 80 / float64(64),
				},
			},
		},
		{
			name:  "region selects kind and view",
			query: "w=200&h=100&region=the-ship",
			want: renderParams{
				kind:    ship.Kind,
				width:   200,
				height:  100,
				palette: fractal.Grayscale,
				view:    ship.View(200),
			},
		},
		{
			name:  "explicit center and scale",
			query: "cx=-0.75&cy=0.1&scale=0.001",
			want: renderParams{
				kind:    fractal.Mandelbrot,
				width:   1024,
				height:  768,
				palette: fractal.Grayscale,
				view:    fractal.Viewport{CenterX: -0.75, CenterY: 0.1, Scale: 0.001},
			},
		},
		{
			name:  "julia parameter",
			query: "julia=0.3,0.5",
			want: renderParams{
				kind:    fractal.Mandelbrot,
				width:   1024,
				height:  768,
				palette: fractal.Grayscale,
				view: fractal.Viewport{
					CenterX: mandel.CenterX,
					CenterY: mandel.CenterY,
					Scale:   mandel.Scale * 80 / float64(1024),
					JuliaX:  0.3,
					JuliaY:  0.5,
				},
			},
		},
		{
			name:  "iteration budget",
			query: "iters=500",
			want: renderParams{
				kind:    fractal.Mandelbrot,
				width:   1024,
				height:  768,
				palette: fractal.Grayscale,
				iters:   500,
				view: fractal.Viewport{
					CenterX: mandel.CenterX,
					CenterY: mandel.CenterY,
					Scale:   mandel.Scale * 80 / float64(1024),
				},
			},
		},
		{
			name:  "supersampling",
			query: "supersample=2",
			want: renderParams{
				kind:        fractal.Mandelbrot,
				width:       1024,
				height:      768,
				palette:     fractal.Grayscale,
				supersample: 2,
				view: fractal.Viewport{
					CenterX: mandel.CenterX,
					CenterY: mandel.CenterY,
					Scale:   mandel.Scale * 80 / float64(1024),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query %q: %v", tt.query, err)
			}
			got, err := parseRenderParams(q, serveFlags.maxSize)
			if err != nil {
				t.Fatalf("parseRenderParams(%q) failed: %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("parseRenderParams(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestParseRenderParamsErrors(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantSub string
	}{
		{"bad kind", "kind=bogus", "unknown fractal kind"},
		{"bad palette", "palette=neon", "unknown palette"},
		{"bad width", "w=abc", `bad w "abc"`},
		{"zero height", "h=0", "outside"},
		{"oversized", "w=5000", "outside"},
		{"bad scale", "scale=xyz", "bad scale"},
		{"negative scale", "scale=-0.5", "positive"},
		{"bad julia", "julia=1", "expected re,im"},
		{"bad iters", "iters=-5", `bad iters "-5"`},
		{"oversized supersample", "supersample=9", `bad supersample "9"`},
		{"unknown region", "region=atlantis", `unknown region "atlantis"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query %q: %v", tt.query, err)
			}
			_, err = parseRenderParams(q, serveFlags.maxSize)
			if err == nil {
				t.Fatalf("parseRenderParams(%q) should fail", tt.query)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("parseRenderParams(%q) error = %q, want substring %q", tt.query, err, tt.wantSub)
			}
		})
	}
}

func TestRenderParamsIterationRouting(t *testing.T) {
	newton := renderParams{
		kind:    fractal.Newton,
		view:    fractal.Newton.DefaultViewport(),
		width:   16,
		height:  12,
		palette: fractal.Grayscale,
		iters:   5,
	}
	img, err := newton.render().Image()
	if err != nil {
		t.Fatalf("newton render failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("newton image size = %dx%d, want 16x12", b.Dx(), b.Dy())
	}

	escape := renderParams{
		kind:    fractal.Mandelbrot,
		view:    fractal.Mandelbrot.DefaultViewport(),
		width:   16,
		height:  12,
		palette: fractal.Fire,
		iters:   3,
	}
	if _, err := escape.render().Image(); err != nil {
		t.Fatalf("escape render failed: %v", err)
	}
}

func TestHandleRender(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/render?w=32&h=24&palette=fire", nil)
	rec := httptest.NewRecorder()
	handleRender(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("image size = %dx%d, want 32x24", b.Dx(), b.Dy())
	}
}

func TestHandleRenderRejects(t *testing.T) {
	for _, query := range []string{"kind=bogus", "w=banana", "w=100000"} {
		req := httptest.NewRequest(http.MethodGet, "/render?"+query, nil)
		rec := httptest.NewRecorder()
		handleRender(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("query %q: status = %d, want 400", query, rec.Code)
		}
	}
}

func TestHandleIndex(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handleIndex(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/render?") {
		t.Error("index page should document the render endpoint")
	}

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec = httptest.NewRecorder()
	handleIndex(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status for unknown path = %d, want 404", rec.Code)
	}
}

func TestRenderWebsocket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(handleRenderWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL+"?w=32&h=32&palette=ocean", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.CloseNow()

	var progressFrames int
	var pngData []byte
	for pngData == nil {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read failed after %d progress frames: %v", progressFrames, err)
		}
		switch typ {
		case websocket.MessageText:
			var p wsProgress
			if err := json.Unmarshal(data, &p); err != nil {
				t.Fatalf("bad progress frame %q: %v", data, err)
			}
			if p.Total != 32 {
				t.Errorf("progress total = %d, want 32", p.Total)
			}
			if p.Rows < 1 || p.Rows > 32 {
				t.Errorf("progress rows = %d, want within 1..32", p.Rows)
			}
			progressFrames++
		case websocket.MessageBinary:
			pngData = data
		}
	}
	if progressFrames == 0 {
		t.Error("no progress frames arrived before the image")
	}

	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		t.Fatalf("final message is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("image size = %dx%d, want 32x32", b.Dx(), b.Dy())
	}

	_, _, err = conn.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("close status = %v, want normal closure", websocket.CloseStatus(err))
	}
}

func TestRenderWebsocketThroughLogging(t *testing.T) {
	// The request logger wraps the ResponseWriter; the upgrade must still
	// find the hijacker through it.
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handleRenderWS)
	srv := httptest.NewServer(logRequests(mux))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, wsURL+"/ws?w=16&h=16", nil)
	if err != nil {
		t.Fatalf("dial through logging middleware failed: %v", err)
	}
	defer conn.CloseNow()

	if _, _, err := conn.Read(ctx); err != nil {
		t.Fatalf("read failed: %v", err)
	}
}

func TestRenderWebsocketRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(handleRenderWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.Dial(ctx, wsURL+"?kind=bogus", nil)
	if err == nil {
		conn.CloseNow()
		t.Fatal("dial should fail for bad parameters")
	}
	if resp != nil {
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("handshake status = %d, want 400", resp.StatusCode)
		}
		resp.Body.Close()
	}
}
