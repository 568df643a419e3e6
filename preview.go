package fractal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/mosaic"
	"github.com/makeworld-the-better-one/dither/v2"
	"github.com/mattn/go-sixel"
	"github.com/soniakeys/quant/median"
	"golang.org/x/term"

	"github.com/Is-This-a-JoJo-Reference/Fractals-project/pkg/csi"
)

// PreviewProtocol selects how Preview draws an image into the terminal.
type PreviewProtocol int

const (
	// PreviewAuto picks the richest protocol the terminal supports.
	PreviewAuto PreviewProtocol = iota
	// PreviewKitty uses the kitty graphics protocol (kitty, ghostty, WezTerm).
	PreviewKitty
	// PreviewITerm2 uses iTerm2 inline images (OSC 1337).
	PreviewITerm2
	// PreviewSixel uses DEC sixel graphics.
	PreviewSixel
	// PreviewHalfblocks renders unicode half blocks with 24-bit color. Works
	// in any truecolor terminal.
	PreviewHalfblocks
)

var previewNames = [...]string{"auto", "kitty", "iterm2", "sixel", "halfblocks"}

func (p PreviewProtocol) String() string {
	if p < PreviewAuto || p > PreviewHalfblocks {
		return "unknown"
	}
	return previewNames[p]
}

// ParsePreviewProtocol converts a protocol name into a PreviewProtocol.
func ParsePreviewProtocol(s string) (PreviewProtocol, error) {
	switch strings.ToLower(s) {
	case "auto":
		return PreviewAuto, nil
	case "kitty":
		return PreviewKitty, nil
	case "iterm2", "iterm":
		return PreviewITerm2, nil
	case "sixel":
		return PreviewSixel, nil
	case "halfblocks", "blocks":
		return PreviewHalfblocks, nil
	}
	return PreviewAuto, fmt.Errorf("unknown preview protocol %q", s)
}

// DetectPreviewProtocol probes the terminal and returns the best supported
// protocol. Halfblocks is the universal fallback.
func DetectPreviewProtocol() PreviewProtocol {
	if kittySupported() {
		return PreviewKitty
	}
	if iterm2Supported() {
		return PreviewITerm2
	}
	if sixelSupported() {
		return PreviewSixel
	}
	return PreviewHalfblocks
}

func kittySupported() bool {
	switch {
	case os.Getenv("KITTY_WINDOW_ID") != "":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty"):
		return true
	case os.Getenv("TERM_PROGRAM") == "ghostty":
		return true
	case os.Getenv("TERM_PROGRAM") == "WezTerm":
		return true
	}
	return false
}

func iterm2Supported() bool {
	switch {
	case os.Getenv("TERM_PROGRAM") == "iTerm.app":
		return true
	case strings.Contains(strings.ToLower(os.Getenv("LC_TERMINAL")), "iterm"):
		return true
	case os.Getenv("TERM_PROGRAM") == "mintty", os.Getenv("TERM") == "mintty":
		return true
	case os.Getenv("TERM_PROGRAM") == "WarpTerminal":
		return true
	}
	return false
}

func sixelSupported() bool {
	termEnv := os.Getenv("TERM")
	switch {
	case strings.Contains(termEnv, "sixel"),
		strings.Contains(termEnv, "mlterm"),
		strings.Contains(termEnv, "foot"),
		strings.Contains(termEnv, "yaft"):
		return true
	case strings.Contains(termEnv, "xterm") && os.Getenv("XTERM_VERSION") != "":
		// xterm advertises sixel only when started with -ti 340.
		return true
	}

	// Ask for primary device attributes; capability 4 is sixel.
	if !csi.Supported() {
		return false
	}
	resp, ok := csi.PrimaryDeviceAttributes()
	if !ok {
		return false
	}
	return strings.Contains(resp, ";4;") || strings.Contains(resp, ";4c")
}

// PreviewOptions control how Preview fits and encodes the image.
type PreviewOptions struct {
	Protocol PreviewProtocol
	Width    int  // character cells, zero fits the terminal
	Height   int  // character cells, zero fits the terminal
	Dither   bool // halfblocks and sixel only
	Colors   int  // sixel palette size, zero means 256
}

// Preview writes img to w as an inline terminal image using the requested
// protocol, or the detected one for PreviewAuto. Output is wrapped for tmux
// passthrough when running inside tmux.
func Preview(w io.Writer, img image.Image, opts PreviewOptions) error {
	proto := opts.Protocol
	if proto == PreviewAuto {
		proto = DetectPreviewProtocol()
	}
	switch proto {
	case PreviewKitty:
		return previewKitty(w, img, opts)
	case PreviewITerm2:
		return previewITerm2(w, img, opts)
	case PreviewSixel:
		return previewSixel(w, img, opts)
	default:
		return previewHalfblocks(w, img, opts)
	}
}

func previewHalfblocks(w io.Writer, img image.Image, opts PreviewOptions) error {
	cols, rows := previewCells(opts)
	m := mosaic.New().Dither(opts.Dither)
	if cols > 0 {
		m = m.Width(cols)
	}
	if rows > 0 {
		m = m.Height(rows)
	}
	_, err := io.WriteString(w, m.Render(img))
	return err
}

func previewSixel(w io.Writer, img image.Image, opts PreviewOptions) error {
	fitted := fitPreview(img, opts)

	colors := opts.Colors
	if colors <= 0 {
		colors = 256
	}
	colors = min(max(colors, 2), 256)

	if opts.Dither {
		quantizer := median.Quantizer(colors)
		pal := quantizer.Palette(fitted).ColorPalette()
		d := dither.NewDitherer(pal)
		d.Matrix = dither.Stucki
		fitted = d.Dither(fitted)
	}

	var buf bytes.Buffer
	enc := sixel.NewEncoder(&buf)
	enc.Colors = colors
	if opts.Dither {
		// The image is already dithered against the reduced palette.
		enc.Dither = false
	}
	if err := enc.Encode(fitted); err != nil {
		return fmt.Errorf("failed to encode sixel: %w", err)
	}
	_, err := io.WriteString(w, wrapTmuxPassthrough(buf.String()))
	return err
}

func previewITerm2(w io.Writer, img image.Image, opts PreviewOptions) error {
	fitted := fitPreview(img, opts)
	var buf bytes.Buffer
	if err := EncodePNG(&buf, fitted); err != nil {
		return err
	}
	data := buf.Bytes()
	b := fitted.Bounds()
	seq := fmt.Sprintf("\x1b]1337;File=inline=1;size=%d;width=%dpx;height=%dpx:%s\x07",
		len(data), b.Dx(), b.Dy(), encodeBase64(data))
	_, err := io.WriteString(w, wrapTmuxPassthrough(seq))
	return err
}

const (
	// kittyChunkSize is the payload limit per kitty escape unit.
	kittyChunkSize = 4096
	// rawChunkSize is the source byte count that encodes to one full payload.
	// Multiples of three encode without padding, so chunks concatenate
	// cleanly.
	rawChunkSize = 3 * kittyChunkSize / 4
)

func previewKitty(w io.Writer, img image.Image, opts PreviewOptions) error {
	fitted := fitPreview(img, opts)
	var buf bytes.Buffer
	if err := EncodePNG(&buf, fitted); err != nil {
		return err
	}
	chunks := chunkBase64(buf.Bytes(), rawChunkSize)
	if len(chunks) == 0 {
		return nil
	}

	// a=T transmits and displays, f=100 marks the payload as PNG, m flags
	// continuation chunks.
	var out strings.Builder
	for i, chunk := range chunks {
		switch {
		case len(chunks) == 1:
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100;%s\x1b\\", chunk)
		case i == 0:
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100,m=1;%s\x1b\\", chunk)
		case i == len(chunks)-1:
			fmt.Fprintf(&out, "\x1b_Gm=0;%s\x1b\\", chunk)
		default:
			fmt.Fprintf(&out, "\x1b_Gm=1;%s\x1b\\", chunk)
		}
	}
	_, err := io.WriteString(w, wrapTmuxPassthrough(out.String()))
	return err
}

// previewCells resolves the target area in character cells, falling back to
// the terminal size and then to 80x24.
func previewCells(opts PreviewOptions) (cols, rows int) {
	cols, rows = opts.Width, opts.Height
	if cols > 0 && rows > 0 {
		return cols, rows
	}
	tc, tr, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || tc <= 0 || tr <= 0 {
		tc, tr = 80, 24
	}
	if cols <= 0 {
		cols = tc
	}
	if rows <= 0 {
		rows = tr
	}
	return cols, rows
}

// fitPreview scales img down to the pixel area covered by the target cells,
// using the real cell size when the terminal reports one.
func fitPreview(img image.Image, opts PreviewOptions) image.Image {
	cols, rows := previewCells(opts)
	cellW, cellH := 8, 16
	if csi.Supported() {
		if w, h, ok := csi.CellSize(); ok {
			cellW, cellH = w, h
		}
	}
	return Thumbnail(img, uint(cols*cellW), uint(rows*cellH))
}

// base64Pool recycles encode buffers between preview frames.
var base64Pool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, kittyChunkSize*2)
		return &buf
	},
}

// encodeBase64 is base64.StdEncoding.EncodeToString with buffer reuse.
func encodeBase64(src []byte) string {
	bufPtr := base64Pool.Get().(*[]byte)
	defer base64Pool.Put(bufPtr)

	n := base64.StdEncoding.EncodedLen(len(src))
	if cap(*bufPtr) < n {
		*bufPtr = make([]byte, n)
	} else {
		*bufPtr = (*bufPtr)[:n]
	}
	base64.StdEncoding.Encode(*bufPtr, src)
	return string(*bufPtr)
}

// chunkBase64 encodes data in chunkSize source slices. The concatenation of
// the chunks equals the encoding of the whole payload.
func chunkBase64(data []byte, chunkSize int) []string {
	numChunks := (len(data) + chunkSize - 1) / chunkSize
	chunks := make([]string, 0, numChunks)
	for i := 0; i < len(data); i += chunkSize {
		end := min(i+chunkSize, len(data))
		chunks = append(chunks, encodeBase64(data[i:end]))
	}
	return chunks
}
