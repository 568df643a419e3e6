/*
Package csi issues CSI (Control Sequence Introducer) queries against the
controlling terminal to discover the geometry a character raster depends on:
cell pixel size, text area size, and device attributes.
*/
package csi

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// QueryTimeout bounds how long a query waits for the terminal to answer.
// Terminals that do not understand a query simply stay silent.
const QueryTimeout = 100 * time.Millisecond

// CellSize reports the pixel size of one character cell (CSI 16t).
func CellSize() (width, height int, ok bool) {
	resp, ok := query("\x1b[16t")
	if !ok {
		return 0, 0, false
	}
	return parseSizeReport(resp, "[6;")
}

// TextAreaPixels reports the size of the text area in pixels (CSI 14t).
func TextAreaPixels() (width, height int, ok bool) {
	resp, ok := query("\x1b[14t")
	if !ok {
		return 0, 0, false
	}
	return parseSizeReport(resp, "[4;")
}

// CellAspect reports the height to width ratio of one character cell. This
// is the vertical stretch a character raster has to compensate for to keep
// circles round.
func CellAspect() (float64, bool) {
	w, h, ok := CellSize()
	if !ok || w <= 0 || h <= 0 {
		return 0, false
	}
	return float64(h) / float64(w), true
}

// PrimaryDeviceAttributes returns the raw DA1 response (CSI c). Capability
// numbers are separated by semicolons; 4 advertises sixel graphics.
func PrimaryDeviceAttributes() (string, bool) {
	return query("\x1b[c")
}

// WindowCells reports the terminal size in character cells.
func WindowCells() (cols, rows int, err error) {
	return term.GetSize(int(os.Stdin.Fd()))
}

// Supported reports whether this terminal is likely to answer CSI queries.
func Supported() bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "Apple_Terminal":
		// Ships with CSI reporting disabled.
		return false
	case "vscode":
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// query writes seq to the controlling terminal in raw mode and reads one
// response, giving up after QueryTimeout.
func query(seq string) (string, bool) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return "", false
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return "", false
	}
	defer term.Restore(int(tty.Fd()), oldState)

	if _, err := tty.WriteString(wrapTmux(seq)); err != nil {
		return "", false
	}

	respCh := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			respCh <- ""
			return
		}
		respCh <- string(buf[:n])
	}()

	select {
	case resp := <-respCh:
		return resp, resp != ""
	case <-time.After(QueryTimeout):
		return "", false
	}
}

// parseSizeReport extracts width and height from a CSI t report of the form
// ESC [ code ; height ; width t.
func parseSizeReport(resp, prefix string) (width, height int, ok bool) {
	idx := strings.Index(resp, prefix)
	if idx < 0 {
		return 0, 0, false
	}
	parts := strings.Split(resp[idx:], ";")
	if len(parts) < 3 {
		return 0, 0, false
	}
	fmt.Sscanf(parts[1], "%d", &height)
	fmt.Sscanf(parts[2], "%dt", &width)
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

func inTmux() bool {
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// wrapTmux frames a query in a tmux passthrough envelope so it reaches the
// outer terminal. ESC characters in the payload are doubled.
func wrapTmux(seq string) string {
	if !inTmux() || !strings.HasPrefix(seq, "\x1b") {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}
