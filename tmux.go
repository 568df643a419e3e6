package fractal

import (
	"os"
	"os/exec"
	"strings"
	"sync"
)

var (
	forceTmux   bool
	forceTmuxMu sync.RWMutex

	passthroughOnce sync.Once
)

// ForceTmux overrides tmux detection. When forced, preview escape sequences
// are wrapped in passthrough envelopes regardless of environment.
func ForceTmux(force bool) {
	forceTmuxMu.Lock()
	forceTmux = force
	forceTmuxMu.Unlock()

	if force {
		enableTmuxPassthrough()
	}
}

// IsTmuxForced reports whether tmux mode was forced via ForceTmux.
func IsTmuxForced() bool {
	forceTmuxMu.RLock()
	defer forceTmuxMu.RUnlock()
	return forceTmux
}

func inTmux() bool {
	if IsTmuxForced() {
		return true
	}
	return os.Getenv("TMUX") != "" || os.Getenv("TERM_PROGRAM") == "tmux"
}

// enableTmuxPassthrough asks tmux to pass graphics sequences through to the
// outer terminal. Without allow-passthrough tmux swallows them.
func enableTmuxPassthrough() {
	passthroughOnce.Do(func() {
		// -p scopes the option to the current pane.
		cmd := exec.Command("tmux", "set", "-p", "allow-passthrough", "on")
		cmd.Stdin = nil
		cmd.Stdout = nil
		cmd.Stderr = nil
		_ = cmd.Run()
	})
}

// wrapTmuxPassthrough frames an escape sequence in a tmux passthrough DCS
// envelope. Every ESC inside the payload must be doubled.
func wrapTmuxPassthrough(seq string) string {
	if !inTmux() || !strings.HasPrefix(seq, "\x1b") {
		return seq
	}
	return "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
}
