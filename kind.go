package fractal

import (
	"fmt"
	"strings"
)

// Kind selects which fractal family an evaluation runs.
type Kind int

const (
	// Mandelbrot is the classic z^2 + c escape-time set.
	Mandelbrot Kind = iota
	// MandelbrotSin iterates sin(z) + c with a widened escape radius.
	MandelbrotSin
	// InvertedMandelbrot evaluates Mandelbrot through a circle inversion of c.
	InvertedMandelbrot
	// Tricorn negates the imaginary update (the "mandelbar").
	Tricorn
	// Julia iterates z^2 + k from the pixel with a fixed parameter k.
	Julia
	// BurningShip folds the imaginary product term with abs.
	BurningShip
	// Celtic folds the real square term with abs.
	Celtic
	// Buffalo folds both update terms with abs.
	Buffalo
	// Newton colors basins of Newton's method on z^3 - 1.
	Newton
	// Newton2 colors basins of z^3 - 2z + 2, whose plane traps a 2-cycle.
	Newton2
	// Newton3 colors basins of the quintic z^5 + z^2 - 1.
	Newton3
)

// Kinds returns every fractal kind in display order.
func Kinds() []Kind {
	return []Kind{
		Mandelbrot, MandelbrotSin, InvertedMandelbrot, Tricorn, Julia,
		BurningShip, Celtic, Buffalo, Newton, Newton2, Newton3,
	}
}

// String returns the canonical lowercase name used by flags and URLs.
func (k Kind) String() string {
	switch k {
	case Mandelbrot:
		return "mandelbrot"
	case MandelbrotSin:
		return "mandelbrot-sin"
	case InvertedMandelbrot:
		return "inverted-mandelbrot"
	case Tricorn:
		return "tricorn"
	case Julia:
		return "julia"
	case BurningShip:
		return "burning-ship"
	case Celtic:
		return "celtic"
	case Buffalo:
		return "buffalo"
	case Newton:
		return "newton"
	case Newton2:
		return "newton2"
	case Newton3:
		return "newton3"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Formula returns a short display form of the iteration the kind runs.
func (k Kind) Formula() string {
	switch k {
	case Mandelbrot:
		return "z^2 + c"
	case MandelbrotSin:
		return "sin(z) + c"
	case InvertedMandelbrot:
		return "z^2 + 1/c"
	case Tricorn:
		return "conj(z)^2 + c"
	case Julia:
		return "z^2 + k"
	case BurningShip:
		return "(|Re z| + i|Im z|)^2 + c"
	case Celtic:
		return "|Re z^2| + i Im z^2 + c"
	case Buffalo:
		return "|Re z^2| + i|Im z^2| + c"
	case Newton:
		return "z^3 - 1"
	case Newton2:
		return "z^3 - 2z + 2"
	case Newton3:
		return "z^5 + z^2 - 1"
	default:
		return ""
	}
}

// IsNewton reports whether the kind classifies points by root basin
// rather than by escape iteration count.
func (k Kind) IsNewton() bool {
	return k == Newton || k == Newton2 || k == Newton3
}

// RootCount returns how many polynomial roots a Newton kind can match,
// zero for escape-time kinds.
func (k Kind) RootCount() int {
	switch k {
	case Newton, Newton2:
		return 3
	case Newton3:
		return 5
	default:
		return 0
	}
}

func (k Kind) valid() bool {
	return k >= Mandelbrot && k <= Newton3
}

// ParseKind resolves a kind from its canonical name.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown fractal kind %q", s)
}

// DefaultViewport returns the starting viewport for a kind, framing the
// set's main body on a typical terminal grid.
func (k Kind) DefaultViewport() Viewport {
	switch k {
	case Mandelbrot:
		return Viewport{CenterX: -1.0, CenterY: 0, Scale: 0.03}
	case MandelbrotSin:
		return Viewport{CenterX: 0, CenterY: 0, Scale: 0.05}
	case InvertedMandelbrot:
		return Viewport{CenterX: 0, CenterY: 0, Scale: 0.04}
	case Tricorn:
		return Viewport{CenterX: -0.3, CenterY: 0, Scale: 0.03}
	case Julia:
		return Viewport{CenterX: 0, CenterY: 0, Scale: 0.03, JuliaX: -0.8, JuliaY: 0.156}
	case BurningShip:
		return Viewport{CenterX: -0.5, CenterY: -0.4, Scale: 0.025}
	case Celtic:
		return Viewport{CenterX: -1.0, CenterY: 0, Scale: 0.03}
	case Buffalo:
		return Viewport{CenterX: -0.75, CenterY: -0.25, Scale: 0.025}
	case Newton, Newton2:
		return Viewport{CenterX: 0, CenterY: 0, Scale: 0.025}
	case Newton3:
		return Viewport{CenterX: 0, CenterY: 0, Scale: 0.02}
	default:
		return Viewport{CenterX: -1.0, CenterY: 0, Scale: 0.03}
	}
}
