package fractal

import "math"

// Shape discriminates the two classification families a kind can produce.
type Shape int

const (
	// ShapeEscape carries an iteration count in [0, MaxIter].
	ShapeEscape Shape = iota
	// ShapeRoot carries a 1-based root index; 0 means no convergence.
	ShapeRoot
)

// Classification is the result of evaluating a single plane point.
type Classification struct {
	Shape Shape
	Value int
}

// Escaped builds an escape-time classification.
func Escaped(iterations int) Classification {
	return Classification{Shape: ShapeEscape, Value: iterations}
}

// RootMatch builds a root-basin classification from a 1-based root index.
func RootMatch(index int) Classification {
	return Classification{Shape: ShapeRoot, Value: index}
}

// Escape radii, squared. The sine variant grows through cosh/sinh and
// needs a much larger bound before its orbits are decided.
const (
	escapeRadiusSq    = 4.0
	sinEscapeRadiusSq = 400.0
)

// Points inverting to within this squared radius of the origin are treated
// as interior instead of dividing by a vanishing modulus.
const invertEpsilonSq = 1e-20

// evaluator maps one plane point to a classification. Evaluators are total
// functions: every numeric edge is handled inside the loop and they always
// return within their iteration budget.
type evaluator func(cx, cy float64, p ViewParams) Classification

// evalTable dispatches by Kind. Adding a kind means adding one row here,
// one enum entry, and a default viewport.
var evalTable = [...]evaluator{
	Mandelbrot:         evalMandelbrot,
	MandelbrotSin:      evalMandelbrotSin,
	InvertedMandelbrot: evalInvertedMandelbrot,
	Tricorn:            evalTricorn,
	Julia:              evalJulia,
	BurningShip:        evalBurningShip,
	Celtic:             evalCeltic,
	Buffalo:            evalBuffalo,
	Newton:             evalNewton,
	Newton2:            evalNewton2,
	Newton3:            evalNewton3,
}

// Evaluate classifies the plane point (cx, cy) under the given kind.
// Invalid kinds classify as immediately escaped.
func Evaluate(kind Kind, cx, cy float64, p ViewParams) Classification {
	if !kind.valid() {
		return Escaped(0)
	}
	return evalTable[kind](cx, cy, p.normalized())
}

func evalMandelbrot(cx, cy float64, p ViewParams) Classification {
	zx, zy := 0.0, 0.0
	for i := 0; i < p.MaxIter; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 >= escapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = zx2-zy2+cx, 2*zx*zy+cy
	}
	return Escaped(p.MaxIter)
}

func evalJulia(cx, cy float64, p ViewParams) Classification {
	// The pixel seeds the orbit; the constant is the Julia parameter.
	zx, zy := cx, cy
	for i := 0; i < p.MaxIter; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 >= escapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = zx2-zy2+p.JuliaX, 2*zx*zy+p.JuliaY
	}
	return Escaped(p.MaxIter)
}

func evalTricorn(cx, cy float64, p ViewParams) Classification {
	zx, zy := 0.0, 0.0
	for i := 0; i < p.MaxIter; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 >= escapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = zx2-zy2+cx, -2*zx*zy+cy
	}
	return Escaped(p.MaxIter)
}

func evalBurningShip(cx, cy float64, p ViewParams) Classification {
	zx, zy := 0.0, 0.0
	for i := 0; i < p.MaxIter; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 >= escapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = zx2-zy2+cx, 2*math.Abs(zx*zy)+cy
	}
	return Escaped(p.MaxIter)
}

func evalCeltic(cx, cy float64, p ViewParams) Classification {
	zx, zy := 0.0, 0.0
	for i := 0; i < p.MaxIter; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 >= escapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = math.Abs(zx2-zy2)+cx, 2*zx*zy+cy
	}
	return Escaped(p.MaxIter)
}

func evalBuffalo(cx, cy float64, p ViewParams) Classification {
	zx, zy := 0.0, 0.0
	for i := 0; i < p.MaxIter; i++ {
		zx2, zy2 := zx*zx, zy*zy
		if zx2+zy2 >= escapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = math.Abs(zx2-zy2)+cx, 2*math.Abs(zx*zy)+cy
	}
	return Escaped(p.MaxIter)
}

func evalMandelbrotSin(cx, cy float64, p ViewParams) Classification {
	zx, zy := 0.0, 0.0
	for i := 0; i < p.MaxIter; i++ {
		if zx*zx+zy*zy >= sinEscapeRadiusSq {
			return Escaped(i)
		}
		zx, zy = math.Sin(zx)*math.Cosh(zy)+cx, math.Cos(zx)*math.Sinh(zy)+cy
	}
	return Escaped(p.MaxIter)
}

func evalInvertedMandelbrot(cx, cy float64, p ViewParams) Classification {
	r2 := cx*cx + cy*cy
	if r2 < invertEpsilonSq {
		return Escaped(p.MaxIter)
	}
	return evalMandelbrot(cx/r2, -cy/r2, p)
}
