package fractal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() ViewParams {
	return ViewParams{}.normalized()
}

func TestMandelbrotInterior(t *testing.T) {
	// The origin never escapes.
	got := Evaluate(Mandelbrot, 0, 0, defaultParams())
	assert.Equal(t, Escaped(DefaultMaxIter), got)
}

func TestMandelbrotEscapesImmediately(t *testing.T) {
	// |c| is already past the escape radius after the first step.
	got := Evaluate(Mandelbrot, 2, 2, defaultParams())
	assert.Equal(t, Escaped(1), got)
}

func TestMandelbrotBoundedCycle(t *testing.T) {
	// c = i settles into the 2-cycle (-1+i, -i).
	got := Evaluate(Mandelbrot, 0, 1, defaultParams())
	assert.Equal(t, Escaped(DefaultMaxIter), got)
}

func TestTricornDiffersFromMandelbrot(t *testing.T) {
	// The conjugated update sends c = i out of the set in three steps:
	// (0,1) -> (-1,1) -> (0,3), while the Mandelbrot orbit stays bounded.
	assert.Equal(t, Escaped(3), Evaluate(Tricorn, 0, 1, defaultParams()))
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(Mandelbrot, 0, 1, defaultParams()))
}

func TestTricornConjugateSymmetry(t *testing.T) {
	// The tricorn orbit of conj(c) is the conjugate orbit of c, so escape
	// counts mirror exactly across the real axis.
	p := defaultParams()
	for cx := -2.0; cx <= 0.5; cx += 0.25 {
		for cy := 0.25; cy <= 1.5; cy += 0.25 {
			upper := Evaluate(Tricorn, cx, cy, p)
			lower := Evaluate(Tricorn, cx, -cy, p)
			require.Equal(t, upper, lower, "cx=%g cy=%g", cx, cy)
		}
	}
}

func TestBurningShipAsymmetry(t *testing.T) {
	// The abs fold makes the two half planes genuinely different: c = i
	// escapes in three steps, c = -i falls into a bounded 2-cycle.
	assert.Equal(t, Escaped(3), Evaluate(BurningShip, 0, 1, defaultParams()))
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(BurningShip, 0, -1, defaultParams()))
}

func TestCelticDiffersFromMandelbrot(t *testing.T) {
	assert.Equal(t, Escaped(3), Evaluate(Celtic, 0, 1, defaultParams()))
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(Mandelbrot, 0, 1, defaultParams()))
}

func TestBuffaloFoldsBothTerms(t *testing.T) {
	// At c = -i the celtic fold alone escapes but the additional abs on the
	// imaginary term traps the buffalo orbit in a cycle.
	assert.Equal(t, Escaped(3), Evaluate(Celtic, 0, -1, defaultParams()))
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(Buffalo, 0, -1, defaultParams()))
	assert.Equal(t, Escaped(3), Evaluate(Buffalo, 0, 1, defaultParams()))
}

func TestMandelbrotSinWidenedRadius(t *testing.T) {
	// c = 3 exceeds the classic escape radius immediately but sin keeps the
	// orbit near the real segment [2, 4], inside the widened bound, forever.
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(MandelbrotSin, 3, 0, defaultParams()))
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(MandelbrotSin, 0, 0, defaultParams()))

	// Large imaginary parts blow up through sinh and do escape.
	got := Evaluate(MandelbrotSin, 0, 3, defaultParams())
	assert.Less(t, got.Value, DefaultMaxIter)
}

func TestInvertedMandelbrot(t *testing.T) {
	// Near-zero input would invert to infinity; it is defined as interior.
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(InvertedMandelbrot, 0, 0, defaultParams()))

	// c = 0.5 inverts to 2, which escapes on the first step.
	assert.Equal(t, Escaped(1), Evaluate(InvertedMandelbrot, 0.5, 0, defaultParams()))

	// c = 10 inverts to 0.1, deep inside the main cardioid.
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(InvertedMandelbrot, 10, 0, defaultParams()))
}

func TestJuliaSeedsFromPixel(t *testing.T) {
	// The pixel seeds the orbit, so a far pixel escapes before iterating.
	got := Evaluate(Julia, 2, 2, defaultParams())
	assert.Equal(t, Escaped(0), got)

	// With a zero parameter the origin is a fixed point.
	assert.Equal(t, Escaped(DefaultMaxIter), Evaluate(Julia, 0, 0, defaultParams()))

	// The parameter flows into the update: k = 2 pushes the origin out in
	// one step.
	got = Evaluate(Julia, 0, 0, ViewParams{JuliaX: 2}.normalized())
	assert.Equal(t, Escaped(1), got)
}

func TestEvaluateInvalidKind(t *testing.T) {
	assert.Equal(t, Escaped(0), Evaluate(Kind(-1), 0, 0, defaultParams()))
	assert.Equal(t, Escaped(0), Evaluate(Kind(42), 0, 0, defaultParams()))
}

func TestEvaluateStaysWithinBudget(t *testing.T) {
	// Every evaluator is total: the classification shape matches the kind
	// and the value never leaves its range, over a plane sweep.
	p := ViewParams{MaxIter: 60, NewtonIter: 30}.normalized()
	for _, kind := range Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			for cx := -2.0; cx <= 2.0; cx += 0.5 {
				for cy := -2.0; cy <= 2.0; cy += 0.5 {
					c := Evaluate(kind, cx, cy, p)
					if kind.IsNewton() {
						require.Equal(t, ShapeRoot, c.Shape)
						require.GreaterOrEqual(t, c.Value, 0)
						require.LessOrEqual(t, c.Value, kind.RootCount())
					} else {
						require.Equal(t, ShapeEscape, c.Shape)
						require.GreaterOrEqual(t, c.Value, 0)
						require.LessOrEqual(t, c.Value, p.MaxIter)
					}
				}
			}
		})
	}
}

func TestClassificationConstructors(t *testing.T) {
	assert.Equal(t, Classification{Shape: ShapeEscape, Value: 17}, Escaped(17))
	assert.Equal(t, Classification{Shape: ShapeRoot, Value: 2}, RootMatch(2))
}

func BenchmarkEvaluate(b *testing.B) {
	p := defaultParams()
	for _, kind := range Kinds() {
		b.Run(fmt.Sprintf("Evaluate_%s", kind), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = Evaluate(kind, -0.7465, 0.0965, p)
			}
		})
	}
}
