package fractal

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewtonPolynomialRoots(t *testing.T) {
	// Every tabulated root must actually satisfy its polynomial.
	polys := map[string]*newtonPoly{
		"cubic":       &cubicPoly,
		"offsetCubic": &offsetCubicPoly,
		"quintic":     &quinticPoly,
	}
	for name, poly := range polys {
		t.Run(name, func(t *testing.T) {
			for i, r := range poly.roots {
				fx, fy, _, _ := poly.eval(r.x, r.y)
				residual := math.Hypot(fx, fy)
				assert.Less(t, residual, 1e-5, "root %d residual %g", i+1, residual)
			}
		})
	}
}

func TestNewtonConvergesToNearestRoot(t *testing.T) {
	// A seed just off a root converges back to it and reports that root's
	// 1-based index.
	tests := []struct {
		kind Kind
		poly *newtonPoly
	}{
		{Newton, &cubicPoly},
		{Newton2, &offsetCubicPoly},
		{Newton3, &quinticPoly},
	}
	p := defaultParams()
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			for i, r := range tt.poly.roots {
				got := Evaluate(tt.kind, r.x+0.01, r.y+0.01, p)
				require.Equal(t, ShapeRoot, got.Shape)
				assert.Equal(t, i+1, got.Value, "seed near root %d", i+1)
			}
		})
	}
}

func TestNewtonCriticalPointReturnsNoConvergence(t *testing.T) {
	// f'(0) = 0 for both z^3 - 1 and z^5 + z^2 - 1: the Newton step is
	// undefined and the point classifies as non-converging.
	assert.Equal(t, RootMatch(0), Evaluate(Newton, 0, 0, defaultParams()))
	assert.Equal(t, RootMatch(0), Evaluate(Newton3, 0, 0, defaultParams()))
}

func TestNewton2TrapsTwoCycle(t *testing.T) {
	// For z^3 - 2z + 2 the origin is famous for cycling 0 -> 1 -> 0 under
	// Newton's method; the budget runs out without convergence.
	assert.Equal(t, RootMatch(0), Evaluate(Newton2, 0, 0, defaultParams()))
}

func TestNewtonBudgetExhaustion(t *testing.T) {
	// One step from a distant seed cannot reach any root.
	p := ViewParams{NewtonIter: 1}.normalized()
	got := Evaluate(Newton, 100, 100, p)
	assert.Equal(t, RootMatch(0), got)

	// With the full budget the same seed does converge somewhere.
	got = Evaluate(Newton, 100, 100, defaultParams())
	assert.Greater(t, got.Value, 0)
}

func TestNewtonRootIndexRange(t *testing.T) {
	p := defaultParams()
	kinds := []Kind{Newton, Newton2, Newton3}
	for _, kind := range kinds {
		for cx := -2.0; cx <= 2.0; cx += 0.2 {
			for cy := -2.0; cy <= 2.0; cy += 0.2 {
				c := Evaluate(kind, cx, cy, p)
				require.Equal(t, ShapeRoot, c.Shape)
				require.GreaterOrEqual(t, c.Value, 0)
				require.LessOrEqual(t, c.Value, kind.RootCount(), "kind %s at (%g, %g)", kind, cx, cy)
			}
		}
	}
}

func TestNewtonBasinSymmetry(t *testing.T) {
	// z^3 - 1 has real coefficients, so conjugate seeds land in conjugate
	// basins: root 1 is real and roots 2 and 3 swap.
	p := defaultParams()
	conjugate := map[int]int{0: 0, 1: 1, 2: 3, 3: 2}
	for cx := -1.5; cx <= 1.5; cx += 0.3 {
		for cy := 0.1; cy <= 1.5; cy += 0.3 {
			upper := Evaluate(Newton, cx, cy, p)
			lower := Evaluate(Newton, cx, -cy, p)
			require.Equal(t, conjugate[upper.Value], lower.Value, "seed (%g, %g)", cx, cy)
		}
	}
}
