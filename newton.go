package fractal

// root is a precomputed polynomial root position.
type root struct {
	x, y float64
}

// newtonPoly bundles a polynomial with its derivative and root table for
// basin classification. eval returns f(z) and f'(z) in components.
type newtonPoly struct {
	eval  func(zx, zy float64) (fx, fy, fpx, fpy float64)
	roots []root
	// tolSq is the squared-distance convergence tolerance; looser for the
	// quintic, whose roots are less well conditioned.
	tolSq float64
}

const halfSqrt3 = 0.8660254037844386

var cubicPoly = newtonPoly{
	// z^3 - 1
	roots: []root{
		{1, 0},
		{-0.5, halfSqrt3},
		{-0.5, -halfSqrt3},
	},
	tolSq: 1e-6,
	eval: func(zx, zy float64) (float64, float64, float64, float64) {
		zx2, zy2 := zx*zx, zy*zy
		fx := zx*zx2 - 3*zx*zy2 - 1
		fy := 3*zx2*zy - zy*zy2
		fpx := 3 * (zx2 - zy2)
		fpy := 6 * zx * zy
		return fx, fy, fpx, fpy
	},
}

var offsetCubicPoly = newtonPoly{
	// z^3 - 2z + 2
	roots: []root{
		{-1.7692923542386314, 0},
		{0.8846461771193157, 0.5897428050222055},
		{0.8846461771193157, -0.5897428050222055},
	},
	tolSq: 1e-6,
	eval: func(zx, zy float64) (float64, float64, float64, float64) {
		zx2, zy2 := zx*zx, zy*zy
		fx := zx*zx2 - 3*zx*zy2 - 2*zx + 2
		fy := 3*zx2*zy - zy*zy2 - 2*zy
		fpx := 3*(zx2-zy2) - 2
		fpy := 6 * zx * zy
		return fx, fy, fpx, fpy
	},
}

var quinticPoly = newtonPoly{
	// z^5 + z^2 - 1
	roots: []root{
		{0.8087306004918643, 0},
		{0.4649124, 1.0714740},
		{0.4649124, -1.0714740},
		{-0.8692777, 0.3882664},
		{-0.8692777, -0.3882664},
	},
	tolSq: 1e-4,
	eval: func(zx, zy float64) (float64, float64, float64, float64) {
		zx2, zy2 := zx*zx, zy*zy
		// z^2 = (a, b), z^4 = (a^2 - b^2, 2ab)
		a := zx2 - zy2
		b := 2 * zx * zy
		a2b2 := a*a - b*b
		ab2 := 2 * a * b
		fx := a2b2*zx - ab2*zy + a - 1
		fy := a2b2*zy + ab2*zx + b
		fpx := 5*a2b2 + 2*zx
		fpy := 5*ab2 + 2*zy
		return fx, fy, fpx, fpy
	},
}

// newtonClassify runs Newton's method from the pixel seed and reports the
// 1-based index of the first root reached within tolerance, or 0 when the
// derivative vanishes or the budget runs out.
func newtonClassify(zx, zy float64, poly *newtonPoly, budget int) Classification {
	for i := 0; i < budget; i++ {
		fx, fy, fpx, fpy := poly.eval(zx, zy)
		denom := fpx*fpx + fpy*fpy
		if denom == 0 {
			// Critical point of the derivative: the step is undefined.
			return RootMatch(0)
		}
		zx -= (fx*fpx + fy*fpy) / denom
		zy -= (fy*fpx - fx*fpy) / denom
		for idx, r := range poly.roots {
			dx, dy := zx-r.x, zy-r.y
			if dx*dx+dy*dy < poly.tolSq {
				return RootMatch(idx + 1)
			}
		}
	}
	return RootMatch(0)
}

func evalNewton(cx, cy float64, p ViewParams) Classification {
	return newtonClassify(cx, cy, &cubicPoly, p.NewtonIter)
}

func evalNewton2(cx, cy float64, p ViewParams) Classification {
	return newtonClassify(cx, cy, &offsetCubicPoly, p.NewtonIter)
}

func evalNewton3(cx, cy float64, p ViewParams) Classification {
	return newtonClassify(cx, cy, &quinticPoly, p.NewtonIter)
}
