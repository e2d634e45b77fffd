package resample

import (
	"errors"
	"fmt"
	"sort"
)

// LinearInterpolant is a continuous piecewise-linear function through
// sorted knots. Outside the knot range it continues the first or last
// segment.
type LinearInterpolant struct {
	xs, ys []float64
}

var (
	ErrTooFewKnots = errors.New("interpolant needs at least 2 knots")
	ErrUnsorted    = errors.New("knots must be strictly increasing")
)

// NewLinearInterpolant builds an interpolant over (xs[i], ys[i]). xs must be
// strictly increasing. The slices are used as-is, not copied.
func NewLinearInterpolant(xs, ys []float64) (*LinearInterpolant, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interpolant: %d x values, %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, ErrTooFewKnots
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%v, x[%d]=%v", ErrUnsorted, i-1, xs[i-1], i, xs[i])
		}
	}
	return &LinearInterpolant{xs: xs, ys: ys}, nil
}

// At evaluates the interpolant at x. At a knot it returns that knot's
// value exactly.
func (li *LinearInterpolant) At(x float64) float64 {
	n := len(li.xs)
	i := sort.SearchFloat64s(li.xs, x) // first knot >= x
	if i < n && li.xs[i] == x {
		return li.ys[i]
	}

	lo := i - 1
	switch {
	case lo < 0:
		lo = 0
	case lo > n-2:
		lo = n - 2
	}
	x0, x1 := li.xs[lo], li.xs[lo+1]
	y0, y1 := li.ys[lo], li.ys[lo+1]
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// Eval evaluates the interpolant at every point of grid.
func (li *LinearInterpolant) Eval(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = li.At(x)
	}
	return out
}

// Domain returns the first and last knot.
func (li *LinearInterpolant) Domain() (lo, hi float64) {
	return li.xs[0], li.xs[len(li.xs)-1]
}
