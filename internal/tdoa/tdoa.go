// Package tdoa computes Time-Difference-of-Arrival loci: for a target and a
// pair of trackers, the set of positions consistent with the observed range
// difference is one branch of a hyperbola whose foci are the trackers.
//
// Recovering the target state from these loci is future work; the planner
// consumes an assumed-known target estimate and this package only renders
// the measurement geometry.
package tdoa

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/pursuitlab/slap/internal/traj"
)

var (
	// ErrCoincident indicates the two trackers share a position, so no
	// baseline frame exists.
	ErrCoincident = errors.New("tdoa: tracker positions are coincident")

	// ErrNoLocus indicates the range difference exceeds the baseline, which
	// no real point can produce.
	ErrNoLocus = errors.New("tdoa: range difference exceeds tracker baseline")
)

// RangeDiff is the difference of target ranges to the two trackers,
// d(target, a) - d(target, b). Negative when tracker a is the nearer one.
func RangeDiff(target, a, b traj.Point) float64 {
	return dist(target, a) - dist(target, b)
}

// Semiaxes returns the squared semi-axes of the hyperbola for a range
// difference and tracker baseline distance.
func Semiaxes(rangeDiff, baseline float64) (aSq, bSq float64) {
	aSq = 0.25 * rangeDiff * rangeDiff
	bSq = 0.25*baseline*baseline - aSq
	return aSq, bSq
}

// Calculator samples hyperbola branches with a fixed parameter grid. The
// grid is uniform in sinh space, so the samples are evenly spaced along the
// branch's y coordinate.
type Calculator struct {
	params []float64
}

// NewCalculator builds a calculator sampling the hyperbolic parameter range
// [-paramMax, paramMax] at the given resolution.
func NewCalculator(paramMax float64, samples int) *Calculator {
	if samples < 2 {
		samples = 2
	}
	yMin := math.Sinh(-paramMax)
	yMax := math.Sinh(paramMax)
	delta := (yMax - yMin) / float64(samples-1)

	params := make([]float64, samples)
	for i := range params {
		params[i] = math.Asinh(yMin + float64(i)*delta)
	}
	return &Calculator{params: params}
}

// Locus returns the hyperbola branch (in inertial coordinates) on which the
// target must lie given its true position and both tracker positions.
func (c *Calculator) Locus(target, a, b traj.Point) (xs, ys []float64, err error) {
	baseline := dist(a, b)
	if baseline == 0 {
		return nil, nil, ErrCoincident
	}

	rd := RangeDiff(target, a, b)
	aSq, bSq := Semiaxes(rd, baseline)
	if bSq < 0 {
		return nil, nil, fmt.Errorf("%w: |%.3f| > %.3f", ErrNoLocus, rd, baseline)
	}

	// Branch in the baseline frame: x along the focal axis toward tracker a.
	// The branch opens toward the nearer tracker (rd < 0 means a is nearer).
	xs = make([]float64, len(c.params))
	ys = make([]float64, len(c.params))
	sa, sb := math.Sqrt(aSq), math.Sqrt(bSq)
	sign := 1.0
	if rd >= 0 {
		sign = -1.0
	}
	for i, p := range c.params {
		xs[i] = sign * sa * math.Cosh(p)
		ys[i] = sb * math.Sinh(p)
	}

	toInertial(frame(a, b), xs, ys)
	return xs, ys, nil
}

// frame builds the homogeneous transform from the baseline frame (origin at
// the midpoint, x-axis toward tracker a) to inertial coordinates.
func frame(a, b traj.Point) *mat.Dense {
	ox := (a.X + b.X) / 2
	oy := (a.Y + b.Y) / 2

	vx := traj.Point{X: a.X - ox, Y: a.Y - oy}
	n := math.Hypot(vx.X, vx.Y)
	vx.X /= n
	vx.Y /= n

	// Second axis is the perpendicular (vx.Y, -vx.X); the hyperbola is
	// symmetric about the focal axis, so the orientation flip is harmless.
	return mat.NewDense(3, 3, []float64{
		vx.X, vx.Y, ox,
		vx.Y, -vx.X, oy,
		0, 0, 1,
	})
}

// toInertial applies the homogeneous transform to the sample arrays in place.
func toInertial(t *mat.Dense, xs, ys []float64) {
	p := mat.NewVecDense(3, nil)
	var out mat.VecDense
	for i := range xs {
		p.SetVec(0, xs[i])
		p.SetVec(1, ys[i])
		p.SetVec(2, 1)
		out.MulVec(t, p)
		xs[i] = out.AtVec(0)
		ys[i] = out.AtVec(1)
	}
}

func dist(p, q traj.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}
