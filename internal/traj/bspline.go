package traj

import "fmt"

// Point is a planar point.
type Point struct {
	X, Y float64
}

// BSpline is a clamped uniform B-spline over 2D control points, parameterized
// on [0, 1]. The knot vector repeats the boundary knots degree+1 times so the
// curve interpolates the first and last control points.
type BSpline struct {
	degree int
	knots  []float64
	ctrl   []Point
}

// NewBSpline builds a clamped uniform spline. The requested degree is reduced
// to len(ctrl)-1 when there are too few control points.
func NewBSpline(ctrl []Point, degree int) (*BSpline, error) {
	n := len(ctrl)
	if n < 2 {
		return nil, fmt.Errorf("traj: need at least 2 control points, got %d", n)
	}
	if degree < 1 {
		degree = 1
	}
	if degree > n-1 {
		degree = n - 1
	}

	// Knot vector: degree zeros, 0..n-degree, degree copies of n-degree,
	// normalized to [0, 1].
	spans := n - degree
	knots := make([]float64, 0, n+degree+1)
	for i := 0; i < degree; i++ {
		knots = append(knots, 0)
	}
	for i := 0; i <= spans; i++ {
		knots = append(knots, float64(i)/float64(spans))
	}
	for i := 0; i < degree; i++ {
		knots = append(knots, 1)
	}

	cp := make([]Point, n)
	copy(cp, ctrl)

	return &BSpline{degree: degree, knots: knots, ctrl: cp}, nil
}

// Eval evaluates the curve at parameter t using De Boor's algorithm.
// t is clamped to [0, 1].
func (b *BSpline) Eval(t float64) Point {
	if t <= 0 {
		t = 0
	}
	if t >= 1 {
		t = 1
	}

	k := b.span(t)

	// Working copy of the affected control points.
	d := make([]Point, b.degree+1)
	for j := 0; j <= b.degree; j++ {
		d[j] = b.ctrl[k-b.degree+j]
	}

	for r := 1; r <= b.degree; r++ {
		for j := b.degree; j >= r; j-- {
			i := k - b.degree + j
			denom := b.knots[i+b.degree+1-r] - b.knots[i]
			var alpha float64
			if denom != 0 {
				alpha = (t - b.knots[i]) / denom
			}
			d[j] = Point{
				X: (1-alpha)*d[j-1].X + alpha*d[j].X,
				Y: (1-alpha)*d[j-1].Y + alpha*d[j].Y,
			}
		}
	}

	return d[b.degree]
}

// Derivative returns the hodograph: a spline of degree-1 evaluating to the
// parametric derivative dC/dt.
func (b *BSpline) Derivative() *BSpline {
	p := b.degree
	n := len(b.ctrl)

	dctrl := make([]Point, n-1)
	for i := 0; i < n-1; i++ {
		denom := b.knots[i+p+1] - b.knots[i+1]
		scale := 0.0
		if denom != 0 {
			scale = float64(p) / denom
		}
		dctrl[i] = Point{
			X: scale * (b.ctrl[i+1].X - b.ctrl[i].X),
			Y: scale * (b.ctrl[i+1].Y - b.ctrl[i].Y),
		}
	}

	dknots := make([]float64, len(b.knots)-2)
	copy(dknots, b.knots[1:len(b.knots)-1])

	deg := p - 1
	if deg < 1 {
		deg = 1
		if len(dctrl) == 1 {
			dctrl = append(dctrl, dctrl[0])
			dknots = []float64{0, 0, 1, 1}
		}
	}

	return &BSpline{degree: deg, knots: dknots, ctrl: dctrl}
}

// Sample returns n points evenly spaced in parameter.
func (b *BSpline) Sample(n int) []Point {
	if n < 2 {
		n = 2
	}
	pts := make([]Point, n)
	for i := 0; i < n; i++ {
		pts[i] = b.Eval(float64(i) / float64(n-1))
	}
	return pts
}

// span returns the knot span index k with knots[k] <= t < knots[k+1].
func (b *BSpline) span(t float64) int {
	n := len(b.ctrl)
	if t >= 1 {
		return n - 1
	}
	for k := b.degree; k < n; k++ {
		if t < b.knots[k+1] {
			return k
		}
	}
	return n - 1
}
