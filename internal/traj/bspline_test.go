package traj

import (
	"math"
	"testing"
)

func TestClampedEndpoints(t *testing.T) {
	ctrl := []Point{{0, 0}, {1, 2}, {3, 3}, {5, 1}, {6, 0}}
	b, err := NewBSpline(ctrl, 3)
	if err != nil {
		t.Fatal(err)
	}

	start := b.Eval(0)
	end := b.Eval(1)

	if math.Abs(start.X-ctrl[0].X) > 1e-9 || math.Abs(start.Y-ctrl[0].Y) > 1e-9 {
		t.Errorf("start: got (%.4f, %.4f), want (0, 0)", start.X, start.Y)
	}
	if math.Abs(end.X-ctrl[4].X) > 1e-9 || math.Abs(end.Y-ctrl[4].Y) > 1e-9 {
		t.Errorf("end: got (%.4f, %.4f), want (6, 0)", end.X, end.Y)
	}
}

func TestDegreeClampedToPointCount(t *testing.T) {
	ctrl := []Point{{0, 0}, {1, 1}}
	b, err := NewBSpline(ctrl, 3)
	if err != nil {
		t.Fatal(err)
	}

	// With two points the curve degenerates to the segment between them.
	mid := b.Eval(0.5)
	if math.Abs(mid.X-0.5) > 1e-9 || math.Abs(mid.Y-0.5) > 1e-9 {
		t.Errorf("midpoint: got (%.4f, %.4f), want (0.5, 0.5)", mid.X, mid.Y)
	}
}

func TestTooFewControlPoints(t *testing.T) {
	if _, err := NewBSpline([]Point{{0, 0}}, 3); err == nil {
		t.Error("expected error for a single control point")
	}
}

func TestDerivativeMatchesFiniteDifference(t *testing.T) {
	ctrl := []Point{{0, 0}, {2, 4}, {5, 5}, {8, 2}, {10, 0}, {12, 3}}
	b, err := NewBSpline(ctrl, 3)
	if err != nil {
		t.Fatal(err)
	}
	db := b.Derivative()

	h := 1e-6
	for _, u := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		p0 := b.Eval(u - h)
		p1 := b.Eval(u + h)
		fdX := (p1.X - p0.X) / (2 * h)
		fdY := (p1.Y - p0.Y) / (2 * h)

		d := db.Eval(u)
		if math.Abs(d.X-fdX) > 1e-3 || math.Abs(d.Y-fdY) > 1e-3 {
			t.Errorf("u=%.2f: derivative (%.4f, %.4f), finite diff (%.4f, %.4f)",
				u, d.X, d.Y, fdX, fdY)
		}
	}
}

func TestSampleCount(t *testing.T) {
	ctrl := []Point{{0, 0}, {1, 1}, {2, 0}, {3, 1}}
	b, _ := NewBSpline(ctrl, 3)

	pts := b.Sample(50)
	if len(pts) != 50 {
		t.Fatalf("expected 50 samples, got %d", len(pts))
	}
	if pts[0] != b.Eval(0) || pts[49] != b.Eval(1) {
		t.Error("samples should span the full parameter range")
	}
}
