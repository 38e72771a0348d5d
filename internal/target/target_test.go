package target

import (
	"math"
	"testing"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/traj"
)

var testPath = []traj.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}, {X: 15, Y: 5}, {X: 20, Y: 0}}

func TestConstantGroundSpeed(t *testing.T) {
	m, err := NewModel(testPath, 2.0)
	if err != nil {
		t.Fatal(err)
	}

	dt := 0.01
	prev := m.Telemetry().State
	for i := 0; i < 200; i++ {
		m.Advance(dt)
		cur := m.Telemetry().State
		speed := prev.Dist(cur) / dt
		// Parameter-space stepping approximates arc length locally; allow
		// a few percent drift.
		if math.Abs(speed-2.0) > 0.15 {
			t.Fatalf("step %d: ground speed %.4f, want ~2.0", i, speed)
		}
		prev = cur
	}
}

func TestTelemetryHeadingIsTangent(t *testing.T) {
	m, err := NewModel(testPath, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	m.Advance(0.5)

	est := m.Telemetry()
	wantPsi := math.Atan2(est.VY, est.VX)
	if math.Abs(kinematics.WrapAngle(est.State[kinematics.IPsi]-wantPsi)) > 1e-9 {
		t.Errorf("heading %.4f does not match velocity direction %.4f",
			est.State[kinematics.IPsi], wantPsi)
	}
}

func TestStopsAtPathEnd(t *testing.T) {
	m, err := NewModel([]traj.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}, 5.0)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 1000; i++ {
		m.Advance(0.1)
	}
	if !m.Done() {
		t.Fatal("target should have reached the end of its path")
	}

	est := m.Telemetry()
	if est.VX != 0 || est.VY != 0 {
		t.Errorf("velocity should be zero at path end, got (%.4f, %.4f)", est.VX, est.VY)
	}
	end := est.State
	if math.Abs(end[kinematics.IX]-3.0) > 1e-6 {
		t.Errorf("final x: got %.4f, want 3.0", end[kinematics.IX])
	}
}

func TestInvalidSpeed(t *testing.T) {
	if _, err := NewModel(testPath, 0); err == nil {
		t.Error("expected error for zero speed")
	}
	if _, err := NewModel(testPath, -1); err == nil {
		t.Error("expected error for negative speed")
	}
}

func TestExtrapolate(t *testing.T) {
	est := Estimate{
		State: kinematics.State{1, 2, 0},
		VX:    2.0,
		VY:    0,
	}

	refs := est.Extrapolate(5, 0.1)
	if len(refs) != 5 {
		t.Fatalf("expected 5 references, got %d", len(refs))
	}

	for k, ref := range refs {
		wantX := 1 + 0.2*float64(k+1)
		if math.Abs(ref[kinematics.IX]-wantX) > 1e-12 {
			t.Errorf("step %d: x=%.4f, want %.4f", k, ref[kinematics.IX], wantX)
		}
		if ref[kinematics.IY] != 2 {
			t.Errorf("step %d: y should stay 2", k)
		}
		if ref[kinematics.IPsi] != 0 {
			t.Errorf("step %d: heading should be 0", k)
		}
	}
}

func TestExtrapolateStationaryKeepsHeading(t *testing.T) {
	est := Estimate{State: kinematics.State{0, 0, 1.2}}
	refs := est.Extrapolate(3, 0.1)
	for _, ref := range refs {
		if ref[kinematics.IPsi] != 1.2 {
			t.Errorf("stationary target should keep heading, got %.4f", ref[kinematics.IPsi])
		}
	}
}
