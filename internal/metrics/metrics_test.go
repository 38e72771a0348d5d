package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/sim"
	"github.com/pursuitlab/slap/internal/target"
)

func record(sep float64) sim.StepRecord {
	return sim.StepRecord{
		Target:   target.Estimate{State: kinematics.State{0, 0, 0}},
		Center:   kinematics.State{3, 4, 0},
		Trackers: []kinematics.State{{1, 0, 0}, {0, 2, 0}},
		References: [][]kinematics.State{
			{{0, 0, 0}},
			{{0, 0, 0}},
		},
		TrackerControls: []kinematics.Control{{2, 1}, {0, -1}},
		SolveTime:       20 * time.Millisecond,
		Separation:      sep,
	}
}

func TestTrackingRMSE(t *testing.T) {
	m := NewTrackingRMSE()
	m.Observe(record(1))

	// Errors are 1 and 2; RMSE = sqrt((1+4)/2).
	want := math.Sqrt(2.5)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("rmse: got %.6f, want %.6f", m.Value(), want)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("value should be 0 after reset")
	}
}

func TestCenterError(t *testing.T) {
	m := NewCenterError()
	m.Observe(record(1))

	if math.Abs(m.Value()-5.0) > 1e-12 {
		t.Errorf("center rmse: got %.6f, want 5", m.Value())
	}
}

func TestMinSeparation(t *testing.T) {
	m := NewMinSeparation()
	if m.Value() != 0 {
		t.Error("empty metric should report 0")
	}

	m.Observe(record(3.0))
	m.Observe(record(1.2))
	m.Observe(record(2.5))

	if m.Value() != 1.2 {
		t.Errorf("min separation: got %.2f, want 1.2", m.Value())
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(record(1))

	// |2| + |1| + |0| + |-1| over 4 samples.
	if math.Abs(m.Value()-1.0) > 1e-12 {
		t.Errorf("effort: got %.4f, want 1.0", m.Value())
	}
}

func TestSolveTime(t *testing.T) {
	m := NewSolveTime()
	m.Observe(record(1))
	rec := record(1)
	rec.SolveTime = 40 * time.Millisecond
	m.Observe(rec)

	if math.Abs(m.Value()-30.0) > 1e-9 {
		t.Errorf("mean solve time: got %.2f ms, want 30", m.Value())
	}
	if math.Abs(m.Max()-40.0) > 1e-9 {
		t.Errorf("max solve time: got %.2f ms, want 40", m.Max())
	}
}
