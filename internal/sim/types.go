package sim

import (
	"time"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/target"
)

// Config controls a pursuit run.
type Config struct {
	Dt       float64
	Duration float64
	Seed     int64
}

// Scenario is the initial condition of a pursuit run.
type Scenario struct {
	Target   *target.Model
	Center   kinematics.State
	Trackers []kinematics.State
}

// StepRecord is the observation passed to metrics after each cycle.
type StepRecord struct {
	Cycle int
	Time  float64

	Target   target.Estimate
	Center   kinematics.State
	Trackers []kinematics.State

	CenterControl   kinematics.Control
	TrackerControls []kinematics.Control

	// References holds each tracker's reference trajectory for this cycle;
	// index 0 is the reference for the state just reached.
	References [][]kinematics.State

	SolveTime time.Duration

	// Separation is the realized inter-tracker distance after this cycle.
	Separation float64
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(rec StepRecord)
	Value() float64
	Reset()
}

// Observer receives every step record, e.g. for live display.
type Observer interface {
	OnStep(rec StepRecord)
}

// Result is the recorded outcome of a pursuit run.
type Result struct {
	Times       []float64
	States      [][]float64 // flattened rows, see StateColumns
	Controls    [][]float64 // flattened rows, see ControlColumns
	SolveTimes  []float64   // seconds per cycle
	Separations []float64
	Metrics     map[string]float64
	Cycles      int
}

// StateColumns names the columns of a flattened state row.
func StateColumns() []string {
	return []string{
		"tgt_x", "tgt_y", "tgt_psi",
		"ctr_x", "ctr_y", "ctr_psi",
		"t1_x", "t1_y", "t1_psi",
		"t2_x", "t2_y", "t2_psi",
	}
}

// ControlColumns names the columns of a flattened control row.
func ControlColumns() []string {
	return []string{
		"ctr_v", "ctr_r",
		"t1_v", "t1_r",
		"t2_v", "t2_r",
	}
}

// Column extracts one state column by name. Returns nil for unknown names.
func (r *Result) Column(name string) []float64 {
	idx := -1
	for i, col := range StateColumns() {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, len(r.States))
	for i, row := range r.States {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

func flattenState(tgt, ctr kinematics.State, trackers []kinematics.State) []float64 {
	row := make([]float64, 0, (2+len(trackers))*kinematics.StateDim)
	row = append(row, tgt...)
	row = append(row, ctr...)
	for _, tr := range trackers {
		row = append(row, tr...)
	}
	return row
}

func flattenControl(ctr kinematics.Control, trackers []kinematics.Control) []float64 {
	row := make([]float64, 0, (1+len(trackers))*kinematics.ControlDim)
	row = append(row, ctr...)
	for _, u := range trackers {
		row = append(row, u...)
	}
	return row
}
