package metrics

import (
	"math"

	"github.com/pursuitlab/slap/internal/sim"
)

// ControlEffort is the mean absolute control magnitude over all trackers.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (m *ControlEffort) Name() string { return "control_effort" }

func (m *ControlEffort) Observe(rec sim.StepRecord) {
	for _, u := range rec.TrackerControls {
		for _, v := range u {
			m.sum += math.Abs(v)
			m.samples++
		}
	}
}

func (m *ControlEffort) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *ControlEffort) Reset() {
	m.sum = 0
	m.samples = 0
}

// SolveTime is the mean planning time per cycle, in milliseconds.
type SolveTime struct {
	total   float64
	max     float64
	samples int
}

func NewSolveTime() *SolveTime {
	return &SolveTime{}
}

func (m *SolveTime) Name() string { return "solve_time_ms" }

func (m *SolveTime) Observe(rec sim.StepRecord) {
	ms := float64(rec.SolveTime.Microseconds()) / 1000.0
	m.total += ms
	if ms > m.max {
		m.max = ms
	}
	m.samples++
}

func (m *SolveTime) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

// Max returns the worst-case cycle time in milliseconds.
func (m *SolveTime) Max() float64 { return m.max }

func (m *SolveTime) Reset() {
	m.total = 0
	m.max = 0
	m.samples = 0
}
