package metrics

import (
	"math"

	"github.com/pursuitlab/slap/internal/sim"
)

// MinSeparation tracks the smallest realized inter-tracker distance over a
// run.
type MinSeparation struct {
	min float64
}

func NewMinSeparation() *MinSeparation {
	return &MinSeparation{min: math.Inf(1)}
}

func (m *MinSeparation) Name() string { return "min_separation" }

func (m *MinSeparation) Observe(rec sim.StepRecord) {
	if rec.Separation < m.min {
		m.min = rec.Separation
	}
}

func (m *MinSeparation) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinSeparation) Reset() {
	m.min = math.Inf(1)
}
