package metrics

import (
	"math"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/sim"
)

// TrackingRMSE is the root-mean-square position error of all trackers
// against their current formation references.
type TrackingRMSE struct {
	sumSq   float64
	samples int
}

func NewTrackingRMSE() *TrackingRMSE {
	return &TrackingRMSE{}
}

func (m *TrackingRMSE) Name() string { return "tracking_rmse" }

func (m *TrackingRMSE) Observe(rec sim.StepRecord) {
	for i, tr := range rec.Trackers {
		if i >= len(rec.References) || len(rec.References[i]) == 0 {
			continue
		}
		ref := rec.References[i][0]
		dx := tr[kinematics.IX] - ref[kinematics.IX]
		dy := tr[kinematics.IY] - ref[kinematics.IY]
		m.sumSq += dx*dx + dy*dy
		m.samples++
	}
}

func (m *TrackingRMSE) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *TrackingRMSE) Reset() {
	m.sumSq = 0
	m.samples = 0
}

// CenterError is the root-mean-square distance between the virtual center
// and the target.
type CenterError struct {
	sumSq   float64
	samples int
}

func NewCenterError() *CenterError {
	return &CenterError{}
}

func (m *CenterError) Name() string { return "center_rmse" }

func (m *CenterError) Observe(rec sim.StepRecord) {
	d := rec.Center.Dist(rec.Target.State)
	m.sumSq += d * d
	m.samples++
}

func (m *CenterError) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *CenterError) Reset() {
	m.sumSq = 0
	m.samples = 0
}
