package planner

import (
	"fmt"
	"math"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/target"
)

// PurePursuit is a non-optimizing baseline: each tracker steers toward its
// formation slot around the target's current position with proportional
// heading and speed control. Useful as a comparison point for the MPC
// pipeline; it honors the control box but not the separation constraint.
type PurePursuit struct {
	formation *Formation
	limits    kinematics.Limits

	KHeading float64
	KSpeed   float64
}

func NewPurePursuit(radius, rate float64, phases []float64, limits kinematics.Limits) (*PurePursuit, error) {
	formation, err := NewFormation(radius, rate, phases)
	if err != nil {
		return nil, err
	}
	return &PurePursuit{
		formation: formation,
		limits:    limits,
		KHeading:  2.0,
		KSpeed:    1.5,
	}, nil
}

func (pp *PurePursuit) Plan(t float64, center kinematics.State, trackers []kinematics.State, est target.Estimate) (*Plan, error) {
	if len(trackers) != len(pp.formation.Phases) {
		return nil, fmt.Errorf("planner: %d trackers but %d formation slots",
			len(trackers), len(pp.formation.Phases))
	}

	// Slots rotate around the target itself; the virtual center simply
	// pursues the target position.
	slots, _ := pp.formation.References([]kinematics.State{est.State}, t, 0, est.Speed())

	plan := &Plan{
		CenterControl:   pp.steer(center, est.State),
		TrackerControls: make([]kinematics.Control, len(trackers)),
		References:      make([][]kinematics.State, len(trackers)),
	}
	for i, tr := range trackers {
		slot := slots[i][0]
		plan.TrackerControls[i] = pp.steer(tr, slot)
		plan.References[i] = []kinematics.State{slot}
	}
	return plan, nil
}

// steer points the vehicle at goal with P-control on bearing error and a
// speed proportional to distance, clamped to the control box.
func (pp *PurePursuit) steer(x kinematics.State, goal kinematics.State) kinematics.Control {
	dx := goal[kinematics.IX] - x[kinematics.IX]
	dy := goal[kinematics.IY] - x[kinematics.IY]
	dist := math.Hypot(dx, dy)

	bearing := math.Atan2(dy, dx)
	headingErr := kinematics.WrapAngle(bearing - x[kinematics.IPsi])

	v := pp.KSpeed * dist
	if math.Abs(headingErr) > math.Pi/2 {
		// Turn in place rather than driving away from the goal.
		v = 0
	}
	return pp.limits.Clamp(kinematics.Control{v, pp.KHeading * headingErr})
}
