package planner

import (
	"fmt"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/ocp"
)

// TrackerPlanner plans both trackers jointly against their assigned circular
// references, with control smoothing and the hard pairwise separation
// constraint at every predicted step.
type TrackerPlanner struct {
	horizon    int
	dt         float64
	limits     kinematics.Limits
	weights    ocp.Weights
	separation float64
	maxIter    int

	warm [][]kinematics.Control
}

func NewTrackerPlanner(horizon int, dt float64, limits kinematics.Limits, weights ocp.Weights, separation float64, maxIter int) *TrackerPlanner {
	return &TrackerPlanner{
		horizon:    horizon,
		dt:         dt,
		limits:     limits,
		weights:    weights,
		separation: separation,
		maxIter:    maxIter,
	}
}

// Plan solves the joint tracker problem for this cycle.
func (t *TrackerPlanner) Plan(trackers []kinematics.State, refStates [][]kinematics.State, refControls [][]kinematics.Control) (*ocp.Solution, error) {
	init := make([]kinematics.State, len(trackers))
	for i, s := range trackers {
		init[i] = s.Clone()
	}

	problem := &ocp.Problem{
		Horizon:       t.horizon,
		Dt:            t.dt,
		Limits:        t.limits,
		Weights:       t.weights,
		Init:          init,
		RefStates:     refStates,
		RefControls:   refControls,
		Separation:    t.separation,
		MaxIterations: t.maxIter,
	}

	sol, err := ocp.Solve(problem, t.warm)
	if err != nil {
		t.warm = nil
		return nil, fmt.Errorf("tracker planner: %w", err)
	}
	t.warm = sol.WarmStart()
	return sol, nil
}
