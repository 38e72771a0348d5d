package planner

import (
	"fmt"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/ocp"
	"github.com/pursuitlab/slap/internal/target"
)

// CenterPlanner solves the virtual-center problem: track the extrapolated
// target position while matching its speed. Solutions warm-start the next
// cycle.
type CenterPlanner struct {
	horizon int
	dt      float64
	limits  kinematics.Limits
	weights ocp.Weights
	maxIter int

	warm [][]kinematics.Control
}

func NewCenterPlanner(horizon int, dt float64, limits kinematics.Limits, weights ocp.Weights, maxIter int) *CenterPlanner {
	return &CenterPlanner{
		horizon: horizon,
		dt:      dt,
		limits:  limits,
		weights: weights,
		maxIter: maxIter,
	}
}

// Plan returns the optimal center trajectory for this cycle.
func (c *CenterPlanner) Plan(center kinematics.State, est target.Estimate) (*ocp.Solution, error) {
	refs := est.Extrapolate(c.horizon, c.dt)

	// Velocity matching: the reference linear speed is the target's ground
	// speed, with no preferred yaw rate.
	refControls := make([]kinematics.Control, c.horizon)
	speed := est.Speed()
	for k := range refControls {
		refControls[k] = kinematics.Control{speed, 0}
	}

	problem := &ocp.Problem{
		Horizon:       c.horizon,
		Dt:            c.dt,
		Limits:        c.limits,
		Weights:       c.weights,
		Init:          []kinematics.State{center.Clone()},
		RefStates:     [][]kinematics.State{refs},
		RefControls:   [][]kinematics.Control{refControls},
		MaxIterations: c.maxIter,
	}

	sol, err := ocp.Solve(problem, c.warm)
	if err != nil {
		c.warm = nil
		return nil, fmt.Errorf("center planner: %w", err)
	}
	c.warm = sol.WarmStart()
	return sol, nil
}
