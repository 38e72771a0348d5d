package ocp

import (
	"fmt"
	"math"

	"github.com/pursuitlab/slap/internal/kinematics"
)

// Weights are the quadratic cost weights of a planning problem.
type Weights struct {
	Pos     float64 `yaml:"pos"`     // squared position tracking error
	Heading float64 `yaml:"heading"` // squared (wrapped) heading error
	Vel     float64 `yaml:"vel"`     // squared linear-speed deviation from reference
	Rate    float64 `yaml:"rate"`    // squared yaw-rate deviation from reference
	Smooth  float64 `yaml:"smooth"`  // squared successive-control differences
}

// Problem is a joint finite-horizon optimal-control problem over one or more
// vehicles sharing the unicycle model, box control bounds and timestep.
type Problem struct {
	Horizon int
	Dt      float64
	Limits  kinematics.Limits
	Weights Weights

	// Per vehicle: initial state and per-step references. RefControls may be
	// nil when no control reference applies.
	Init        []kinematics.State
	RefStates   [][]kinematics.State
	RefControls [][]kinematics.Control

	// Separation is the minimum pairwise inter-vehicle distance, enforced at
	// every predicted step. Zero disables the constraint.
	Separation       float64
	SeparationWeight float64

	// MaxIterations bounds the L-BFGS major iterations. Zero means the
	// solver default.
	MaxIterations int
}

func (p *Problem) vehicles() int { return len(p.Init) }

func (p *Problem) validate() error {
	if p.Horizon < 1 {
		return fmt.Errorf("%w: horizon %d", ErrBadProblem, p.Horizon)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt %f", ErrBadProblem, p.Dt)
	}
	if !p.Limits.Valid() {
		return fmt.Errorf("%w: empty control box", ErrBadProblem)
	}
	if len(p.Init) == 0 {
		return fmt.Errorf("%w: no vehicles", ErrBadProblem)
	}
	if len(p.RefStates) != len(p.Init) {
		return fmt.Errorf("%w: %d vehicles but %d reference sets",
			ErrBadProblem, len(p.Init), len(p.RefStates))
	}
	for i, refs := range p.RefStates {
		if len(refs) != p.Horizon {
			return fmt.Errorf("%w: vehicle %d has %d reference states, want %d",
				ErrBadProblem, i, len(refs), p.Horizon)
		}
	}
	if p.RefControls != nil {
		if len(p.RefControls) != len(p.Init) {
			return fmt.Errorf("%w: %d vehicles but %d control reference sets",
				ErrBadProblem, len(p.Init), len(p.RefControls))
		}
		for i, refs := range p.RefControls {
			if len(refs) != p.Horizon {
				return fmt.Errorf("%w: vehicle %d has %d reference controls, want %d",
					ErrBadProblem, i, len(refs), p.Horizon)
			}
		}
	}
	if p.Separation > 0 && len(p.Init) < 2 {
		return fmt.Errorf("%w: separation constraint needs at least two vehicles", ErrBadProblem)
	}
	return nil
}

// rollout propagates every vehicle from its initial state under the decoded
// control sequences, forward Euler with the problem timestep. The returned
// slice is indexed [vehicle][step] with step 0 the initial state.
func (p *Problem) rollout(controls [][]kinematics.Control) [][]kinematics.State {
	m := p.vehicles()
	states := make([][]kinematics.State, m)
	for i := 0; i < m; i++ {
		states[i] = make([]kinematics.State, p.Horizon+1)
		states[i][0] = p.Init[i].Clone()
		for k := 0; k < p.Horizon; k++ {
			x := states[i][k]
			u := controls[i][k]
			v, r := u[kinematics.IV], u[kinematics.IR]
			states[i][k+1] = kinematics.State{
				x[kinematics.IX] + p.Dt*v*math.Cos(x[kinematics.IPsi]),
				x[kinematics.IY] + p.Dt*v*math.Sin(x[kinematics.IPsi]),
				x[kinematics.IPsi] + p.Dt*r,
			}
		}
	}
	return states
}

// cost evaluates the full objective for decoded controls and their rollout.
func (p *Problem) cost(controls [][]kinematics.Control, states [][]kinematics.State) float64 {
	w := p.Weights
	total := 0.0

	for i := 0; i < p.vehicles(); i++ {
		for k := 0; k < p.Horizon; k++ {
			x := states[i][k+1]
			ref := p.RefStates[i][k]

			dx := x[kinematics.IX] - ref[kinematics.IX]
			dy := x[kinematics.IY] - ref[kinematics.IY]
			dpsi := kinematics.WrapAngle(x[kinematics.IPsi] - ref[kinematics.IPsi])
			total += w.Pos*(dx*dx+dy*dy) + w.Heading*dpsi*dpsi

			u := controls[i][k]
			if p.RefControls != nil {
				uref := p.RefControls[i][k]
				dv := u[kinematics.IV] - uref[kinematics.IV]
				dr := u[kinematics.IR] - uref[kinematics.IR]
				total += w.Vel*dv*dv + w.Rate*dr*dr
			}
			if k > 0 && w.Smooth > 0 {
				prev := controls[i][k-1]
				dv := u[kinematics.IV] - prev[kinematics.IV]
				dr := u[kinematics.IR] - prev[kinematics.IR]
				total += w.Smooth * (dv*dv + dr*dr)
			}
		}
	}

	if p.Separation > 0 {
		total += p.separationPenalty(states)
	}
	return total
}

// separationPenalty is a smooth quadratic hinge on pairwise distance at every
// predicted step.
func (p *Problem) separationPenalty(states [][]kinematics.State) float64 {
	w := p.SeparationWeight
	if w <= 0 {
		w = DefaultSeparationWeight
	}
	minSq := p.Separation * p.Separation

	pen := 0.0
	m := p.vehicles()
	for k := 1; k <= p.Horizon; k++ {
		for i := 0; i < m; i++ {
			for j := i + 1; j < m; j++ {
				dx := states[i][k][kinematics.IX] - states[j][k][kinematics.IX]
				dy := states[i][k][kinematics.IY] - states[j][k][kinematics.IY]
				dSq := dx*dx + dy*dy
				if dSq < minSq {
					gap := minSq - dSq
					pen += w * gap * gap
				}
			}
		}
	}
	return pen
}

// minSeparation returns the smallest pairwise distance over predicted steps
// 1..N. Returns +Inf for a single vehicle.
func minSeparation(states [][]kinematics.State) float64 {
	m := len(states)
	min := math.Inf(1)
	if m < 2 {
		return min
	}
	horizon := len(states[0]) - 1
	for k := 1; k <= horizon; k++ {
		for i := 0; i < m; i++ {
			for j := i + 1; j < m; j++ {
				if d := states[i][k].Dist(states[j][k]); d < min {
					min = d
				}
			}
		}
	}
	return min
}
