package ocp

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"

	"github.com/pursuitlab/slap/internal/kinematics"
)

const (
	// DefaultSeparationWeight scales the quadratic hinge penalty on squared
	// distance shortfall.
	DefaultSeparationWeight = 50.0

	defaultMaxIterations = 300

	// squashClip keeps atanh finite when warm-start controls sit on a bound.
	squashClip = 1e-6

	// feasTolerance is the accepted slack on the hard separation constraint
	// after the penalty solve.
	feasTolerance = 1e-3
)

// Solution is an accepted optimum of a Problem.
type Solution struct {
	Controls [][]kinematics.Control // [vehicle][step]
	States   [][]kinematics.State   // [vehicle][step], index 0 = initial state

	Objective     float64
	Iterations    int
	FuncEvals     int
	MinSeparation float64
	Runtime       time.Duration
}

// First returns the control to apply this cycle, one per vehicle.
func (s *Solution) First() []kinematics.Control {
	firsts := make([]kinematics.Control, len(s.Controls))
	for i, seq := range s.Controls {
		firsts[i] = seq[0].Clone()
	}
	return firsts
}

// WarmStart returns the control sequences shifted by one step, with the final
// control repeated, for seeding the next cycle's solve.
func (s *Solution) WarmStart() [][]kinematics.Control {
	warm := make([][]kinematics.Control, len(s.Controls))
	for i, seq := range s.Controls {
		warm[i] = make([]kinematics.Control, len(seq))
		for k := 0; k < len(seq)-1; k++ {
			warm[i][k] = seq[k+1].Clone()
		}
		warm[i][len(seq)-1] = seq[len(seq)-1].Clone()
	}
	return warm
}

// Solve minimizes the problem objective with L-BFGS over tanh-squashed
// control variables. warm may be nil; otherwise it must hold one control
// sequence of length Horizon per vehicle.
func Solve(p *Problem, warm [][]kinematics.Control) (*Solution, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	m := p.vehicles()
	dim := m * p.Horizon * kinematics.ControlDim

	z0 := make([]float64, dim)
	if warm != nil {
		if err := p.encode(z0, warm); err != nil {
			return nil, err
		}
	} // zero z encodes the box midpoint, a neutral cold start

	objective := func(z []float64) float64 {
		controls := p.decode(z)
		states := p.rollout(controls)
		return p.cost(controls, states)
	}

	grad := func(dst, z []float64) {
		fd.Gradient(dst, objective, z, &fd.Settings{Formula: fd.Central, Concurrent: false})
	}

	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	problem := optimize.Problem{Func: objective, Grad: grad}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 20,
		},
	}

	result, err := optimize.Minimize(problem, z0, settings, &optimize.LBFGS{})
	if result == nil || !finiteVec(result.X) || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	if err != nil && result.Stats.MajorIterations == 0 {
		// The line search failed before any progress was made.
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}

	controls := p.decode(result.X)
	states := p.rollout(controls)

	sol := &Solution{
		Controls:      controls,
		States:        states,
		Objective:     result.F,
		Iterations:    result.Stats.MajorIterations,
		FuncEvals:     result.Stats.FuncEvaluations,
		MinSeparation: minSeparation(states),
		Runtime:       time.Since(start),
	}

	if p.Separation > 0 && sol.MinSeparation < p.Separation-feasTolerance {
		return nil, fmt.Errorf("%w: min separation %.3f m < required %.3f m",
			ErrInfeasible, sol.MinSeparation, p.Separation)
	}
	return sol, nil
}

// decode maps the unbounded decision vector to in-bounds control sequences.
func (p *Problem) decode(z []float64) [][]kinematics.Control {
	m := p.vehicles()
	controls := make([][]kinematics.Control, m)
	idx := 0
	for i := 0; i < m; i++ {
		controls[i] = make([]kinematics.Control, p.Horizon)
		for k := 0; k < p.Horizon; k++ {
			controls[i][k] = kinematics.Control{
				squash(z[idx], p.Limits.VMin, p.Limits.VMax),
				squash(z[idx+1], p.Limits.RMin, p.Limits.RMax),
			}
			idx += kinematics.ControlDim
		}
	}
	return controls
}

// encode is the inverse of decode, used for warm starting.
func (p *Problem) encode(z []float64, controls [][]kinematics.Control) error {
	if len(controls) != p.vehicles() {
		return fmt.Errorf("%w: warm start has %d vehicles, want %d",
			ErrBadProblem, len(controls), p.vehicles())
	}
	idx := 0
	for i := range controls {
		if len(controls[i]) != p.Horizon {
			return fmt.Errorf("%w: warm start vehicle %d has %d controls, want %d",
				ErrBadProblem, i, len(controls[i]), p.Horizon)
		}
		for k := 0; k < p.Horizon; k++ {
			u := controls[i][k]
			z[idx] = unsquash(u[kinematics.IV], p.Limits.VMin, p.Limits.VMax)
			z[idx+1] = unsquash(u[kinematics.IR], p.Limits.RMin, p.Limits.RMax)
			idx += kinematics.ControlDim
		}
	}
	return nil
}

func squash(z, lo, hi float64) float64 {
	return lo + (hi-lo)*0.5*(1+math.Tanh(z))
}

func unsquash(u, lo, hi float64) float64 {
	frac := (u - lo) / (hi - lo)
	if frac < squashClip {
		frac = squashClip
	}
	if frac > 1-squashClip {
		frac = 1 - squashClip
	}
	return math.Atanh(2*frac - 1)
}

func finiteVec(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
