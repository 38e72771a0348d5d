package planner

import (
	"fmt"
	"time"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/ocp"
	"github.com/pursuitlab/slap/internal/target"
)

// Plan is the output of one planning cycle.
type Plan struct {
	// CenterControl and TrackerControls are the first-step commands to apply
	// this cycle.
	CenterControl   kinematics.Control
	TrackerControls []kinematics.Control

	// References are the per-tracker reference trajectories from the
	// formation generator.
	References [][]kinematics.State

	// CenterSolve and TrackerSolve are the underlying solver reports; nil
	// for planners that do not optimize.
	CenterSolve  *ocp.Solution
	TrackerSolve *ocp.Solution

	SolveTime time.Duration
}

// MinSeparation returns the smallest predicted pairwise tracker distance, or
// -1 when the plan carries no prediction.
func (p *Plan) MinSeparation() float64 {
	if p.TrackerSolve == nil {
		return -1
	}
	return p.TrackerSolve.MinSeparation
}

// Planner produces one Plan per control cycle.
type Planner interface {
	Plan(t float64, center kinematics.State, trackers []kinematics.State, est target.Estimate) (*Plan, error)
}

// Config collects the parameters of the MPC pipeline.
type Config struct {
	Horizon int
	Dt      float64
	Limits  kinematics.Limits

	CenterWeights  ocp.Weights
	TrackerWeights ocp.Weights

	Radius     float64   // formation circle radius
	Rate       float64   // formation angular rate
	Phases     []float64 // defaults to {0, pi/2}
	Separation float64   // minimum inter-tracker distance

	MaxIterations int
}

// Pipeline is the three-phase MPC planner.
type Pipeline struct {
	center    *CenterPlanner
	formation *Formation
	trackers  *TrackerPlanner
	dt        float64
}

func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.Horizon < 1 {
		return nil, fmt.Errorf("planner: horizon must be at least 1, got %d", cfg.Horizon)
	}
	if cfg.Dt <= 0 {
		return nil, fmt.Errorf("planner: dt must be positive, got %f", cfg.Dt)
	}
	formation, err := NewFormation(cfg.Radius, cfg.Rate, cfg.Phases)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		center:    NewCenterPlanner(cfg.Horizon, cfg.Dt, cfg.Limits, cfg.CenterWeights, cfg.MaxIterations),
		formation: formation,
		trackers:  NewTrackerPlanner(cfg.Horizon, cfg.Dt, cfg.Limits, cfg.TrackerWeights, cfg.Separation, cfg.MaxIterations),
		dt:        cfg.Dt,
	}, nil
}

// Plan runs the three phases in sequence for one cycle at absolute time t.
func (p *Pipeline) Plan(t float64, center kinematics.State, trackers []kinematics.State, est target.Estimate) (*Plan, error) {
	if len(trackers) != len(p.formation.Phases) {
		return nil, fmt.Errorf("planner: %d trackers but %d formation slots",
			len(trackers), len(p.formation.Phases))
	}

	start := time.Now()

	centerSol, err := p.center.Plan(center, est)
	if err != nil {
		return nil, err
	}

	// Predicted center states at steps 1..N feed the formation pattern.
	refStates, refControls := p.formation.References(centerSol.States[0][1:], t, p.dt, est.Speed())

	trackerSol, err := p.trackers.Plan(trackers, refStates, refControls)
	if err != nil {
		return nil, err
	}

	return &Plan{
		CenterControl:   centerSol.First()[0],
		TrackerControls: trackerSol.First(),
		References:      refStates,
		CenterSolve:     centerSol,
		TrackerSolve:    trackerSol,
		SolveTime:       time.Since(start),
	}, nil
}
