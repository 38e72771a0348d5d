package experiment

import (
	"fmt"
	"sort"

	"github.com/pursuitlab/slap/internal/config"
	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/metrics"
	"github.com/pursuitlab/slap/internal/planner"
	"github.com/pursuitlab/slap/internal/sim"
)

type Registry struct {
	planners map[string]func(planner.Config) (planner.Planner, error)
	steppers map[string]func() kinematics.Stepper
}

func NewRegistry() *Registry {
	r := &Registry{
		planners: make(map[string]func(planner.Config) (planner.Planner, error)),
		steppers: make(map[string]func() kinematics.Stepper),
	}

	r.planners["mpc"] = func(cfg planner.Config) (planner.Planner, error) {
		return planner.NewPipeline(cfg)
	}
	r.planners["pursuit"] = func(cfg planner.Config) (planner.Planner, error) {
		return planner.NewPurePursuit(cfg.Radius, cfg.Rate, cfg.Phases, cfg.Limits)
	}

	r.steppers["euler"] = func() kinematics.Stepper { return kinematics.NewEuler() }
	r.steppers["rk4"] = func() kinematics.Stepper { return kinematics.NewRK4() }

	return r
}

func (r *Registry) GetPlanner(name string, cfg planner.Config) (planner.Planner, error) {
	fn, ok := r.planners[name]
	if !ok {
		return nil, fmt.Errorf("unknown planner: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) GetStepper(name string) (kinematics.Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("unknown stepper: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListPlanners() []string {
	names := make([]string, 0, len(r.planners))
	for name := range r.planners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSteppers() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewTrackingRMSE(),
		metrics.NewCenterError(),
		metrics.NewMinSeparation(),
		metrics.NewControlEffort(),
		metrics.NewSolveTime(),
	}
}

// PipelineConfig maps a file configuration onto planner parameters.
func PipelineConfig(c *config.Config) planner.Config {
	return planner.Config{
		Horizon:        c.Horizon,
		Dt:             c.Dt,
		Limits:         c.VehicleLimits(),
		CenterWeights:  c.Center,
		TrackerWeights: c.Tracker,
		Radius:         c.Formation.Radius,
		Rate:           c.Formation.Rate,
		Phases:         c.Formation.Phases,
		Separation:     c.Separation,
		MaxIterations:  c.MaxIterations,
	}
}
