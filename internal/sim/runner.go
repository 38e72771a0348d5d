package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/planner"
)

// Runner executes the receding-horizon pursuit loop: advance the target,
// re-plan, apply the first control of each solution, repeat. The loop is
// strictly sequential; the two per-cycle solves dominate the runtime.
type Runner struct {
	planner   planner.Planner
	stepper   kinematics.Stepper
	sys       kinematics.System
	metrics   []Metric
	observers []Observer
}

func New(p planner.Planner, stepper kinematics.Stepper) *Runner {
	return &Runner{
		planner: p,
		stepper: stepper,
		sys:     kinematics.NewUnicycle(),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run simulates the pursuit until the configured duration or ctx expires.
// On a planning failure the partial result is returned together with a
// CycleError identifying the failed cycle.
func (r *Runner) Run(ctx context.Context, sc Scenario, cfg Config) (*Result, error) {
	if err := validate(sc, cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:       make([]float64, 0, steps+1),
		States:      make([][]float64, 0, steps+1),
		Controls:    make([][]float64, 0, steps),
		SolveTimes:  make([]float64, 0, steps),
		Separations: make([]float64, 0, steps),
		Metrics:     make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	center := sc.Center.Clone()
	trackers := make([]kinematics.State, len(sc.Trackers))
	for i, s := range sc.Trackers {
		trackers[i] = s.Clone()
	}

	t := 0.0
	est := sc.Target.Telemetry()
	result.Times = append(result.Times, t)
	result.States = append(result.States, flattenState(est.State, center, trackers))

	for cycle := 0; cycle < steps; cycle++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		est = sc.Target.Telemetry()

		plan, err := r.planner.Plan(t, center, trackers, est)
		if err != nil {
			r.finalize(result)
			return result, &CycleError{Cycle: cycle, Time: t, Err: err}
		}

		// Apply only the first control of each solution, then re-solve.
		center = r.stepper.Step(r.sys, center, plan.CenterControl, cfg.Dt)
		for i := range trackers {
			trackers[i] = r.stepper.Step(r.sys, trackers[i], plan.TrackerControls[i], cfg.Dt)
		}
		sc.Target.Advance(cfg.Dt)
		t += cfg.Dt

		if !center.IsValid() || !allValid(trackers) {
			r.finalize(result)
			return result, &CycleError{Cycle: cycle, Time: t, Err: ErrInvalidState}
		}

		sep := math.Inf(1)
		if len(trackers) >= 2 {
			sep = trackers[0].Dist(trackers[1])
		}

		rec := StepRecord{
			Cycle:           cycle,
			Time:            t,
			Target:          sc.Target.Telemetry(),
			Center:          center,
			Trackers:        trackers,
			CenterControl:   plan.CenterControl,
			TrackerControls: plan.TrackerControls,
			References:      plan.References,
			SolveTime:       plan.SolveTime,
			Separation:      sep,
		}
		for _, m := range r.metrics {
			m.Observe(rec)
		}
		for _, o := range r.observers {
			o.OnStep(rec)
		}

		result.Times = append(result.Times, t)
		result.States = append(result.States, flattenState(rec.Target.State, center, trackers))
		result.Controls = append(result.Controls, flattenControl(plan.CenterControl, plan.TrackerControls))
		result.SolveTimes = append(result.SolveTimes, plan.SolveTime.Seconds())
		result.Separations = append(result.Separations, sep)
		result.Cycles++
	}

	r.finalize(result)
	return result, nil
}

func (r *Runner) finalize(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validate(sc Scenario, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %f", cfg.Duration)
	}
	if sc.Target == nil {
		return fmt.Errorf("sim: scenario has no target")
	}
	if len(sc.Trackers) == 0 {
		return fmt.Errorf("sim: scenario has no trackers")
	}
	return nil
}

func allValid(states []kinematics.State) bool {
	for _, s := range states {
		if !s.IsValid() {
			return false
		}
	}
	return true
}
