package experiment

import (
	"context"
	"fmt"

	"github.com/pursuitlab/slap/internal/config"
	"github.com/pursuitlab/slap/internal/sim"
	"github.com/pursuitlab/slap/internal/target"
)

// Experiment ties a configuration to a runnable pursuit simulation.
type Experiment struct {
	cfg    *config.Config
	runner *sim.Runner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the planner and stepper by name and attaches the default
// metric set. Must be called before Run.
func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}

	p, err := reg.GetPlanner(e.cfg.Planner, PipelineConfig(e.cfg))
	if err != nil {
		return err
	}
	stepper, err := reg.GetStepper(e.cfg.Stepper)
	if err != nil {
		return err
	}

	e.runner = sim.New(p, stepper)
	for _, m := range reg.DefaultMetrics() {
		e.runner.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.runner == nil {
		return nil, fmt.Errorf("experiment not set up")
	}

	tgt, err := target.NewModel(e.cfg.TargetPoints(), e.cfg.Target.Speed)
	if err != nil {
		return nil, err
	}

	sc := sim.Scenario{
		Target:   tgt,
		Center:   e.cfg.CenterState(),
		Trackers: e.cfg.TrackerStates(),
	}
	simCfg := sim.Config{
		Dt:       e.cfg.Dt,
		Duration: e.cfg.Duration,
		Seed:     e.cfg.Seed,
	}

	return e.runner.Run(ctx, sc, simCfg)
}

// Runner returns the underlying runner for attaching observers.
func (e *Experiment) Runner() *sim.Runner {
	return e.runner
}
