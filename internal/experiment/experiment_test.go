package experiment

import (
	"context"
	"testing"

	"github.com/pursuitlab/slap/internal/config"
)

func pursuitConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Planner = "pursuit"
	cfg.Duration = 5
	return cfg
}

func TestExperimentRun(t *testing.T) {
	exp := New(pursuitConfig())
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Cycles != 10 {
		t.Errorf("cycles: got %d, want 10", result.Cycles)
	}
	for _, name := range []string{"tracking_rmse", "center_rmse", "min_separation", "control_effort", "solve_time_ms"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestExperimentRunBeforeSetup(t *testing.T) {
	exp := New(pursuitConfig())
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error for run before setup")
	}
}

func TestSetupUnknownPlanner(t *testing.T) {
	cfg := pursuitConfig()
	cfg.Planner = "magic"
	if err := New(cfg).Setup(NewRegistry()); err == nil {
		t.Error("expected error for unknown planner")
	}
}

func TestSetupUnknownStepper(t *testing.T) {
	cfg := pursuitConfig()
	cfg.Stepper = "leapfrog"
	if err := New(cfg).Setup(NewRegistry()); err == nil {
		t.Error("expected error for unknown stepper")
	}
}

func TestSetupInvalidConfig(t *testing.T) {
	cfg := pursuitConfig()
	cfg.Horizon = 0
	if err := New(cfg).Setup(NewRegistry()); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestRegistryLists(t *testing.T) {
	reg := NewRegistry()
	if got := reg.ListPlanners(); len(got) != 2 {
		t.Errorf("planners: got %v", got)
	}
	if got := reg.ListSteppers(); len(got) != 2 {
		t.Errorf("steppers: got %v", got)
	}
}
