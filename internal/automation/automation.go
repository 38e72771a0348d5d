package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pursuitlab/slap/internal/config"
	"github.com/pursuitlab/slap/internal/experiment"
	"github.com/pursuitlab/slap/internal/optim"
	"github.com/pursuitlab/slap/internal/sim"
)

// Scenario is a scripted sequence of pursuit runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one pursuit. A step starts from a named preset (or the
// defaults when empty) and applies parameter overrides on top.
type ScenarioStep struct {
	Preset   string             `yaml:"preset"`
	Planner  string             `yaml:"planner"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

// StepConfig resolves a step into a full configuration.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if step.Planner != "" {
		cfg.Planner = step.Planner
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	cfg.Seed = step.Seed
	for name, val := range step.Params {
		if err := optim.ApplyParam(cfg, name, val); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]sim.Result, error) {
	results := make([]sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("running step %d/%d\n", i+1, len(scenario.Steps))

		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, *result)
	}

	return results, nil
}

// ParameterSweep reruns one configuration across a range of a tunable
// parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Metric    string
}

// SweepResult holds one point of a parameter sweep.
type SweepResult struct {
	ParamValue  float64
	MetricValue float64
	Failed      bool
}

// RunSweep executes a parameter sweep. A run that fails to plan is reported
// as a failed point rather than aborting the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		if err := optim.ApplyParam(&cfg, sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(&cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			results = append(results, SweepResult{ParamValue: paramVal, Failed: true})
			continue
		}

		results = append(results, SweepResult{
			ParamValue:  paramVal,
			MetricValue: result.Metrics[sweep.Metric],
		})

		fmt.Printf("sweep %d/%d: %s=%.4f\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial vehicle states across repeated
// trials.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID   int
	Completed bool
	Metrics   map[string]float64
}

// RunMonteCarlo executes repeated trials with randomly perturbed initial
// positions. A trial counts as completed when the planner stayed feasible
// for the whole run.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, mc.NumTrials)

	seed := mc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	for trial := 0; trial < mc.NumTrials; trial++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		cfg := *mc.Base
		cfg.Init.Center = perturb(rng, mc.Base.Init.Center, mc.Perturbation)
		cfg.Init.Trackers = make([][]float64, len(mc.Base.Init.Trackers))
		for i, tr := range mc.Base.Init.Trackers {
			cfg.Init.Trackers[i] = perturb(rng, tr, mc.Perturbation)
		}

		exp := experiment.New(&cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		res := MonteCarloResult{TrialID: trial, Completed: err == nil}
		if result != nil {
			res.Metrics = result.Metrics
		}
		results = append(results, res)

		if (trial+1)%10 == 0 {
			fmt.Printf("monte carlo: %d/%d trials complete\n", trial+1, mc.NumTrials)
		}
	}

	return results, nil
}

// perturb offsets x and y, leaving the heading untouched.
func perturb(rng *rand.Rand, state []float64, amount float64) []float64 {
	out := make([]float64, len(state))
	copy(out, state)
	for i := 0; i < len(out) && i < 2; i++ {
		out[i] += (rng.Float64() - 0.5) * 2 * amount
	}
	return out
}

// MonteCarloStats counts completed and failed trials.
func MonteCarloStats(results []MonteCarloResult) (completed int, failed int) {
	for _, r := range results {
		if r.Completed {
			completed++
		} else {
			failed++
		}
	}
	return
}
