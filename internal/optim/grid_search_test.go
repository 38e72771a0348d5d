package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/pursuitlab/slap/internal/config"
	"github.com/pursuitlab/slap/internal/experiment"
)

func buildPursuit(params map[string]float64) (*experiment.Experiment, error) {
	cfg := config.DefaultConfig()
	cfg.Planner = "pursuit"
	cfg.Duration = 5
	for name, val := range params {
		if err := ApplyParam(cfg, name, val); err != nil {
			return nil, err
		}
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, err
	}
	return exp, nil
}

func TestGridSearch(t *testing.T) {
	gs := NewGridSearch(
		[]string{"radius", "spin"},
		[][]float64{{1.5, 2.5}, {0.2, 0.4}},
	)

	params, best, err := gs.Search(context.Background(), buildPursuit, "tracking_rmse")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if params == nil {
		t.Fatal("expected best params")
	}
	if _, ok := params["radius"]; !ok {
		t.Error("missing radius in best params")
	}
	if _, ok := params["spin"]; !ok {
		t.Error("missing spin in best params")
	}
	if math.IsInf(best, 1) || math.IsNaN(best) {
		t.Errorf("best value not finite: %f", best)
	}
}

func TestGridSearchAllBuildsFail(t *testing.T) {
	gs := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})

	build := func(map[string]float64) (*experiment.Experiment, error) {
		return nil, errors.New("bad build")
	}

	params, best, err := gs.Search(context.Background(), build, "tracking_rmse")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if params != nil {
		t.Error("expected nil params when every build fails")
	}
	if !math.IsInf(best, 1) {
		t.Error("expected +inf best when every build fails")
	}
}

func TestGridSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gs := NewGridSearch([]string{"radius"}, [][]float64{{1, 2, 3}})
	_, _, err := gs.Search(ctx, buildPursuit, "tracking_rmse")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestApplyParamUnknown(t *testing.T) {
	cfg := config.DefaultConfig()
	if err := ApplyParam(cfg, "bogus", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
}

func TestApplyParamNames(t *testing.T) {
	cfg := config.DefaultConfig()
	for _, name := range ParamNames {
		if err := ApplyParam(cfg, name, 1); err != nil {
			t.Errorf("param %s: %v", name, err)
		}
	}
}
