package sim

import (
	"context"
	"sync"
)

// BuildFunc constructs an independent runner and scenario for one seed.
type BuildFunc func(seed int64) (*Runner, Scenario, Config, error)

// Ensemble runs seed batches concurrently. Each run gets its own runner and
// scenario, so no state is shared between goroutines.
type Ensemble struct {
	build     BuildFunc
	numRuns   int
	seedStart int64
}

func NewEnsemble(build BuildFunc, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run executes all seeds and returns their results in seed order. The first
// build or run error is returned; remaining results may be nil.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			runner, sc, cfg, err := e.build(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			cfg.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = runner.Run(ctx, sc, cfg)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
