package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pursuitlab/slap/internal/sim"
)

func sampleResult() *sim.Result {
	stateDim := len(sim.StateColumns())
	controlDim := len(sim.ControlColumns())

	states := make([][]float64, 3)
	for i := range states {
		states[i] = make([]float64, stateDim)
		states[i][0] = float64(i) // tgt_x moves
	}
	controls := make([][]float64, 2)
	for i := range controls {
		controls[i] = make([]float64, controlDim)
		controls[i][0] = 1.5
	}

	return &sim.Result{
		Times:       []float64{0, 0.5, 1.0},
		States:      states,
		Controls:    controls,
		SolveTimes:  []float64{0.01, 0.01},
		Separations: []float64{2.0, 2.1},
		Metrics:     map[string]float64{"min_separation": 2.0},
		Cycles:      2,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save("mpc", "euler", 0.5, 1.0, 42, sampleResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Planner != "mpc" {
		t.Errorf("planner: got %s, want mpc", meta.Planner)
	}
	if meta.Seed != 42 {
		t.Errorf("seed: got %d, want 42", meta.Seed)
	}
	if meta.Cycles != 2 {
		t.Errorf("cycles: got %d, want 2", meta.Cycles)
	}
	if meta.Metrics["min_separation"] != 2.0 {
		t.Errorf("metric: got %f, want 2.0", meta.Metrics["min_separation"])
	}
	if meta.Truncated {
		t.Error("full run should not be marked truncated")
	}
}

func TestStoreSaveTruncated(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	// 2 cycles out of an expected 10
	runID, err := st.Save("mpc", "euler", 0.5, 5.0, 0, sampleResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !meta.Truncated {
		t.Error("aborted run should be marked truncated")
	}
	if meta.Cycles != 2 {
		t.Errorf("cycles: got %d, want 2", meta.Cycles)
	}
}

func TestStoreLoadStates(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runID, err := st.Save("mpc", "euler", 0.5, 1.0, 0, sampleResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states: %v", err)
	}
	if len(times) != 3 {
		t.Fatalf("times: got %d rows, want 3", len(times))
	}
	wantCols := len(sim.StateColumns()) + len(sim.ControlColumns())
	if len(states[0]) != wantCols {
		t.Errorf("columns: got %d, want %d", len(states[0]), wantCols)
	}
	if states[2][0] != 2.0 {
		t.Errorf("tgt_x at last row: got %f, want 2.0", states[2][0])
	}
	// first row has zero controls, later rows carry the applied control
	ctrlCol := len(sim.StateColumns())
	if states[0][ctrlCol] != 0 {
		t.Errorf("initial control: got %f, want 0", states[0][ctrlCol])
	}
	if states[1][ctrlCol] != 1.5 {
		t.Errorf("applied control: got %f, want 1.5", states[1][ctrlCol])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	if _, err := st.Save("mpc", "euler", 0.5, 1.0, 0, sampleResult()); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "mpc", "euler", 0.5, 1.0, sampleResult()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty export")
	}
}
