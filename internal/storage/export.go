package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pursuitlab/slap/internal/sim"
)

type ExportData struct {
	Planner        string             `json:"planner"`
	Stepper        string             `json:"stepper"`
	Dt             float64            `json:"dt"`
	Duration       float64            `json:"duration"`
	Cycles         int                `json:"cycles"`
	StateColumns   []string           `json:"state_columns"`
	ControlColumns []string           `json:"control_columns"`
	Times          []float64          `json:"times"`
	States         [][]float64        `json:"states"`
	Controls       [][]float64        `json:"controls"`
	SolveTimes     []float64          `json:"solve_times"`
	Separations    []float64          `json:"separations"`
	Metrics        map[string]float64 `json:"metrics"`
}

func exportData(plannerName, stepperName string, dt, duration float64, result *sim.Result) ExportData {
	return ExportData{
		Planner:        plannerName,
		Stepper:        stepperName,
		Dt:             dt,
		Duration:       duration,
		Cycles:         result.Cycles,
		StateColumns:   sim.StateColumns(),
		ControlColumns: sim.ControlColumns(),
		Times:          result.Times,
		States:         result.States,
		Controls:       result.Controls,
		SolveTimes:     result.SolveTimes,
		Separations:    result.Separations,
		Metrics:        result.Metrics,
	}
}

func ExportJSON(path string, plannerName, stepperName string, dt, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, plannerName, stepperName, dt, duration, result)
}

func ExportJSONStdout(plannerName, stepperName string, dt, duration float64, result *sim.Result) error {
	return writeJSON(os.Stdout, plannerName, stepperName, dt, duration, result)
}

func writeJSON(w io.Writer, plannerName, stepperName string, dt, duration float64, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(plannerName, stepperName, dt, duration, result))
}
