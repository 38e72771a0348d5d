package config

import (
	"math"
	"sort"

	"github.com/pursuitlab/slap/internal/ocp"
)

// Presets are named pursuit scenarios. Fields left at zero fall back to
// DefaultConfig values when applied.
var Presets = map[string]*Config{
	"straight": {
		Target: TargetConfig{
			Waypoints: [][]float64{{0, 0}, {10, 0}, {20, 0}, {30, 0}},
			Speed:     1.0,
		},
		Formation: FormationConfig{Radius: 2.0, Rate: 0.3},
		Init: InitConfig{
			Center:   []float64{-5, 0, 0},
			Trackers: [][]float64{{-3, 1, 0}, {-5, 2, 0}},
		},
	},
	"scurve": {
		Target: TargetConfig{
			Waypoints: [][]float64{{0, 0}, {8, 2}, {14, 8}, {18, 16}, {26, 20}, {34, 18}},
			Speed:     0.8,
		},
		Formation: FormationConfig{Radius: 2.0, Rate: 0.3},
		Init: InitConfig{
			Center:   []float64{-4, -2, 0},
			Trackers: [][]float64{{-2, -2, 0}, {-4, 0, 0}},
		},
	},
	"evasive": {
		Duration: 90,
		Target: TargetConfig{
			Waypoints: [][]float64{{0, 0}, {6, 6}, {4, 14}, {12, 18}, {20, 12}, {16, 4}, {26, 2}},
			Speed:     1.4,
		},
		Formation: FormationConfig{Radius: 2.5, Rate: 0.5},
		Tracker:   ocp.Weights{Pos: 15, Heading: 1, Vel: 0.3, Rate: 0.3, Smooth: 0.05},
		Init: InitConfig{
			Center:   []float64{-6, 0, math.Pi / 4},
			Trackers: [][]float64{{-4, 2, 0}, {-6, -2, 0}},
		},
	},
	"loiter": {
		Duration: 120,
		Target: TargetConfig{
			Waypoints: [][]float64{{0, 0}, {4, 4}, {0, 8}, {-4, 4}, {0, 0}, {4, -4}, {0, -8}},
			Speed:     0.5,
		},
		Formation: FormationConfig{Radius: 1.5, Rate: 0.6},
		Init: InitConfig{
			Center:   []float64{-8, 0, 0},
			Trackers: [][]float64{{-6, 1, 0}, {-8, -1, 0}},
		},
	},
	"tight": {
		Separation: 2.0,
		Target: TargetConfig{
			Waypoints: [][]float64{{0, 0}, {10, 2}, {18, 10}, {28, 12}},
			Speed:     0.9,
		},
		Formation: FormationConfig{Radius: 1.2, Rate: 0.4},
		Init: InitConfig{
			Center:   []float64{-4, 0, 0},
			Trackers: [][]float64{{-2, 2, 0}, {-4, -2, 0}},
		},
	},
}

// GetPreset resolves a scenario preset against the defaults, so presets only
// need to state what they change.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Target = p.Target
	cfg.Formation = p.Formation
	cfg.Init = p.Init
	if p.Duration > 0 {
		cfg.Duration = p.Duration
	}
	if p.Separation > 0 {
		cfg.Separation = p.Separation
	}
	if p.Tracker != (ocp.Weights{}) {
		cfg.Tracker = p.Tracker
	}
	if p.Center != (ocp.Weights{}) {
		cfg.Center = p.Center
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
