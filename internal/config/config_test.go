package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Planner != "mpc" {
		t.Errorf("expected planner mpc, got %s", cfg.Planner)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if len(cfg.Init.Trackers) != 2 {
		t.Errorf("expected 2 trackers, got %d", len(cfg.Init.Trackers))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero horizon", func(c *Config) { c.Horizon = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -0.1 }},
		{"zero duration", func(c *Config) { c.Duration = 0 }},
		{"one waypoint", func(c *Config) { c.Target.Waypoints = [][]float64{{0, 0}} }},
		{"ragged waypoint", func(c *Config) { c.Target.Waypoints[0] = []float64{1} }},
		{"short center", func(c *Config) { c.Init.Center = []float64{0, 0} }},
		{"short tracker", func(c *Config) { c.Init.Trackers[0] = []float64{0} }},
		{"inverted limits", func(c *Config) { c.Limits.VMin = 5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizon = 15
	cfg.Separation = 1.5
	cfg.Target.Speed = 1.2

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Horizon != 15 {
		t.Errorf("horizon: got %d, want 15", loaded.Horizon)
	}
	if loaded.Separation != 1.5 {
		t.Errorf("separation: got %f, want 1.5", loaded.Separation)
	}
	if loaded.Target.Speed != 1.2 {
		t.Errorf("target speed: got %f, want 1.2", loaded.Target.Speed)
	}
	if len(loaded.Target.Waypoints) != len(cfg.Target.Waypoints) {
		t.Errorf("waypoints: got %d, want %d", len(loaded.Target.Waypoints), len(cfg.Target.Waypoints))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("scurve")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}
	// unset preset fields take defaults
	if cfg.Horizon != DefaultHorizon {
		t.Errorf("horizon: got %d, want %d", cfg.Horizon, DefaultHorizon)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestVehicleLimits(t *testing.T) {
	cfg := DefaultConfig()
	lim := cfg.VehicleLimits()
	if !lim.Valid() {
		t.Error("default limits should be valid")
	}
	if lim.VMax != 4 {
		t.Errorf("vmax: got %f, want 4", lim.VMax)
	}
}
