package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/ocp"
	"github.com/pursuitlab/slap/internal/traj"
)

const (
	DefaultHorizon    = 10
	DefaultDt         = 0.5
	DefaultDuration   = 60.0
	DefaultSeparation = 1.0
	DefaultRadius     = 2.0
	DefaultRate       = 0.3
	DefaultSpeed      = 0.8
)

type Config struct {
	Planner       string          `yaml:"planner"`
	Stepper       string          `yaml:"stepper"`
	Horizon       int             `yaml:"horizon"`
	Dt            float64         `yaml:"dt"`
	Duration      float64         `yaml:"duration"`
	Seed          int64           `yaml:"seed"`
	Separation    float64         `yaml:"separation"`
	MaxIterations int             `yaml:"max_iterations"`
	Limits        LimitsConfig    `yaml:"limits"`
	Center        ocp.Weights     `yaml:"center_weights"`
	Tracker       ocp.Weights     `yaml:"tracker_weights"`
	Formation     FormationConfig `yaml:"formation"`
	Target        TargetConfig    `yaml:"target"`
	Init          InitConfig      `yaml:"init"`
}

type LimitsConfig struct {
	VMin float64 `yaml:"v_min"`
	VMax float64 `yaml:"v_max"`
	RMin float64 `yaml:"r_min"`
	RMax float64 `yaml:"r_max"`
}

type FormationConfig struct {
	Radius float64   `yaml:"radius"`
	Rate   float64   `yaml:"rate"`
	Phases []float64 `yaml:"phases"`
}

type TargetConfig struct {
	// Waypoints are the control points of the target path, as x,y pairs.
	Waypoints [][]float64 `yaml:"waypoints"`
	Speed     float64     `yaml:"speed"`
}

type InitConfig struct {
	Center   []float64   `yaml:"center"`   // x, y, psi
	Trackers [][]float64 `yaml:"trackers"` // one x, y, psi triple per tracker
}

func DefaultConfig() *Config {
	return &Config{
		Planner:    "mpc",
		Stepper:    "euler",
		Horizon:    DefaultHorizon,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Separation: DefaultSeparation,
		Limits: LimitsConfig{
			VMin: 0, VMax: 4,
			RMin: -math.Pi / 3, RMax: math.Pi / 3,
		},
		Center:  ocp.Weights{Pos: 10, Heading: 1, Vel: 0.5, Rate: 0.5, Smooth: 0.1},
		Tracker: ocp.Weights{Pos: 10, Heading: 1, Vel: 0.5, Rate: 0.5, Smooth: 0.1},
		Formation: FormationConfig{
			Radius: DefaultRadius,
			Rate:   DefaultRate,
		},
		Target: TargetConfig{
			Waypoints: [][]float64{{0, 0}, {8, 2}, {14, 8}, {18, 16}, {26, 20}, {34, 18}},
			Speed:     DefaultSpeed,
		},
		Init: InitConfig{
			Center: []float64{-4, -2, 0},
			Trackers: [][]float64{
				{-2, -2, 0},
				{-4, 0, 0},
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Horizon < 1 {
		return fmt.Errorf("horizon must be at least 1, got %d", c.Horizon)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if len(c.Target.Waypoints) < 2 {
		return fmt.Errorf("target needs at least 2 waypoints, got %d", len(c.Target.Waypoints))
	}
	for i, wp := range c.Target.Waypoints {
		if len(wp) != 2 {
			return fmt.Errorf("waypoint %d: want x,y pair, got %d values", i, len(wp))
		}
	}
	if len(c.Init.Center) != kinematics.StateDim {
		return fmt.Errorf("init center: want %d values, got %d", kinematics.StateDim, len(c.Init.Center))
	}
	if len(c.Init.Trackers) != 2 {
		return fmt.Errorf("want 2 trackers, got %d", len(c.Init.Trackers))
	}
	for i, tr := range c.Init.Trackers {
		if len(tr) != kinematics.StateDim {
			return fmt.Errorf("init tracker %d: want %d values, got %d", i, kinematics.StateDim, len(tr))
		}
	}
	if n := len(c.Formation.Phases); n != 0 && n != len(c.Init.Trackers) {
		return fmt.Errorf("%d formation phases for %d trackers", n, len(c.Init.Trackers))
	}
	if !c.VehicleLimits().Valid() {
		return fmt.Errorf("invalid vehicle limits")
	}
	return nil
}

func (c *Config) VehicleLimits() kinematics.Limits {
	return kinematics.Limits{
		VMin: c.Limits.VMin, VMax: c.Limits.VMax,
		RMin: c.Limits.RMin, RMax: c.Limits.RMax,
	}
}

func (c *Config) TargetPoints() []traj.Point {
	pts := make([]traj.Point, 0, len(c.Target.Waypoints))
	for _, wp := range c.Target.Waypoints {
		pts = append(pts, traj.Point{X: wp[0], Y: wp[1]})
	}
	return pts
}

func (c *Config) CenterState() kinematics.State {
	return kinematics.State(c.Init.Center).Clone()
}

func (c *Config) TrackerStates() []kinematics.State {
	states := make([]kinematics.State, 0, len(c.Init.Trackers))
	for _, tr := range c.Init.Trackers {
		states = append(states, kinematics.State(tr).Clone())
	}
	return states
}
