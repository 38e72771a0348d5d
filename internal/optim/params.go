package optim

import (
	"fmt"

	"github.com/pursuitlab/slap/internal/config"
)

// ParamNames lists the tunable configuration parameters, in the order shown
// to the user.
var ParamNames = []string{
	"center_pos", "center_heading", "center_vel", "center_rate", "center_smooth",
	"tracker_pos", "tracker_heading", "tracker_vel", "tracker_rate", "tracker_smooth",
	"radius", "spin", "horizon",
}

// ApplyParam sets one tunable parameter on a configuration by name.
func ApplyParam(cfg *config.Config, name string, val float64) error {
	switch name {
	case "center_pos":
		cfg.Center.Pos = val
	case "center_heading":
		cfg.Center.Heading = val
	case "center_vel":
		cfg.Center.Vel = val
	case "center_rate":
		cfg.Center.Rate = val
	case "center_smooth":
		cfg.Center.Smooth = val
	case "tracker_pos":
		cfg.Tracker.Pos = val
	case "tracker_heading":
		cfg.Tracker.Heading = val
	case "tracker_vel":
		cfg.Tracker.Vel = val
	case "tracker_rate":
		cfg.Tracker.Rate = val
	case "tracker_smooth":
		cfg.Tracker.Smooth = val
	case "radius":
		cfg.Formation.Radius = val
	case "spin":
		cfg.Formation.Rate = val
	case "horizon":
		cfg.Horizon = int(val)
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
