package planner

import (
	"fmt"
	"math"

	"github.com/pursuitlab/slap/internal/kinematics"
)

// DefaultPhases places the two trackers a quarter turn apart on the
// formation circle.
func DefaultPhases() []float64 {
	return []float64{0, math.Pi / 2}
}

// Formation derives per-tracker circular reference trajectories around a
// predicted center trajectory. Purely closed form, no optimization.
type Formation struct {
	Radius float64   // circle radius, m
	Rate   float64   // angular rate of the pattern, rad/s
	Phases []float64 // fixed per-tracker phase offsets
}

func NewFormation(radius, rate float64, phases []float64) (*Formation, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("planner: formation radius must be positive, got %f", radius)
	}
	if len(phases) == 0 {
		phases = DefaultPhases()
	}
	return &Formation{Radius: radius, Rate: rate, Phases: phases}, nil
}

// References builds reference states and controls for every tracker over the
// predicted center trajectory. centers holds the center states at prediction
// steps 1..N, t0 is the absolute time at the start of the cycle and dt the
// discretization step, so step k corresponds to time t0 + (k+1)dt. The
// reference heading is the tangent of the circle at each point; the reference
// control is the shared target speed and the pattern angular rate.
func (f *Formation) References(centers []kinematics.State, t0, dt, targetSpeed float64) ([][]kinematics.State, [][]kinematics.Control) {
	n := len(centers)
	states := make([][]kinematics.State, len(f.Phases))
	controls := make([][]kinematics.Control, len(f.Phases))

	for i, phase := range f.Phases {
		states[i] = make([]kinematics.State, n)
		controls[i] = make([]kinematics.Control, n)
		for k := 0; k < n; k++ {
			t := t0 + dt*float64(k+1)
			phi := f.Rate*t + phase

			psi := centers[k][kinematics.IPsi]
			if f.Rate != 0 {
				// Tangent direction of the circle at angle phi, oriented
				// with the direction of rotation.
				psi = math.Atan2(f.Rate*math.Cos(phi), -f.Rate*math.Sin(phi))
			}

			states[i][k] = kinematics.State{
				centers[k][kinematics.IX] + f.Radius*math.Cos(phi),
				centers[k][kinematics.IY] + f.Radius*math.Sin(phi),
				psi,
			}
			controls[i][k] = kinematics.Control{targetSpeed, f.Rate}
		}
	}
	return states, controls
}
