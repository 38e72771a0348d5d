package kinematics

import "math"

// State indices for the unicycle model.
const (
	IX   = 0
	IY   = 1
	IPsi = 2

	StateDim = 3
)

// Control indices.
const (
	IV = 0
	IR = 1

	ControlDim = 2
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Dist returns the planar distance to another state, ignoring heading.
func (s State) Dist(other State) float64 {
	dx := s[IX] - other[IX]
	dy := s[IY] - other[IY]
	return math.Hypot(dx, dy)
}

type Control []float64

func (u Control) Clone() Control {
	c := make(Control, len(u))
	copy(c, u)
	return c
}

// System models planar vehicle kinematics dX/dt = f(X, u).
type System interface {
	Derive(x State, u Control) State
	StateDim() int
	ControlDim() int
}

// Stepper advances a system state by one timestep.
type Stepper interface {
	Step(sys System, x State, u Control, dt float64) State
}

// WrapAngle normalizes an angle to (-pi, pi].
func WrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
