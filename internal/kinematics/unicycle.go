package kinematics

import "math"

// Unicycle is the nonholonomic kinematic model used by the target, the
// virtual center and both trackers:
//
//	dx/dt   = v cos(psi)
//	dy/dt   = v sin(psi)
//	dpsi/dt = r
type Unicycle struct{}

func NewUnicycle() *Unicycle {
	return &Unicycle{}
}

func (m *Unicycle) StateDim() int   { return StateDim }
func (m *Unicycle) ControlDim() int { return ControlDim }

func (m *Unicycle) Derive(x State, u Control) State {
	v := u[IV]
	return State{
		v * math.Cos(x[IPsi]),
		v * math.Sin(x[IPsi]),
		u[IR],
	}
}
