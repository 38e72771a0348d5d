// Package target models the pursued vehicle. The target follows a B-spline
// path at constant ground speed; its state is assumed known to the planner
// (estimating it from TDoA measurements is future work).
package target

import (
	"fmt"
	"math"

	"github.com/pursuitlab/slap/internal/kinematics"
	"github.com/pursuitlab/slap/internal/traj"
)

// Estimate is the target telemetry consumed by the pipeline: current state
// and the velocity vector assumed constant over the horizon.
type Estimate struct {
	State kinematics.State
	VX    float64
	VY    float64
}

// Speed returns the target ground speed.
func (e Estimate) Speed() float64 {
	return math.Hypot(e.VX, e.VY)
}

// Extrapolate returns n reference states, one per prediction step, obtained
// by propagating the estimate linearly by dt per step. The reference heading
// is the direction of the velocity vector (held at the current heading when
// the target is stationary).
func (e Estimate) Extrapolate(n int, dt float64) []kinematics.State {
	psi := e.State[kinematics.IPsi]
	if e.VX != 0 || e.VY != 0 {
		psi = math.Atan2(e.VY, e.VX)
	}

	refs := make([]kinematics.State, n)
	for k := 0; k < n; k++ {
		step := float64(k + 1)
		refs[k] = kinematics.State{
			e.State[kinematics.IX] + step*dt*e.VX,
			e.State[kinematics.IY] + step*dt*e.VY,
			psi,
		}
	}
	return refs
}

// Model moves a target along a spline path at constant speed.
type Model struct {
	spline *traj.BSpline
	deriv  *traj.BSpline
	speed  float64
	param  float64
}

func NewModel(controlPoints []traj.Point, speed float64) (*Model, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("target: speed must be positive, got %f", speed)
	}
	b, err := traj.NewBSpline(controlPoints, 3)
	if err != nil {
		return nil, err
	}
	return &Model{
		spline: b,
		deriv:  b.Derivative(),
		speed:  speed,
	}, nil
}

// Telemetry returns the current target estimate. The reported velocity drops
// to zero once the target reaches the end of its path.
func (m *Model) Telemetry() Estimate {
	p := m.spline.Eval(m.param)
	d := m.deriv.Eval(m.param)
	psi := math.Atan2(d.Y, d.X)

	est := Estimate{
		State: kinematics.State{p.X, p.Y, psi},
	}
	if m.param < 1.0 {
		norm := math.Hypot(d.X, d.Y)
		if norm > 0 {
			est.VX = m.speed * d.X / norm
			est.VY = m.speed * d.Y / norm
		}
	}
	return est
}

// Advance moves the target along the path by dt, rescaling the parameter step
// with the local derivative norm so ground speed stays constant.
func (m *Model) Advance(dt float64) {
	if m.param >= 1.0 {
		m.param = 1.0
		return
	}
	d := m.deriv.Eval(m.param)
	norm := math.Hypot(d.X, d.Y)
	if norm == 0 {
		return
	}
	m.param += m.speed * dt / norm
	if m.param > 1.0 {
		m.param = 1.0
	}
}

// Done reports whether the target has reached the end of its path.
func (m *Model) Done() bool {
	return m.param >= 1.0
}

// Path samples the full target path for plotting.
func (m *Model) Path(n int) []traj.Point {
	return m.spline.Sample(n)
}
