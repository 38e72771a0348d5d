package kinematics

import "math"

// Limits are box bounds on the control vector.
type Limits struct {
	VMin float64
	VMax float64
	RMin float64
	RMax float64
}

// DefaultLimits returns the tracker actuation envelope:
// v in [0, 4] m/s, r in [-pi/3, pi/3] rad/s.
func DefaultLimits() Limits {
	return Limits{
		VMin: 0,
		VMax: 4.0,
		RMin: -math.Pi / 3,
		RMax: math.Pi / 3,
	}
}

func (l Limits) Valid() bool {
	return l.VMax > l.VMin && l.RMax > l.RMin
}

func (l Limits) Clamp(u Control) Control {
	c := u.Clone()
	c[IV] = math.Min(math.Max(c[IV], l.VMin), l.VMax)
	c[IR] = math.Min(math.Max(c[IR], l.RMin), l.RMax)
	return c
}

// Contains reports whether u is inside the box with tolerance eps.
func (l Limits) Contains(u Control, eps float64) bool {
	return u[IV] >= l.VMin-eps && u[IV] <= l.VMax+eps &&
		u[IR] >= l.RMin-eps && u[IR] <= l.RMax+eps
}
