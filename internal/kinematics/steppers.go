package kinematics

// Euler is the forward-Euler stepper. The optimal-control problems use the
// same discretization, so simulating with Euler keeps the applied motion
// consistent with the planner's internal prediction.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys System, x State, u Control, dt float64) State {
	dx := sys.Derive(x, u)
	next := make(State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}

// RK4 is a classic fourth-order Runge-Kutta stepper, available when the
// simulated plant should be more accurate than the planner's Euler model.
type RK4 struct {
	scratch State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys System, x State, u Control, dt float64) State {
	n := len(x)
	if len(r.scratch) != n {
		r.scratch = make(State, n)
	}

	k1 := sys.Derive(x, u)
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k1[i]
	}
	k2 := sys.Derive(r.scratch, u)
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*k2[i]
	}
	k3 := sys.Derive(r.scratch, u)
	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*k3[i]
	}
	k4 := sys.Derive(r.scratch, u)

	next := make(State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		next[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next
}
