package ocp

import "errors"

// Domain errors for optimal-control solves.
var (
	// ErrNoConvergence indicates the nonlinear program did not reach a
	// usable optimum.
	ErrNoConvergence = errors.New("ocp: solver failed to converge")

	// ErrInfeasible indicates the separation constraint is violated at the
	// solver's optimum.
	ErrInfeasible = errors.New("ocp: separation constraint infeasible")

	// ErrBadProblem indicates an inconsistent problem definition.
	ErrBadProblem = errors.New("ocp: invalid problem definition")
)
