// Package ocp builds and solves the finite-horizon optimal-control problems
// behind both planning phases.
//
// Problems are posed by single shooting: the decision variables are the
// control sequences of all vehicles over the horizon, states are eliminated
// by forward-Euler rollout of the unicycle model. Control box bounds are
// enforced exactly through a tanh reparameterization of the decision vector;
// the pairwise separation constraint enters as a smooth quadratic hinge
// penalty and is verified on the returned solution, so an accepted solution
// is always feasible.
//
// The resulting smooth unconstrained program is minimized with L-BFGS
// (gonum/optimize) using central-difference gradients (gonum/diff/fd).
package ocp
