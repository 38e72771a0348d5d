// Package planner implements the three-phase receding-horizon pursuit
// planner:
//
//  1. the virtual-center planner moves an imaginary formation center to
//     track the linearly-extrapolated target (one optimal-control solve),
//  2. the formation generator derives circular, phase-shifted reference
//     trajectories for both trackers around the predicted center (closed
//     form),
//  3. the tracker planner plans both trackers jointly against those
//     references under a hard minimum-separation constraint (a second
//     optimal-control solve).
//
// Only the first control of each cycle is applied; the pipeline re-solves
// every timestep. A PID pure-pursuit baseline planner is provided for
// comparison runs.
package planner
