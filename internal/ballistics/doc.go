// Package ballistics holds the launch description shared by the simulator
// and the solvers.
//
//   - [State]: start, target, launch speed and direction (radians)
//   - [Vec2]: a point in metres
//
// Errors returned anywhere in the module wrap one of the sentinels declared
// here and can be matched with errors.Is:
//
//	if errors.Is(err, ballistics.ErrInfeasible) {
//	    // target out of range
//	}
//
// # Thread Safety
//
// A *State is not safe for concurrent use. Solvers never write to it while
// searching; they commit the solved value once, on success.
package ballistics
