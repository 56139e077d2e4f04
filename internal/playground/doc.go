// Package playground runs a fleet of robots on a shared map.
//
// A [Playground] owns a [State] (the map plus every registered robot) and,
// per robot UID, one binding of robot, [Pilot] and integrator. Each call
// to [Playground.Execute] is one tick: robots are visited in registration
// order, their pilot is asked for a control input, and the robot's state
// is advanced by one integration step of dt.
//
// Ticks are sequential-visible. A robot's new state is written back
// before the next robot's pilot runs, so later pilots in a tick observe
// earlier robots after their update. A failed tick stops at the failing
// robot; robots already stepped keep their new state and the tick counter
// does not advance. Retrying the tick steps those robots again under the
// same tick number, so observers see that tick twice for them and
// [Playground.Time] lags their states by one dt.
//
// [Playground.State] is a read-only [View], as is the view handed to
// pilots. Robots join only through [Playground.AddRobot], so every robot
// in the world has exactly one pilot and one integrator.
//
// Nothing in this package is safe for concurrent use.
package playground
