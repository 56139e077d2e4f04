// Package pilots provides ready-made [playground.Pilot] implementations:
//
//   - [Idle]: zero input, the robot holds still
//   - [Constant]: a fixed input every tick
//   - [Scripted]: a timed sequence of fixed inputs
//   - [GoToGoal]: heading PID toward a waypoint, via [models.Commander]
//   - [Guarded]: wraps another pilot and stops short of occupied cells
//
// # Usage
//
//	goal, _ := pilots.NewGoToGoal(8, 4, pilots.WithSpeed(0.5))
//	guard, _ := pilots.NewGuarded(goal, 0.4, logger)
//	pg.AddRobot(r, guard, integrators.RK4, 1)
//
// Pilots with memory (Scripted, GoToGoal) must drive a single robot.
package pilots
