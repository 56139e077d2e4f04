// Package dynamo provides the numeric primitives shared by every vehicle
// model, integrator and robot in the simulator.
//
// The package defines:
//
//   - [Pose], [Velocity], [ControlInput]: fixed-size vectors with an
//     explicit empty state
//   - [State]: a Pose and Velocity pair whose components may be empty
//     independently
//   - [KinematicModel]: interface for vehicle equations of motion
//     (dX/dt = F(X) + G(X)·u)
//
// # Example
//
//	s := dynamo.StateOf(dynamo.PoseOf(0, 0, 0), nil)
//	k, _ := model.ComputeStateDerivative(s, dynamo.ControlInputOf(1, 1))
//	next, _ := s.Add(k.Scale(0.1))
//
// # Errors
//
// Failures are reported with the sentinels in errors.go. Size mismatches
// are invalid arguments; access to an empty component is a logic error;
// bad indices are out-of-range errors. Use errors.Is to classify them.
//
// # Thread Safety
//
// Vectors and states are plain values backed by slices. Nothing here is
// safe for concurrent mutation.
package dynamo
