// Package models provides the kinematic vehicle models.
//
// Each model implements [dynamo.KinematicModel] as a driftless affine
// control system
//
//	dX/dt = G(X)·u
//
// so a zero control input always yields a zero derivative:
//
//   - [DiffDrive]: two independently driven wheels on a common axle
//   - [Dubins]: forward-only car with a minimum turning radius
//   - [Tricycle]: steered and driven front wheel
//   - [Ackermann]: rear-wheel drive with front steering (bicycle model)
//
// Every model also implements [Commander], mapping a body twist (v, ω) to
// its native input, and [dynamo.Configurable].
//
// Models are immutable once constructed and may be shared by any number of
// robots and integrators.
package models
