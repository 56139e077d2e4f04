package integrators

import "github.com/san-kum/robosim/internal/dynamo"

func midpointStep(m dynamo.KinematicModel, x dynamo.State, u dynamo.ControlInput, dt float64) (dynamo.State, error) {
	k1, err := m.ComputeStateDerivative(x, u)
	if err != nil {
		return dynamo.State{}, err
	}
	mid, err := axpy(x, k1, dt/2)
	if err != nil {
		return dynamo.State{}, err
	}
	k2, err := m.ComputeStateDerivative(mid, u)
	if err != nil {
		return dynamo.State{}, err
	}
	out, err := axpy(x, k2, dt)
	if err != nil {
		return dynamo.State{}, err
	}
	return m.NormalizeState(out), nil
}
