package integrators

import "github.com/san-kum/robosim/internal/dynamo"

func rk4Step(m dynamo.KinematicModel, x dynamo.State, u dynamo.ControlInput, dt float64) (dynamo.State, error) {
	k1, err := m.ComputeStateDerivative(x, u)
	if err != nil {
		return dynamo.State{}, err
	}

	scratch, err := axpy(x, k1, dt*0.5)
	if err != nil {
		return dynamo.State{}, err
	}
	k2, err := m.ComputeStateDerivative(scratch, u)
	if err != nil {
		return dynamo.State{}, err
	}

	scratch, err = axpy(x, k2, dt*0.5)
	if err != nil {
		return dynamo.State{}, err
	}
	k3, err := m.ComputeStateDerivative(scratch, u)
	if err != nil {
		return dynamo.State{}, err
	}

	scratch, err = axpy(x, k3, dt)
	if err != nil {
		return dynamo.State{}, err
	}
	k4, err := m.ComputeStateDerivative(scratch, u)
	if err != nil {
		return dynamo.State{}, err
	}

	// k1 + 2k2 + 2k3 + k4; shapes already match the model.
	sum := k1.Clone()
	_ = sum.AddAssign(k2.Scale(2))
	_ = sum.AddAssign(k3.Scale(2))
	_ = sum.AddAssign(k4)

	out, err := axpy(x, sum, dt/6.0)
	if err != nil {
		return dynamo.State{}, err
	}
	return m.NormalizeState(out), nil
}
