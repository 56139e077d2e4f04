package integrators

import "github.com/san-kum/robosim/internal/dynamo"

// eulerStep is the explicit Euler step x + dt·f(x, u). The result is not
// normalized, so headings may leave (-π, π].
func eulerStep(m dynamo.KinematicModel, x dynamo.State, u dynamo.ControlInput, dt float64) (dynamo.State, error) {
	dx, err := m.ComputeStateDerivative(x, u)
	if err != nil {
		return dynamo.State{}, err
	}
	return axpy(x, dx, dt)
}
