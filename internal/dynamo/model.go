package dynamo

// KinematicModel describes the equations of motion of one vehicle type.
//
// Implementations are immutable once built and are shared by pointer
// between every robot and integrator that uses them.
type KinematicModel interface {
	PoseSize() int
	VelocitySize() int
	InputSize() int

	// ComputeStateDerivative returns dX/dt for state s under input u. It
	// fails with ErrInvalidArgument when s or u is not shaped for the model.
	ComputeStateDerivative(s State, u ControlInput) (State, error)

	// NormalizeState maps s onto the model's canonical range, e.g. wrapping
	// headings. It must not fail for a correctly shaped state.
	NormalizeState(s State) State
}

// ZeroState returns a zero state shaped for m.
func ZeroState(m KinematicModel) State {
	s, _ := NewState(m.PoseSize(), m.VelocitySize())
	return s
}

// ZeroInput returns a zero control input shaped for m.
func ZeroInput(m KinematicModel) ControlInput {
	u, _ := NewControlInput(m.InputSize())
	return u
}

// Configurable is implemented by models that expose their parameters.
type Configurable interface {
	Params() map[string]float64
}
