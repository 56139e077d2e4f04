// Package robot couples a kinematic model with a body footprint and the
// vehicle's current state.
package robot

import (
	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Unbound is the UID of a robot not yet added to a playground.
const Unbound = -1

// Robot is one simulated vehicle. The model is shared and never copied;
// the state is owned.
type Robot struct {
	model     dynamo.KinematicModel
	footprint Footprint
	state     dynamo.State
	uid       int
}

type Option func(*Robot) error

// WithState sets the initial state. Its component sizes must match the
// model.
func WithState(s dynamo.State) Option {
	return func(r *Robot) error {
		if err := checkState(r.model, s); err != nil {
			return err
		}
		r.state = s.Clone()
		return nil
	}
}

// New builds a robot at the model's zero state unless WithState is given.
func New(model dynamo.KinematicModel, footprint Footprint, opts ...Option) (*Robot, error) {
	if model == nil {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "robot needs a model")
	}
	if footprint.Len() == 0 {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "robot needs a footprint")
	}
	r := &Robot{
		model:     model,
		footprint: footprint,
		state:     dynamo.ZeroState(model),
		uid:       Unbound,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func checkState(m dynamo.KinematicModel, s dynamo.State) error {
	if s.PoseSize() != m.PoseSize() || s.VelocitySize() != m.VelocitySize() {
		return errors.Wrapf(dynamo.ErrSizeMismatch, "state (%d, %d), model wants (%d, %d)",
			s.PoseSize(), s.VelocitySize(), m.PoseSize(), m.VelocitySize())
	}
	return nil
}

func (r *Robot) Model() dynamo.KinematicModel { return r.model }
func (r *Robot) Footprint() Footprint         { return r.footprint }
func (r *Robot) UID() int                     { return r.uid }

// State returns a copy of the current state.
func (r *Robot) State() dynamo.State { return r.state.Clone() }

// SetState replaces the state. The robot is unchanged on error.
func (r *Robot) SetState(s dynamo.State) error {
	if err := checkState(r.model, s); err != nil {
		return err
	}
	r.state = s.Clone()
	return nil
}

func (r *Robot) SetPose(p dynamo.Pose) error {
	return r.state.SetPose(p)
}

func (r *Robot) SetVelocity(v dynamo.Velocity) error {
	return r.state.SetVelocity(v)
}

// ComputeStateDerivative evaluates the model at the robot's own state.
func (r *Robot) ComputeStateDerivative(u dynamo.ControlInput) (dynamo.State, error) {
	return r.model.ComputeStateDerivative(r.state, u)
}

// ComputeStateDerivativeAt evaluates the model at s without touching the
// robot.
func (r *Robot) ComputeStateDerivativeAt(s dynamo.State, u dynamo.ControlInput) (dynamo.State, error) {
	return r.model.ComputeStateDerivative(s, u)
}

// AssignUID records the UID a registry filed the robot under. A robot
// belongs to at most one registry slot.
func (r *Robot) AssignUID(uid int) error {
	if uid < 0 {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "negative uid %d", uid)
	}
	if r.uid != Unbound && r.uid != uid {
		return errors.Wrapf(dynamo.ErrLogic, "robot already registered as uid %d", r.uid)
	}
	r.uid = uid
	return nil
}
