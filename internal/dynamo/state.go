package dynamo

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// State is a Pose and Velocity pair. Either component may be empty
// independently; arithmetic is checked per component, never on the
// flattened total.
type State struct {
	pose     Pose
	velocity Velocity
}

// NewState returns a zero state with the given component sizes.
func NewState(poseSize, velocitySize int) (State, error) {
	p, err := NewPose(poseSize)
	if err != nil {
		return State{}, errors.Wrap(err, "pose")
	}
	v, err := NewVelocity(velocitySize)
	if err != nil {
		return State{}, errors.Wrap(err, "velocity")
	}
	return State{pose: p, velocity: v}, nil
}

// StateOf returns a state holding copies of p and v.
func StateOf(p Pose, v Velocity) State {
	return State{pose: p.Clone(), velocity: v.Clone()}
}

func (s State) PoseSize() int         { return len(s.pose) }
func (s State) VelocitySize() int     { return len(s.velocity) }
func (s State) Size() int             { return len(s.pose) + len(s.velocity) }
func (s State) IsEmpty() bool         { return s.Size() == 0 }
func (s State) IsPoseEmpty() bool     { return len(s.pose) == 0 }
func (s State) IsVelocityEmpty() bool { return len(s.velocity) == 0 }

// Pose returns a copy of the pose component.
func (s State) Pose() (Pose, error) {
	if s.IsPoseEmpty() {
		return nil, errors.Wrap(ErrEmpty, "pose")
	}
	return s.pose.Clone(), nil
}

// Velocity returns a copy of the velocity component.
func (s State) Velocity() (Velocity, error) {
	if s.IsVelocityEmpty() {
		return nil, errors.Wrap(ErrEmpty, "velocity")
	}
	return s.velocity.Clone(), nil
}

// SetPose overwrites the pose component. The component must be non-empty
// and p must have the same size.
func (s State) SetPose(p Pose) error {
	if s.IsPoseEmpty() {
		return errors.Wrap(ErrEmpty, "pose")
	}
	return errors.Wrap(s.pose.SetData(p), "pose")
}

// SetVelocity overwrites the velocity component.
func (s State) SetVelocity(v Velocity) error {
	if s.IsVelocityEmpty() {
		return errors.Wrap(ErrEmpty, "velocity")
	}
	return errors.Wrap(s.velocity.SetData(v), "velocity")
}

// Data returns the flattened pose followed by velocity.
func (s State) Data() ([]float64, error) {
	if s.IsEmpty() {
		return nil, errors.Wrap(ErrEmpty, "state")
	}
	out := make([]float64, 0, s.Size())
	out = append(out, s.pose...)
	return append(out, s.velocity...), nil
}

// SetData overwrites the whole state from a flattened vector.
func (s State) SetData(data []float64) error {
	if s.IsEmpty() {
		return errors.Wrap(ErrEmpty, "state")
	}
	if len(data) != s.Size() {
		return sizeMismatch("state data", len(data), s.Size())
	}
	copy(s.pose, data[:len(s.pose)])
	copy(s.velocity, data[len(s.pose):])
	return nil
}

// At reads the flattened element i; pose elements come first.
func (s State) At(i int) (float64, error) {
	if err := checkIndex(s.Size(), i); err != nil {
		return 0, err
	}
	if i < len(s.pose) {
		return s.pose[i], nil
	}
	return s.velocity[i-len(s.pose)], nil
}

// Set writes the flattened element i.
func (s State) Set(i int, x float64) error {
	if err := checkIndex(s.Size(), i); err != nil {
		return err
	}
	if i < len(s.pose) {
		s.pose[i] = x
	} else {
		s.velocity[i-len(s.pose)] = x
	}
	return nil
}

func (s State) checkShape(o State) error {
	if len(s.pose) != len(o.pose) {
		return sizeMismatch("pose", len(o.pose), len(s.pose))
	}
	if len(s.velocity) != len(o.velocity) {
		return sizeMismatch("velocity", len(o.velocity), len(s.velocity))
	}
	return nil
}

// Add returns s + o.
func (s State) Add(o State) (State, error) {
	if err := s.checkShape(o); err != nil {
		return State{}, err
	}
	p, _ := s.pose.Add(o.pose)
	v, _ := s.velocity.Add(o.velocity)
	return State{pose: p, velocity: v}, nil
}

// Sub returns s - o.
func (s State) Sub(o State) (State, error) {
	if err := s.checkShape(o); err != nil {
		return State{}, err
	}
	p, _ := s.pose.Sub(o.pose)
	v, _ := s.velocity.Sub(o.velocity)
	return State{pose: p, velocity: v}, nil
}

// AddAssign adds o into s. On error s is left unmodified.
func (s State) AddAssign(o State) error {
	if err := s.checkShape(o); err != nil {
		return err
	}
	_ = s.pose.AddAssign(o.pose)
	_ = s.velocity.AddAssign(o.velocity)
	return nil
}

// SubAssign subtracts o from s. On error s is left unmodified.
func (s State) SubAssign(o State) error {
	if err := s.checkShape(o); err != nil {
		return err
	}
	_ = s.pose.SubAssign(o.pose)
	_ = s.velocity.SubAssign(o.velocity)
	return nil
}

func (s State) Scale(k float64) State {
	return State{pose: s.pose.Scale(k), velocity: s.velocity.Scale(k)}
}

func (s State) ScaleAssign(k float64) {
	s.pose.ScaleAssign(k)
	s.velocity.ScaleAssign(k)
}

// Like returns a zero state of the same shape (CreateLike).
func (s State) Like() State {
	return State{pose: s.pose.Like(), velocity: s.velocity.Like()}
}

func (s State) Clone() State {
	return State{pose: s.pose.Clone(), velocity: s.velocity.Clone()}
}

// Equal reports whether both components have the same sizes and agree
// elementwise within Tolerance.
func (s State) Equal(o State) bool {
	return s.pose.Equal(o.pose) && s.velocity.Equal(o.velocity)
}

// IsValid reports whether every element is finite.
func (s State) IsValid() bool {
	for _, x := range s.pose {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	for _, x := range s.velocity {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (s State) String() string {
	return fmt.Sprintf("State{pose: %v, velocity: %v}", []float64(s.pose), []float64(s.velocity))
}
