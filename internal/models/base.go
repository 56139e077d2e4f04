package models

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Commander maps a desired body twist to a model's native control input.
type Commander interface {
	Command(s dynamo.State, v, omega float64) (dynamo.ControlInput, error)
}

// Base holds the declared sizes of a model. Embedding it gives a model the
// size accessors, an identity NormalizeState and input validation.
type Base struct {
	poseSize     int
	velocitySize int
	inputSize    int
}

// NewBase validates and returns the sizes of a model.
func NewBase(poseSize, velocitySize, inputSize int) (Base, error) {
	if poseSize < 0 || velocitySize < 0 || inputSize < 0 {
		return Base{}, errors.Wrapf(dynamo.ErrInvalidArgument,
			"negative model size (%d, %d, %d)", poseSize, velocitySize, inputSize)
	}
	if poseSize+velocitySize == 0 {
		return Base{}, errors.Wrap(dynamo.ErrInvalidArgument, "model state size is zero")
	}
	return Base{poseSize: poseSize, velocitySize: velocitySize, inputSize: inputSize}, nil
}

func (b Base) PoseSize() int     { return b.poseSize }
func (b Base) VelocitySize() int { return b.velocitySize }
func (b Base) InputSize() int    { return b.inputSize }

// NormalizeState returns a copy of s.
func (b Base) NormalizeState(s dynamo.State) dynamo.State {
	return s.Clone()
}

// Validate checks s and u against the declared sizes.
func (b Base) Validate(s dynamo.State, u dynamo.ControlInput) error {
	if s.PoseSize() != b.poseSize {
		return errors.Wrapf(dynamo.ErrSizeMismatch, "pose size %d, model wants %d", s.PoseSize(), b.poseSize)
	}
	if s.VelocitySize() != b.velocitySize {
		return errors.Wrapf(dynamo.ErrSizeMismatch, "velocity size %d, model wants %d", s.VelocitySize(), b.velocitySize)
	}
	if u.Size() != b.inputSize {
		return errors.Wrapf(dynamo.ErrSizeMismatch, "input size %d, model wants %d", u.Size(), b.inputSize)
	}
	return nil
}

// affine returns G·u split into pose and velocity components. G must have
// PoseSize+VelocitySize rows and InputSize columns.
func (b Base) affine(g *mat.Dense, u dynamo.ControlInput) dynamo.State {
	out := mat.NewVecDense(b.poseSize+b.velocitySize, nil)
	out.MulVec(g, mat.NewVecDense(len(u), u))
	data := out.RawVector().Data
	return dynamo.StateOf(dynamo.PoseOf(data[:b.poseSize]...), dynamo.VelocityOf(data[b.poseSize:]...))
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "%s must be positive, got %g", name, v)
	}
	return nil
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
