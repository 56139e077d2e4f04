package dynamo

import (
	"github.com/pkg/errors"
)

// Domain errors for state and model operations.
var (
	// ErrInvalidArgument indicates a bad constructor or operation argument.
	ErrInvalidArgument = errors.New("dynamo: invalid argument")

	// ErrSizeMismatch indicates operands whose shapes differ. It is also an
	// ErrInvalidArgument.
	ErrSizeMismatch = errors.WithMessage(ErrInvalidArgument, "size mismatch")

	// ErrLogic indicates a call that violates an object's current state.
	ErrLogic = errors.New("dynamo: logic error")

	// ErrEmpty indicates access to an empty vector or state component. It is
	// also an ErrLogic, never an ErrSizeMismatch.
	ErrEmpty = errors.WithMessage(ErrLogic, "empty")

	// ErrOutOfRange indicates an index outside [0, size).
	ErrOutOfRange = errors.New("dynamo: index out of range")
)

func sizeMismatch(what string, got, want int) error {
	return errors.Wrapf(ErrSizeMismatch, "%s: got %d, want %d", what, got, want)
}
