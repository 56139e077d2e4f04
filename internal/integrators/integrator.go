// Package integrators advances a State through a KinematicModel with a
// fixed-step ODE scheme.
//
// The set of schemes is closed: Euler, Midpoint and RK4, selected by
// [Kind]. An [Integrator] is bound to one model at construction.
package integrators

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Kind selects an integration scheme.
type Kind int

const (
	Euler Kind = iota
	Midpoint
	RK4
)

var kindNames = map[Kind]string{
	Euler:    "euler",
	Midpoint: "midpoint",
	RK4:      "rk4",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k names a known scheme.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind resolves a scheme by name, ignoring case.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return 0, errors.Wrapf(dynamo.ErrInvalidArgument, "unknown integrator: %s", name)
}

// Kinds lists every scheme in declaration order.
func Kinds() []Kind {
	return []Kind{Euler, Midpoint, RK4}
}

// Integrator steps states of one model with one scheme. It holds no
// mutable state, so Step is a pure function of its arguments.
type Integrator struct {
	kind  Kind
	model dynamo.KinematicModel
}

func New(kind Kind, model dynamo.KinematicModel) (*Integrator, error) {
	if !kind.Valid() {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "unknown integrator kind %d", int(kind))
	}
	if model == nil {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "integrator needs a model")
	}
	return &Integrator{kind: kind, model: model}, nil
}

func (in *Integrator) Kind() Kind                   { return in.kind }
func (in *Integrator) Model() dynamo.KinematicModel { return in.model }

// Step advances s by one step of size dt under constant input u.
func (in *Integrator) Step(s dynamo.State, u dynamo.ControlInput, dt float64) (dynamo.State, error) {
	if !(dt > 0) {
		return dynamo.State{}, errors.Wrapf(dynamo.ErrInvalidArgument, "dt must be positive, got %g", dt)
	}
	switch in.kind {
	case Euler:
		return eulerStep(in.model, s, u, dt)
	case Midpoint:
		return midpointStep(in.model, s, u, dt)
	case RK4:
		return rk4Step(in.model, s, u, dt)
	}
	return dynamo.State{}, errors.Wrapf(dynamo.ErrLogic, "unhandled integrator kind %d", int(in.kind))
}

// Integrate repeats Step over total time, shortening the last step so the
// result lands exactly on total.
func (in *Integrator) Integrate(s dynamo.State, u dynamo.ControlInput, total, dt float64) (dynamo.State, error) {
	if total < 0 || math.IsNaN(total) {
		return dynamo.State{}, errors.Wrapf(dynamo.ErrInvalidArgument, "total time must be non-negative, got %g", total)
	}
	if !(dt > 0) {
		return dynamo.State{}, errors.Wrapf(dynamo.ErrInvalidArgument, "dt must be positive, got %g", dt)
	}

	// Remainders below this are rounding left over from summing dt.
	eps := total * 1e-12
	x := s.Clone()
	for elapsed := 0.0; total-elapsed > eps; {
		h := math.Min(dt, total-elapsed)
		next, err := in.Step(x, u, h)
		if err != nil {
			return dynamo.State{}, errors.Wrapf(err, "at t=%g", elapsed)
		}
		x = next
		elapsed += h
	}
	return x, nil
}

// axpy returns x + h·k.
func axpy(x, k dynamo.State, h float64) (dynamo.State, error) {
	return x.Add(k.Scale(h))
}
