package models

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/robosim/internal/dynamo"
)

// turnSlack absorbs rounding when a command sits exactly on the minimum
// turning radius.
const turnSlack = 1e-9

// Dubins is a forward-only car with a minimum turning radius.
//
// Pose is [x, y, θ]; the input is [v, ω] with v >= 0 and |ω| <= v/ρ.
type Dubins struct {
	Base
	turningRadius float64
}

func NewDubins(turningRadius float64) (*Dubins, error) {
	if err := positive("turning radius", turningRadius); err != nil {
		return nil, err
	}
	base, err := NewBase(3, 0, 2)
	if err != nil {
		return nil, err
	}
	return &Dubins{Base: base, turningRadius: turningRadius}, nil
}

func (d *Dubins) TurningRadius() float64 { return d.turningRadius }

func (d *Dubins) ComputeStateDerivative(s dynamo.State, u dynamo.ControlInput) (dynamo.State, error) {
	if err := d.Validate(s, u); err != nil {
		return dynamo.State{}, err
	}
	v, omega := u[0], u[1]
	if v < 0 {
		return dynamo.State{}, errors.Wrapf(dynamo.ErrInvalidArgument, "dubins speed %g is negative", v)
	}
	if math.Abs(omega)*d.turningRadius > v+turnSlack {
		return dynamo.State{}, errors.Wrapf(dynamo.ErrInvalidArgument,
			"turn rate %g tighter than radius %g at speed %g", omega, d.turningRadius, v)
	}
	theta, _ := s.At(2)
	sin, cos := math.Sincos(theta)

	g := mat.NewDense(3, 2, []float64{
		cos, 0,
		sin, 0,
		0, 1,
	})
	return d.affine(g, u), nil
}

func (d *Dubins) NormalizeState(s dynamo.State) dynamo.State {
	return dynamo.WrapPoseAngles(s, 2)
}

// Command clamps v to be non-negative and the turn rate to the minimum
// turning radius.
func (d *Dubins) Command(s dynamo.State, v, omega float64) (dynamo.ControlInput, error) {
	if err := d.Validate(s, dynamo.ZeroInput(d)); err != nil {
		return nil, err
	}
	v = math.Max(v, 0)
	limit := v / d.turningRadius
	return dynamo.ControlInputOf(v, clamp(omega, -limit, limit)), nil
}

func (d *Dubins) Params() map[string]float64 {
	return map[string]float64{"turning_radius": d.turningRadius}
}
