package models

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/robosim/internal/dynamo"
)

// steerGain is the proportional gain Command uses to slew a steering angle
// toward its target.
const steerGain = 4.0

// Tricycle has a single front wheel that is both steered and driven.
//
// Pose is [x, y, θ, δ] with δ the steering angle; the input is
// [ω, δ̇], the front wheel angular velocity and the steering rate.
type Tricycle struct {
	Base
	wheelRadius float64
	wheelbase   float64
	maxSteer    float64
}

func NewTricycle(wheelRadius, wheelbase, maxSteer float64) (*Tricycle, error) {
	if err := positive("wheel radius", wheelRadius); err != nil {
		return nil, err
	}
	if err := positive("wheelbase", wheelbase); err != nil {
		return nil, err
	}
	if err := steerLimit(maxSteer); err != nil {
		return nil, err
	}
	base, err := NewBase(4, 0, 2)
	if err != nil {
		return nil, err
	}
	return &Tricycle{Base: base, wheelRadius: wheelRadius, wheelbase: wheelbase, maxSteer: maxSteer}, nil
}

func (t *Tricycle) WheelRadius() float64 { return t.wheelRadius }
func (t *Tricycle) Wheelbase() float64   { return t.wheelbase }
func (t *Tricycle) MaxSteer() float64    { return t.maxSteer }

func (t *Tricycle) ComputeStateDerivative(s dynamo.State, u dynamo.ControlInput) (dynamo.State, error) {
	if err := t.Validate(s, u); err != nil {
		return dynamo.State{}, err
	}
	theta, _ := s.At(2)
	delta, _ := s.At(3)
	if err := steerable(delta); err != nil {
		return dynamo.State{}, err
	}
	sinT, cosT := math.Sincos(theta)
	sinD, cosD := math.Sincos(delta)
	r := t.wheelRadius

	g := mat.NewDense(4, 2, []float64{
		r * cosD * cosT, 0,
		r * cosD * sinT, 0,
		r * sinD / t.wheelbase, 0,
		0, 1,
	})
	return t.affine(g, u), nil
}

func (t *Tricycle) NormalizeState(s dynamo.State) dynamo.State {
	return dynamo.WrapPoseAngles(s, 2, 3)
}

// Command drives the front wheel so the body moves at v and slews the
// steering toward the angle that yields turn rate omega.
func (t *Tricycle) Command(s dynamo.State, v, omega float64) (dynamo.ControlInput, error) {
	if err := t.Validate(s, dynamo.ZeroInput(t)); err != nil {
		return nil, err
	}
	delta, _ := s.At(3)
	if err := steerable(delta); err != nil {
		return nil, err
	}
	target := steerTarget(v, omega, t.wheelbase, t.maxSteer)
	wheel := v / (t.wheelRadius * math.Cos(delta))
	return dynamo.ControlInputOf(wheel, steerGain*(target-delta)), nil
}

func (t *Tricycle) Params() map[string]float64 {
	return map[string]float64{
		"wheel_radius": t.wheelRadius,
		"wheelbase":    t.wheelbase,
		"max_steer":    t.maxSteer,
	}
}

// steerable rejects steering angles at or beyond ±π/2, where the steered
// wheel no longer moves the body forward and the geometry degenerates.
func steerable(angle float64) error {
	if math.Abs(angle) >= math.Pi/2 {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "steering angle %g is degenerate", angle)
	}
	return nil
}

func steerLimit(maxSteer float64) error {
	if !(maxSteer > 0 && maxSteer < math.Pi/2) {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "max steer %g outside (0, π/2)", maxSteer)
	}
	return nil
}

// steerTarget returns the bicycle-model steering angle for a body twist,
// clamped to ±maxSteer.
func steerTarget(v, omega, wheelbase, maxSteer float64) float64 {
	if v == 0 {
		return 0
	}
	return clamp(math.Atan(omega*wheelbase/v), -maxSteer, maxSteer)
}
