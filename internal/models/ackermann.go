package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Ackermann is a rear-wheel-drive car with Ackermann front steering,
// reduced to the bicycle model.
//
// Pose is [x, y, θ, ψ] with ψ the virtual centre steering angle; the input
// is [ω, ψ̇], the rear wheel angular velocity and the steering rate.
type Ackermann struct {
	Base
	wheelRadius float64
	wheelbase   float64
	maxSteer    float64
}

func NewAckermann(wheelRadius, wheelbase, maxSteer float64) (*Ackermann, error) {
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
	return &Ackermann{Base: base, wheelRadius: wheelRadius, wheelbase: wheelbase, maxSteer: maxSteer}, nil
}

func (a *Ackermann) WheelRadius() float64 { return a.wheelRadius }
func (a *Ackermann) Wheelbase() float64   { return a.wheelbase }
func (a *Ackermann) MaxSteer() float64    { return a.maxSteer }

func (a *Ackermann) ComputeStateDerivative(s dynamo.State, u dynamo.ControlInput) (dynamo.State, error) {
	if err := a.Validate(s, u); err != nil {
		return dynamo.State{}, err
	}
	theta, _ := s.At(2)
	psi, _ := s.At(3)
	if err := steerable(psi); err != nil {
		return dynamo.State{}, err
	}
	sin, cos := math.Sincos(theta)
	r := a.wheelRadius

	g := mat.NewDense(4, 2, []float64{
		r * cos, 0,
		r * sin, 0,
		r * math.Tan(psi) / a.wheelbase, 0,
		0, 1,
	})
	return a.affine(g, u), nil
}

func (a *Ackermann) NormalizeState(s dynamo.State) dynamo.State {
	return dynamo.WrapPoseAngles(s, 2, 3)
}

// Command drives the rear wheel at v and slews the steering toward the
// angle that yields turn rate omega.
func (a *Ackermann) Command(s dynamo.State, v, omega float64) (dynamo.ControlInput, error) {
	if err := a.Validate(s, dynamo.ZeroInput(a)); err != nil {
		return nil, err
	}
	psi, _ := s.At(3)
	target := steerTarget(v, omega, a.wheelbase, a.maxSteer)
	return dynamo.ControlInputOf(v/a.wheelRadius, steerGain*(target-psi)), nil
}

func (a *Ackermann) Params() map[string]float64 {
	return map[string]float64{
		"wheel_radius": a.wheelRadius,
		"wheelbase":    a.wheelbase,
		"max_steer":    a.maxSteer,
	}
}
