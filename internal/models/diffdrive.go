package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/robosim/internal/dynamo"
)

// DiffDrive is a differential-drive vehicle.
//
// Pose is [x, y, θ]; the input is the [left, right] wheel angular velocity.
type DiffDrive struct {
	Base
	wheelRadius float64
	axleLength  float64
}

func NewDiffDrive(wheelRadius, axleLength float64) (*DiffDrive, error) {
	if err := positive("wheel radius", wheelRadius); err != nil {
		return nil, err
	}
	if err := positive("axle length", axleLength); err != nil {
		return nil, err
	}
	base, err := NewBase(3, 0, 2)
	if err != nil {
		return nil, err
	}
	return &DiffDrive{Base: base, wheelRadius: wheelRadius, axleLength: axleLength}, nil
}

func (d *DiffDrive) WheelRadius() float64 { return d.wheelRadius }
func (d *DiffDrive) AxleLength() float64  { return d.axleLength }

func (d *DiffDrive) ComputeStateDerivative(s dynamo.State, u dynamo.ControlInput) (dynamo.State, error) {
	if err := d.Validate(s, u); err != nil {
		return dynamo.State{}, err
	}
	theta, _ := s.At(2)
	half := d.wheelRadius / 2
	spin := d.wheelRadius / d.axleLength
	sin, cos := math.Sincos(theta)

	g := mat.NewDense(3, 2, []float64{
		half * cos, half * cos,
		half * sin, half * sin,
		-spin, spin,
	})
	return d.affine(g, u), nil
}

func (d *DiffDrive) NormalizeState(s dynamo.State) dynamo.State {
	return dynamo.WrapPoseAngles(s, 2)
}

// Command returns the wheel rates that produce forward speed v and turn
// rate omega.
func (d *DiffDrive) Command(s dynamo.State, v, omega float64) (dynamo.ControlInput, error) {
	if err := d.Validate(s, dynamo.ZeroInput(d)); err != nil {
		return nil, err
	}
	spin := omega * d.axleLength / 2
	return dynamo.ControlInputOf((v-spin)/d.wheelRadius, (v+spin)/d.wheelRadius), nil
}

func (d *DiffDrive) Params() map[string]float64 {
	return map[string]float64{
		"wheel_radius": d.wheelRadius,
		"axle_length":  d.axleLength,
	}
}
