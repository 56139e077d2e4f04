package dynamo

import (
	"math"

	"github.com/pkg/errors"
)

// Tolerance is the elementwise tolerance used by every Equal method.
const Tolerance = 1e-6

// Pose is the position/orientation component of a vehicle state.
// A nil or zero-length Pose is the explicit empty pose.
type Pose []float64

// Velocity is the rate-valued component of a vehicle state.
type Velocity []float64

// ControlInput is the actuation command consumed by a KinematicModel.
type ControlInput []float64

type vector interface {
	~[]float64
}

func newVec[V vector](size int) (V, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "negative size %d", size)
	}
	if size == 0 {
		return nil, nil
	}
	return make(V, size), nil
}

func vecOf[V vector](data []float64) V {
	if len(data) == 0 {
		return nil
	}
	v := make(V, len(data))
	copy(v, data)
	return v
}

func vecAt[V vector](v V, i int) (float64, error) {
	if err := checkIndex(len(v), i); err != nil {
		return 0, err
	}
	return v[i], nil
}

func vecSet[V vector](v V, i int, x float64) error {
	if err := checkIndex(len(v), i); err != nil {
		return err
	}
	v[i] = x
	return nil
}

func checkIndex(size, i int) error {
	if size == 0 {
		return errors.Wrapf(ErrEmpty, "index %d", i)
	}
	if i < 0 || i >= size {
		return errors.Wrapf(ErrOutOfRange, "index %d, size %d", i, size)
	}
	return nil
}

func vecSetData[V vector](v V, data []float64) error {
	if len(data) != len(v) {
		return sizeMismatch("set data", len(data), len(v))
	}
	copy(v, data)
	return nil
}

func vecAdd[V vector](a, b V, sign float64) (V, error) {
	if len(a) != len(b) {
		return nil, sizeMismatch("operand", len(b), len(a))
	}
	if len(a) == 0 {
		return nil, nil
	}
	out := make(V, len(a))
	for i := range a {
		out[i] = a[i] + sign*b[i]
	}
	return out, nil
}

func vecAddAssign[V vector](a, b V, sign float64) error {
	if len(a) != len(b) {
		return sizeMismatch("operand", len(b), len(a))
	}
	for i := range a {
		a[i] += sign * b[i]
	}
	return nil
}

func vecScale[V vector](v V, k float64) V {
	if len(v) == 0 {
		return nil
	}
	out := make(V, len(v))
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

func vecScaleAssign[V vector](v V, k float64) {
	for i := range v {
		v[i] *= k
	}
}

func vecLike[V vector](v V) V {
	if len(v) == 0 {
		return nil
	}
	return make(V, len(v))
}

func vecEqual[V vector](a, b V) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > Tolerance {
			return false
		}
	}
	return true
}

// NewPose returns a zero-filled pose of the given size.
func NewPose(size int) (Pose, error) { return newVec[Pose](size) }

// PoseOf returns a pose holding a copy of data.
func PoseOf(data ...float64) Pose { return vecOf[Pose](data) }

func (p Pose) Size() int                    { return len(p) }
func (p Pose) IsEmpty() bool                { return len(p) == 0 }
func (p Pose) At(i int) (float64, error)    { return vecAt(p, i) }
func (p Pose) Set(i int, x float64) error   { return vecSet(p, i, x) }
func (p Pose) SetData(data []float64) error { return vecSetData(p, data) }
func (p Pose) Add(o Pose) (Pose, error)     { return vecAdd(p, o, 1) }
func (p Pose) Sub(o Pose) (Pose, error)     { return vecAdd(p, o, -1) }
func (p Pose) AddAssign(o Pose) error       { return vecAddAssign(p, o, 1) }
func (p Pose) SubAssign(o Pose) error       { return vecAddAssign(p, o, -1) }
func (p Pose) Scale(k float64) Pose         { return vecScale(p, k) }
func (p Pose) ScaleAssign(k float64)        { vecScaleAssign(p, k) }
func (p Pose) Equal(o Pose) bool            { return vecEqual(p, o) }
func (p Pose) Clone() Pose                  { return vecOf[Pose](p) }
func (p Pose) Like() Pose                   { return vecLike(p) }

// NewVelocity returns a zero-filled velocity of the given size.
func NewVelocity(size int) (Velocity, error) { return newVec[Velocity](size) }

// VelocityOf returns a velocity holding a copy of data.
func VelocityOf(data ...float64) Velocity { return vecOf[Velocity](data) }

func (v Velocity) Size() int                        { return len(v) }
func (v Velocity) IsEmpty() bool                    { return len(v) == 0 }
func (v Velocity) At(i int) (float64, error)        { return vecAt(v, i) }
func (v Velocity) Set(i int, x float64) error       { return vecSet(v, i, x) }
func (v Velocity) SetData(data []float64) error     { return vecSetData(v, data) }
func (v Velocity) Add(o Velocity) (Velocity, error) { return vecAdd(v, o, 1) }
func (v Velocity) Sub(o Velocity) (Velocity, error) { return vecAdd(v, o, -1) }
func (v Velocity) AddAssign(o Velocity) error       { return vecAddAssign(v, o, 1) }
func (v Velocity) SubAssign(o Velocity) error       { return vecAddAssign(v, o, -1) }
func (v Velocity) Scale(k float64) Velocity         { return vecScale(v, k) }
func (v Velocity) ScaleAssign(k float64)            { vecScaleAssign(v, k) }
func (v Velocity) Equal(o Velocity) bool            { return vecEqual(v, o) }
func (v Velocity) Clone() Velocity                  { return vecOf[Velocity](v) }
func (v Velocity) Like() Velocity                   { return vecLike(v) }

// NewControlInput returns a zero-filled control input of the given size.
func NewControlInput(size int) (ControlInput, error) { return newVec[ControlInput](size) }

// ControlInputOf returns a control input holding a copy of data.
func ControlInputOf(data ...float64) ControlInput { return vecOf[ControlInput](data) }

func (u ControlInput) Size() int                                { return len(u) }
func (u ControlInput) IsEmpty() bool                            { return len(u) == 0 }
func (u ControlInput) At(i int) (float64, error)                { return vecAt(u, i) }
func (u ControlInput) Set(i int, x float64) error               { return vecSet(u, i, x) }
func (u ControlInput) SetData(data []float64) error             { return vecSetData(u, data) }
func (u ControlInput) Add(o ControlInput) (ControlInput, error) { return vecAdd(u, o, 1) }
func (u ControlInput) Sub(o ControlInput) (ControlInput, error) { return vecAdd(u, o, -1) }
func (u ControlInput) AddAssign(o ControlInput) error           { return vecAddAssign(u, o, 1) }
func (u ControlInput) SubAssign(o ControlInput) error           { return vecAddAssign(u, o, -1) }
func (u ControlInput) Scale(k float64) ControlInput             { return vecScale(u, k) }
func (u ControlInput) ScaleAssign(k float64)                    { vecScaleAssign(u, k) }
func (u ControlInput) Equal(o ControlInput) bool                { return vecEqual(u, o) }
func (u ControlInput) Clone() ControlInput                      { return vecOf[ControlInput](u) }
func (u ControlInput) Like() ControlInput                       { return vecLike(u) }
