package robot

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/dynamo"
)

// Footprint is the body outline of a robot in its own frame, +x forward.
// It is immutable once built.
type Footprint struct {
	points []r2.Point
}

// NewFootprint copies points into a footprint. At least one point is
// required.
func NewFootprint(points ...r2.Point) (Footprint, error) {
	if len(points) == 0 {
		return Footprint{}, errors.Wrap(dynamo.ErrInvalidArgument, "footprint needs at least one point")
	}
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "footprint point %d is not finite", i)
		}
	}
	return Footprint{points: append([]r2.Point(nil), points...)}, nil
}

// Points returns a copy of the outline.
func (f Footprint) Points() []r2.Point {
	return append([]r2.Point(nil), f.points...)
}

func (f Footprint) Len() int { return len(f.points) }

// Bounds returns the axis-aligned bounding box of the outline.
func (f Footprint) Bounds() r2.Rect {
	return r2.RectFromPoints(f.points...)
}

// Radius returns the distance from the origin to the furthest point.
func (f Footprint) Radius() float64 {
	var r float64
	for _, p := range f.points {
		r = math.Max(r, p.Norm())
	}
	return r
}

// Circle approximates a circle centred on the origin with a regular polygon.
func Circle(radius float64, segments int) (Footprint, error) {
	if !(radius > 0) {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "circle radius must be positive, got %g", radius)
	}
	if segments < 3 {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "circle needs at least 3 segments, got %d", segments)
	}
	return NewFootprint(arc(r2.Point{}, radius, 0, 2*math.Pi, segments, false)...)
}

// Rectangle returns a width × height box centred on the origin, width
// along x.
func Rectangle(width, height float64) (Footprint, error) {
	if !(width > 0 && height > 0) {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "rectangle %gx%g must have positive sides", width, height)
	}
	w, h := width/2, height/2
	return NewFootprint(
		r2.Point{X: w, Y: h},
		r2.Point{X: -w, Y: h},
		r2.Point{X: -w, Y: -h},
		r2.Point{X: w, Y: -h},
	)
}

// RoundedRectangle returns a box whose corners are quarter circles of the
// given radius, each drawn with segments edges.
func RoundedRectangle(width, height, radius float64, segments int) (Footprint, error) {
	if !(width > 0 && height > 0) {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "rectangle %gx%g must have positive sides", width, height)
	}
	if !(radius > 0) || radius > math.Min(width, height)/2 {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument,
			"corner radius %g must be in (0, %g]", radius, math.Min(width, height)/2)
	}
	if segments < 1 {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "corner needs at least 1 segment, got %d", segments)
	}
	w, h := width/2-radius, height/2-radius
	centres := []r2.Point{{X: w, Y: h}, {X: -w, Y: h}, {X: -w, Y: -h}, {X: w, Y: -h}}

	var points []r2.Point
	for i, c := range centres {
		start := float64(i) * math.Pi / 2
		points = append(points, arc(c, radius, start, math.Pi/2, segments, true)...)
	}
	return NewFootprint(points...)
}

// Triangle returns an isosceles triangle pointing along +x with its
// centroid on the origin.
func Triangle(base, height float64) (Footprint, error) {
	if !(base > 0 && height > 0) {
		return Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "triangle %gx%g must have positive sides", base, height)
	}
	return NewFootprint(
		r2.Point{X: 2 * height / 3, Y: 0},
		r2.Point{X: -height / 3, Y: base / 2},
		r2.Point{X: -height / 3, Y: -base / 2},
	)
}

// arc samples segments edges of a circular arc counter-clockwise from
// start through sweep. closed includes the end point.
func arc(centre r2.Point, radius, start, sweep float64, segments int, closed bool) []r2.Point {
	n := segments
	if closed {
		n++
	}
	points := make([]r2.Point, 0, n)
	for i := 0; i < n; i++ {
		sin, cos := math.Sincos(start + sweep*float64(i)/float64(segments))
		points = append(points, centre.Add(r2.Point{X: cos, Y: sin}.Mul(radius)))
	}
	return points
}
