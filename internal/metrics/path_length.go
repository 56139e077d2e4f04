package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/playground"
)

// PathLength is the planar distance each robot has driven, from pose
// elements 0 and 1.
type PathLength struct {
	name     string
	distance map[int]float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length", distance: make(map[int]float64)}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) OnStep(s playground.Step) {
	x0, err0 := s.Prev.At(0)
	y0, err1 := s.Prev.At(1)
	x1, err2 := s.Next.At(0)
	y1, err3 := s.Next.At(1)
	if err0 != nil || err1 != nil || err2 != nil || err3 != nil {
		return
	}
	p.distance[s.UID] += math.Hypot(x1-x0, y1-y0)
}

func (p *PathLength) Value(uid int) float64 { return p.distance[uid] }

func (p *PathLength) Reset() {
	p.distance = make(map[int]float64)
}
