package metrics

import (
	"github.com/san-kum/robosim/internal/gridmap"
	"github.com/san-kum/robosim/internal/playground"
)

// InBounds is the fraction of steps after which a robot was on the map
// and outside occupied cells. A robot never stepped scores 1.
type InBounds struct {
	name       string
	m          *gridmap.Map
	violations map[int]int
	samples    map[int]int
}

func NewInBounds(m *gridmap.Map) *InBounds {
	b := &InBounds{name: "in_bounds", m: m}
	b.Reset()
	return b
}

func (b *InBounds) Name() string {
	return b.name
}

func (b *InBounds) OnStep(s playground.Step) {
	b.samples[s.UID]++
	x, err := s.Next.At(0)
	if err != nil {
		return
	}
	y, err := s.Next.At(1)
	if err != nil {
		return
	}
	if occupied, err := b.m.Occupied(x, y); err != nil || occupied {
		b.violations[s.UID]++
	}
}

func (b *InBounds) Value(uid int) float64 {
	if b.samples[uid] == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations[uid])/float64(b.samples[uid])
}

func (b *InBounds) Reset() {
	b.violations = make(map[int]int)
	b.samples = make(map[int]int)
}
