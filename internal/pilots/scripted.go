package pilots

import (
	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/playground"
)

// Segment holds one input for a number of ticks.
type Segment struct {
	Ticks int       `yaml:"ticks"`
	Input []float64 `yaml:"input"`
}

// Scripted plays segments back one tick per call. Once the script runs
// out it idles, or starts over when looping.
type Scripted struct {
	segments []Segment
	loop     bool
	calls    int
	total    int
}

func NewScripted(segments []Segment, loop bool) (*Scripted, error) {
	if len(segments) == 0 {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "script has no segments")
	}
	total := 0
	for i, s := range segments {
		if s.Ticks <= 0 {
			return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "segment %d has %d ticks", i, s.Ticks)
		}
		if len(s.Input) == 0 {
			return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "segment %d has no input", i)
		}
		total += s.Ticks
	}
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = Segment{Ticks: s.Ticks, Input: append([]float64(nil), s.Input...)}
	}
	return &Scripted{segments: out, loop: loop, total: total}, nil
}

// Done reports whether a non-looping script has played out.
func (s *Scripted) Done() bool {
	return !s.loop && s.calls >= s.total
}

func (s *Scripted) Execute(view playground.View, uid int) (dynamo.ControlInput, error) {
	n := s.calls
	s.calls++
	if s.loop {
		n %= s.total
	}
	for _, seg := range s.segments {
		if n < seg.Ticks {
			return dynamo.ControlInputOf(seg.Input...), nil
		}
		n -= seg.Ticks
	}
	r, err := view.Robot(uid)
	if err != nil {
		return nil, err
	}
	return dynamo.ZeroInput(r.Model()), nil
}
