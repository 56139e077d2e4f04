package metrics

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/playground"
)

// Sample is one recorded robot state.
type Sample struct {
	Tick  int
	Time  float64
	State dynamo.State
	Input dynamo.ControlInput
}

// Trace records every robot's trajectory, starting with the state before
// its first step.
type Trace struct {
	samples map[int][]Sample
}

func NewTrace() *Trace {
	return &Trace{samples: make(map[int][]Sample)}
}

func (t *Trace) Name() string { return "trace" }

func (t *Trace) OnStep(s playground.Step) {
	if len(t.samples[s.UID]) == 0 {
		t.samples[s.UID] = append(t.samples[s.UID], Sample{
			Tick:  s.Tick - 1,
			Time:  s.Time - timeStep(s),
			State: s.Prev.Clone(),
		})
	}
	t.samples[s.UID] = append(t.samples[s.UID], Sample{
		Tick:  s.Tick,
		Time:  s.Time,
		State: s.Next.Clone(),
		Input: s.Input.Clone(),
	})
}

// timeStep recovers dt from a step's tick and time.
func timeStep(s playground.Step) float64 {
	if s.Tick == 0 {
		return 0
	}
	return s.Time / float64(s.Tick)
}

// Value returns the number of samples recorded for uid.
func (t *Trace) Value(uid int) float64 { return float64(len(t.samples[uid])) }

func (t *Trace) Reset() {
	t.samples = make(map[int][]Sample)
}

// UIDs returns the traced robots in ascending order.
func (t *Trace) UIDs() []int {
	uids := make([]int, 0, len(t.samples))
	for uid := range t.samples {
		uids = append(uids, uid)
	}
	sort.Ints(uids)
	return uids
}

func (t *Trace) Samples(uid int) []Sample {
	return append([]Sample(nil), t.samples[uid]...)
}

// Series returns flattened state element i over time for uid. Samples
// without element i are skipped.
func (t *Trace) Series(uid, i int) []float64 {
	out := make([]float64, 0, len(t.samples[uid]))
	for _, s := range t.samples[uid] {
		if v, err := s.State.At(i); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Describe summarises state element i of robot uid over the trace.
func (t *Trace) Describe(uid, i int) (Summary, error) {
	return describe("trace", stats.Float64Data(t.Series(uid, i)))
}
