package metrics

import (
	"math"

	"github.com/san-kum/robosim/internal/playground"
)

// ControlEffort is the mean L1 norm of each robot's control input.
type ControlEffort struct {
	name    string
	sum     map[int]float64
	samples map[int]int
}

func NewControlEffort() *ControlEffort {
	c := &ControlEffort{name: "control_effort"}
	c.Reset()
	return c
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) OnStep(s playground.Step) {
	for _, val := range s.Input {
		c.sum[s.UID] += math.Abs(val)
	}
	c.samples[s.UID]++
}

func (c *ControlEffort) Value(uid int) float64 {
	if c.samples[uid] == 0 {
		return 0
	}
	return c.sum[uid] / float64(c.samples[uid])
}

func (c *ControlEffort) Reset() {
	c.sum = make(map[int]float64)
	c.samples = make(map[int]int)
}
