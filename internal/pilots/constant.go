package pilots

import (
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/playground"
)

// Constant returns the same input every tick. The input can be replaced
// between ticks with Set.
type Constant struct {
	u dynamo.ControlInput
}

func NewConstant(values ...float64) *Constant {
	return &Constant{u: dynamo.ControlInputOf(values...)}
}

// Set replaces the commanded input.
func (c *Constant) Set(values ...float64) {
	c.u = dynamo.ControlInputOf(values...)
}

func (c *Constant) Execute(playground.View, int) (dynamo.ControlInput, error) {
	return c.u.Clone(), nil
}
