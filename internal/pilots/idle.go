package pilots

import (
	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/playground"
)

// Idle commands a zero input sized for the robot's model.
type Idle struct{}

func NewIdle() *Idle {
	return &Idle{}
}

func (i *Idle) Execute(view playground.View, uid int) (dynamo.ControlInput, error) {
	r, err := view.Robot(uid)
	if err != nil {
		return nil, err
	}
	return dynamo.ZeroInput(r.Model()), nil
}
