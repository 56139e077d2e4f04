package playground

import "github.com/san-kum/robosim/internal/dynamo"

// Pilot decides the control input of one robot for one tick. The
// returned input is not size-checked by the pilot; the Playground rejects
// inputs that do not fit the robot's model.
type Pilot interface {
	Execute(view View, uid int) (dynamo.ControlInput, error)
}

// PilotFunc adapts a function to a Pilot.
type PilotFunc func(view View, uid int) (dynamo.ControlInput, error)

func (f PilotFunc) Execute(view View, uid int) (dynamo.ControlInput, error) { return f(view, uid) }
