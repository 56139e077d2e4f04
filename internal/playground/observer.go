package playground

import "github.com/san-kum/robosim/internal/dynamo"

// Step describes one robot's update within a tick.
type Step struct {
	Tick  int
	Time  float64
	UID   int
	Input dynamo.ControlInput
	Prev  dynamo.State
	Next  dynamo.State
}

// Observer is notified after each robot is stepped.
type Observer interface {
	OnStep(step Step)
}

type ObserverFunc func(step Step)

func (f ObserverFunc) OnStep(step Step) { f(step) }
