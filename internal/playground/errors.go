package playground

import "fmt"

// TickError reports the robot a tick failed on. Tick and Time are those of
// the attempted tick. Robots earlier in the tick have already been stepped.
type TickError struct {
	Tick int
	Time float64
	UID  int
	Err  error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) robot %d: %v", e.Tick, e.Time, e.UID, e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}
