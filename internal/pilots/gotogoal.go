package pilots

import (
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/models"
	"github.com/san-kum/robosim/internal/playground"
)

// GoToGoal steers toward a point with a PID loop on heading error and
// stops inside the tolerance radius. The robot's model must implement
// models.Commander.
type GoToGoal struct {
	goalX, goalY float64
	speed        float64
	tolerance    float64
	dt           float64
	heading      *pid
	arrived      bool
}

type GoalOption func(*GoToGoal)

func WithSpeed(v float64) GoalOption       { return func(g *GoToGoal) { g.speed = v } }
func WithTolerance(d float64) GoalOption   { return func(g *GoToGoal) { g.tolerance = d } }
func WithSampleTime(dt float64) GoalOption { return func(g *GoToGoal) { g.dt = dt } }

func WithGains(kp, ki, kd float64) GoalOption {
	return func(g *GoToGoal) { g.heading = newPID(kp, ki, kd) }
}

func NewGoToGoal(x, y float64, opts ...GoalOption) (*GoToGoal, error) {
	g := &GoToGoal{
		goalX:     x,
		goalY:     y,
		speed:     1.0,
		tolerance: 0.1,
		dt:        0.1,
		heading:   newPID(2.0, 0, 0.1),
	}
	for _, opt := range opts {
		opt(g)
	}
	if !(g.speed > 0) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "speed must be positive, got %g", g.speed)
	}
	if !(g.tolerance > 0) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "tolerance must be positive, got %g", g.tolerance)
	}
	if !(g.dt > 0) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "sample time must be positive, got %g", g.dt)
	}
	return g, nil
}

// Goal returns the target point.
func (g *GoToGoal) Goal() (x, y float64) { return g.goalX, g.goalY }

// Arrived reports whether the last call found the robot within tolerance.
func (g *GoToGoal) Arrived() bool { return g.arrived }

// SetGoal retargets the pilot and clears the heading loop.
func (g *GoToGoal) SetGoal(x, y float64) {
	g.goalX, g.goalY = x, y
	g.arrived = false
	g.heading.reset()
}

func (g *GoToGoal) Execute(view playground.View, uid int) (dynamo.ControlInput, error) {
	r, err := view.Robot(uid)
	if err != nil {
		return nil, err
	}
	cmd, ok := r.Model().(models.Commander)
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "robot %d model %T takes no twist commands", uid, r.Model())
	}
	s := r.State()
	pose, err := s.Pose()
	if err != nil {
		return nil, err
	}
	if pose.Size() < 3 {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "robot %d pose has no heading", uid)
	}

	dx, dy := g.goalX-pose[0], g.goalY-pose[1]
	if math.Hypot(dx, dy) <= g.tolerance {
		g.arrived = true
		return cmd.Command(s, 0, 0)
	}
	g.arrived = false

	headingErr := dynamo.AngleDiff(math.Atan2(dy, dx), pose[2])
	omega := g.heading.update(headingErr, g.dt)
	// Slow down while facing away so the turn happens near the spot.
	v := g.speed * math.Max(math.Cos(headingErr), 0.1)
	return cmd.Command(s, v, omega)
}
