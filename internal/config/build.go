package config

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/gridmap"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/models"
	"github.com/san-kum/robosim/internal/pilots"
	"github.com/san-kum/robosim/internal/playground"
	"github.com/san-kum/robosim/internal/robot"
)

// Build validates the scenario and assembles a playground. Each entry of
// Models becomes one model instance shared by every robot naming it.
func (c *Config) Build(logger *zap.Logger, opts ...playground.Option) (*playground.Playground, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scenario")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := c.Map.build()
	if err != nil {
		return nil, errors.Wrap(err, "map")
	}

	shared := make(map[string]dynamo.KinematicModel, len(c.Models))
	for _, key := range c.ModelKeys() {
		mc := c.Models[key]
		model, err := models.New(mc.Type, mc.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "model %q", key)
		}
		shared[key] = model
	}

	opts = append([]playground.Option{playground.WithLogger(logger)}, opts...)
	pg, err := playground.New(c.Name, c.Dt, m, opts...)
	if err != nil {
		return nil, err
	}

	for _, rc := range c.Robots {
		if err := rc.add(pg, shared[rc.Model], c.Dt, logger); err != nil {
			return nil, errors.Wrapf(err, "robot %d", rc.UID)
		}
	}
	return pg, nil
}

func (mc MapConfig) build() (*gridmap.Map, error) {
	m, err := gridmap.New(mc.Width, mc.Height, mc.Resolution)
	if err != nil {
		return nil, err
	}
	for i, o := range mc.Obstacles {
		v := o.Value
		if v == 0 {
			v = 1
		}
		if err := m.FillRect(o.X0, o.Y0, o.X1, o.Y1, v); err != nil {
			return nil, errors.Wrapf(err, "obstacle %d", i)
		}
	}
	return m, nil
}

func (rc RobotConfig) add(pg *playground.Playground, model dynamo.KinematicModel, dt float64, logger *zap.Logger) error {
	fp, err := rc.Footprint.build()
	if err != nil {
		return errors.Wrap(err, "footprint")
	}

	var robotOpts []robot.Option
	if len(rc.Pose) > 0 || len(rc.Velocity) > 0 {
		robotOpts = append(robotOpts, robot.WithState(dynamo.StateOf(rc.Pose, rc.Velocity)))
	}
	r, err := robot.New(model, fp, robotOpts...)
	if err != nil {
		return err
	}

	pilot, err := rc.Pilot.build(dt, logger.With(zap.Int("uid", rc.UID)))
	if err != nil {
		return errors.Wrap(err, "pilot")
	}

	kind := integrators.RK4
	if rc.Integrator != "" {
		if kind, err = integrators.ParseKind(rc.Integrator); err != nil {
			return err
		}
	}
	return pg.AddRobot(r, pilot, kind, rc.UID)
}

func (fc FootprintConfig) build() (robot.Footprint, error) {
	segments := fc.Segments
	if segments == 0 {
		segments = DefaultSegments
	}
	switch fc.Shape {
	case "circle":
		return robot.Circle(fc.Radius, segments)
	case "rectangle":
		return robot.Rectangle(fc.Width, fc.Height)
	case "rounded_rectangle":
		return robot.RoundedRectangle(fc.Width, fc.Height, fc.Radius, max(segments/4, 1))
	case "triangle":
		return robot.Triangle(fc.Base, fc.Height)
	case "polygon":
		points := lo.Map(fc.Points, func(p [2]float64, _ int) r2.Point {
			return r2.Point{X: p[0], Y: p[1]}
		})
		return robot.NewFootprint(points...)
	}
	return robot.Footprint{}, errors.Wrapf(dynamo.ErrInvalidArgument, "unknown footprint shape %q", fc.Shape)
}

func (pc PilotConfig) build(dt float64, logger *zap.Logger) (playground.Pilot, error) {
	var (
		pilot playground.Pilot
		err   error
	)
	switch pc.Type {
	case "idle":
		pilot = pilots.NewIdle()
	case "constant":
		pilot = pilots.NewConstant(pc.Input...)
	case "scripted":
		pilot, err = pilots.NewScripted(pc.Script, pc.Loop)
	case "go_to_goal":
		pilot, err = pc.goToGoal(dt)
	default:
		err = errors.Wrapf(dynamo.ErrInvalidArgument, "unknown pilot type %q", pc.Type)
	}
	if err != nil {
		return nil, err
	}

	if pc.Guard == nil {
		return pilot, nil
	}
	lookahead := pc.Guard.Lookahead
	if lookahead == 0 {
		lookahead = DefaultLookahead
	}
	return pilots.NewGuarded(pilot, lookahead, logger)
}

func (pc PilotConfig) goToGoal(dt float64) (*pilots.GoToGoal, error) {
	if len(pc.Goal) != 2 {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "goal must be [x, y]")
	}
	opts := []pilots.GoalOption{pilots.WithSampleTime(dt)}
	if pc.Speed != 0 {
		opts = append(opts, pilots.WithSpeed(pc.Speed))
	}
	if pc.Tolerance != 0 {
		opts = append(opts, pilots.WithTolerance(pc.Tolerance))
	}
	if len(pc.Gains) == 3 {
		opts = append(opts, pilots.WithGains(pc.Gains[0], pc.Gains[1], pc.Gains[2]))
	}
	return pilots.NewGoToGoal(pc.Goal[0], pc.Goal[1], opts...)
}
