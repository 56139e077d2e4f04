package pilots

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/playground"
)

// Guarded forwards another pilot's input unless the point lookahead
// metres ahead of the robot's footprint is blocked or off the map, in
// which case it commands a zero input.
type Guarded struct {
	inner     playground.Pilot
	lookahead float64
	logger    *zap.Logger
	blocked   bool
}

func NewGuarded(inner playground.Pilot, lookahead float64, logger *zap.Logger) (*Guarded, error) {
	if inner == nil {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "guarded pilot needs an inner pilot")
	}
	if lookahead < 0 || math.IsNaN(lookahead) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "lookahead must be non-negative, got %g", lookahead)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guarded{inner: inner, lookahead: lookahead, logger: logger}, nil
}

// Blocked reports whether the last call stopped the robot.
func (g *Guarded) Blocked() bool { return g.blocked }

func (g *Guarded) Execute(view playground.View, uid int) (dynamo.ControlInput, error) {
	r, err := view.Robot(uid)
	if err != nil {
		return nil, err
	}
	pose, err := r.State().Pose()
	if err != nil {
		return nil, err
	}
	if pose.Size() < 3 {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "robot %d pose has no heading", uid)
	}

	reach := r.Footprint().Radius() + g.lookahead
	sin, cos := math.Sincos(pose[2])
	x, y := pose[0]+reach*cos, pose[1]+reach*sin

	occupied, err := view.Map().Occupied(x, y)
	if err != nil || occupied {
		if !g.blocked {
			g.logger.Info("path blocked", zap.Int("uid", uid), zap.Float64("x", x), zap.Float64("y", y))
		}
		g.blocked = true
		return dynamo.ZeroInput(r.Model()), nil
	}
	g.blocked = false
	return g.inner.Execute(view, uid)
}
