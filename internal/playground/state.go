package playground

import (
	"github.com/pkg/errors"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/gridmap"
	"github.com/san-kum/robosim/internal/robot"
)

// View is the read side of a State, handed to pilots. Pilots must not
// mutate the robots they look up.
type View interface {
	Map() *gridmap.Map
	Robot(uid int) (*robot.Robot, error)
	RobotState(uid int) (dynamo.State, error)
	UIDs() []int
	Len() int
}

var (
	_ View = (*State)(nil)
	_ View = readOnly{}
)

// readOnly narrows a State to its View so callers cannot register robots
// behind the playground's back.
type readOnly struct {
	s *State
}

func (v readOnly) Map() *gridmap.Map                        { return v.s.Map() }
func (v readOnly) Robot(uid int) (*robot.Robot, error)      { return v.s.Robot(uid) }
func (v readOnly) RobotState(uid int) (dynamo.State, error) { return v.s.RobotState(uid) }
func (v readOnly) UIDs() []int                              { return v.s.UIDs() }
func (v readOnly) Len() int                                 { return v.s.Len() }

// State is the world: a map and the robots registered on it. Robots are
// held by pointer, so changes made to a robot outside a tick are seen by
// the next one.
type State struct {
	m      *gridmap.Map
	robots map[int]*robot.Robot
	order  []int
}

func NewState(m *gridmap.Map) (*State, error) {
	if m == nil {
		return nil, errors.Wrap(dynamo.ErrInvalidArgument, "playground state needs a map")
	}
	return &State{m: m, robots: make(map[int]*robot.Robot)}, nil
}

// AddRobot files r under uid. There is no removal.
func (s *State) AddRobot(r *robot.Robot, uid int) error {
	if r == nil {
		return errors.Wrap(dynamo.ErrInvalidArgument, "nil robot")
	}
	if uid < 0 {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "negative uid %d", uid)
	}
	if _, ok := s.robots[uid]; ok {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "uid %d already registered", uid)
	}
	if err := r.AssignUID(uid); err != nil {
		return err
	}
	s.robots[uid] = r
	s.order = append(s.order, uid)
	return nil
}

func (s *State) Map() *gridmap.Map { return s.m }
func (s *State) Len() int          { return len(s.order) }

// UIDs returns the registered UIDs in registration order.
func (s *State) UIDs() []int {
	return append([]int(nil), s.order...)
}

func (s *State) Robot(uid int) (*robot.Robot, error) {
	r, ok := s.robots[uid]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "no robot with uid %d", uid)
	}
	return r, nil
}

// RobotState returns a copy of the state of robot uid.
func (s *State) RobotState(uid int) (dynamo.State, error) {
	r, err := s.Robot(uid)
	if err != nil {
		return dynamo.State{}, err
	}
	return r.State(), nil
}

// SetRobotState writes through the robot's own setter, so its size checks
// apply.
func (s *State) SetRobotState(st dynamo.State, uid int) error {
	r, err := s.Robot(uid)
	if err != nil {
		return err
	}
	return errors.Wrapf(r.SetState(st), "robot %d", uid)
}
