package playground

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/gridmap"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/robot"
)

// binding keeps everything the playground knows about one UID together.
type binding struct {
	robot      *robot.Robot
	pilot      Pilot
	integrator *integrators.Integrator
}

type Playground struct {
	id        uuid.UUID
	name      string
	dt        float64
	state     *State
	view      View
	bindings  map[int]*binding
	order     []int
	ticks     int
	logger    *zap.Logger
	observers []Observer
}

type Option func(*Playground)

func WithLogger(l *zap.Logger) Option {
	return func(p *Playground) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Playground) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// New returns an empty playground on map m advancing dt seconds per tick.
func New(name string, dt float64, m *gridmap.Map, opts ...Option) (*Playground, error) {
	if !(dt > 0) {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "dt must be positive, got %g", dt)
	}
	state, err := NewState(m)
	if err != nil {
		return nil, err
	}
	p := &Playground{
		id:       uuid.New(),
		name:     name,
		dt:       dt,
		state:    state,
		view:     readOnly{state},
		bindings: make(map[int]*binding),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("playground", name), zap.Stringer("run", p.id))
	return p, nil
}

func (p *Playground) ID() uuid.UUID { return p.id }
func (p *Playground) Name() string  { return p.name }
func (p *Playground) Dt() float64   { return p.dt }
func (p *Playground) Ticks() int    { return p.ticks }
func (p *Playground) Len() int      { return len(p.order) }
func (p *Playground) Time() float64 { return float64(p.ticks) * p.dt }

// State returns a read-only view of the world. Robots enter it only
// through AddRobot, so every robot in it has a pilot and an integrator.
func (p *Playground) State() View { return p.view }

// UIDs returns the registered UIDs in registration order.
func (p *Playground) UIDs() []int {
	return append([]int(nil), p.order...)
}

// AddObserver registers o for every subsequent step.
func (p *Playground) AddObserver(o Observer) { p.observers = append(p.observers, o) }

// AddRobot registers r under uid, driven by pilot and stepped with an
// integrator of the given kind bound to r's model.
func (p *Playground) AddRobot(r *robot.Robot, pilot Pilot, kind integrators.Kind, uid int) error {
	if uid < 0 {
		return errors.Wrapf(dynamo.ErrLogic, "negative uid %d", uid)
	}
	if _, ok := p.bindings[uid]; ok {
		return errors.Wrapf(dynamo.ErrLogic, "uid %d already registered", uid)
	}
	if r == nil {
		return errors.Wrap(dynamo.ErrInvalidArgument, "nil robot")
	}
	if pilot == nil {
		return errors.Wrap(dynamo.ErrInvalidArgument, "nil pilot")
	}
	integ, err := integrators.New(kind, r.Model())
	if err != nil {
		return err
	}
	if err := p.state.AddRobot(r, uid); err != nil {
		return err
	}
	p.bindings[uid] = &binding{robot: r, pilot: pilot, integrator: integ}
	p.order = append(p.order, uid)

	p.logger.Info("robot added",
		zap.Int("uid", uid),
		zap.Stringer("integrator", kind),
		zap.Int("input_size", r.Model().InputSize()),
	)
	return nil
}

func (p *Playground) binding(uid int) (*binding, error) {
	b, ok := p.bindings[uid]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrInvalidArgument, "no robot with uid %d", uid)
	}
	return b, nil
}

func (p *Playground) Pilot(uid int) (Pilot, error) {
	b, err := p.binding(uid)
	if err != nil {
		return nil, err
	}
	return b.pilot, nil
}

func (p *Playground) Integrator(uid int) (*integrators.Integrator, error) {
	b, err := p.binding(uid)
	if err != nil {
		return nil, err
	}
	return b.integrator, nil
}

// Execute runs one tick. On failure it returns a *TickError naming the
// robot that failed; the tick counter does not advance, and robots
// stepped before the failure keep their new state. Calling Execute again
// steps those robots a second time under the same tick number.
func (p *Playground) Execute() error {
	tick := p.ticks + 1
	t := float64(tick) * p.dt

	for _, uid := range p.order {
		if err := p.step(uid, p.bindings[uid], tick, t); err != nil {
			p.logger.Warn("tick failed", zap.Int("tick", tick), zap.Int("uid", uid), zap.Error(err))
			return &TickError{Tick: tick, Time: t, UID: uid, Err: err}
		}
	}
	p.ticks = tick
	return nil
}

func (p *Playground) step(uid int, b *binding, tick int, t float64) error {
	u, err := b.pilot.Execute(p.view, uid)
	if err != nil {
		return errors.Wrap(err, "pilot")
	}
	if want := b.robot.Model().InputSize(); u.Size() != want {
		return errors.Wrapf(dynamo.ErrLogic, "pilot returned %d inputs, model wants %d", u.Size(), want)
	}

	prev := b.robot.State()
	next, err := b.integrator.Step(prev, u, p.dt)
	if err != nil {
		return errors.Wrap(err, "integrate")
	}
	if err := p.state.SetRobotState(next, uid); err != nil {
		return err
	}

	if ce := p.logger.Check(zap.DebugLevel, "robot stepped"); ce != nil {
		ce.Write(zap.Int("tick", tick), zap.Int("uid", uid), zap.Stringer("state", next))
	}
	for _, o := range p.observers {
		o.OnStep(Step{Tick: tick, Time: t, UID: uid, Input: u.Clone(), Prev: prev, Next: next.Clone()})
	}
	return nil
}

// Run executes ticks ticks, stopping early on the first failure or when
// ctx is cancelled. Cancellation is checked between ticks.
func (p *Playground) Run(ctx context.Context, ticks int) error {
	if ticks < 0 {
		return errors.Wrapf(dynamo.ErrInvalidArgument, "negative tick count %d", ticks)
	}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := p.Execute(); err != nil {
			return err
		}
	}
	p.logger.Debug("run finished", zap.Int("ticks", p.ticks), zap.Float64("time", p.Time()))
	return nil
}
