package playground_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/gridmap"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/models"
	"github.com/san-kum/robosim/internal/playground"
	"github.com/san-kum/robosim/internal/robot"
)

func constant(values ...float64) playground.Pilot {
	return playground.PilotFunc(func(playground.View, int) (dynamo.ControlInput, error) {
		return dynamo.ControlInputOf(values...), nil
	})
}

var _ = Describe("Playground", func() {
	var (
		model *models.DiffDrive
		world *gridmap.Map
		pg    *playground.Playground
		logs  *observer.ObservedLogs
	)

	newRobot := func(pose ...float64) *robot.Robot {
		fp, err := robot.Circle(0.2, 8)
		Expect(err).NotTo(HaveOccurred())
		r, err := robot.New(model, fp, robot.WithState(dynamo.StateOf(dynamo.PoseOf(pose...), nil)))
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	BeforeEach(func() {
		var err error
		model, err = models.NewDiffDrive(1, 1)
		Expect(err).NotTo(HaveOccurred())
		world, err = gridmap.New(10, 10, 0.5)
		Expect(err).NotTo(HaveOccurred())

		var core zapcore.Core
		core, logs = observer.New(zap.DebugLevel)
		pg, err = playground.New("test", 0.1, world, playground.WithLogger(zap.New(core)))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects a non-positive dt", func() {
			_, err := playground.New("bad", 0, world)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
		})

		It("rejects a nil map", func() {
			_, err := playground.New("bad", 0.1, nil)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
		})

		It("gives every playground its own run id", func() {
			other, err := playground.New("test", 0.1, world)
			Expect(err).NotTo(HaveOccurred())
			Expect(other.ID()).NotTo(Equal(pg.ID()))
			Expect(pg.Name()).To(Equal("test"))
			Expect(pg.Dt()).To(Equal(0.1))
		})
	})

	Describe("AddRobot", func() {
		It("rejects a negative uid", func() {
			err := pg.AddRobot(newRobot(0, 0, 0), constant(0, 0), integrators.RK4, -1)
			Expect(errors.Is(err, dynamo.ErrLogic)).To(BeTrue())
			Expect(pg.Len()).To(BeZero())
		})

		It("rejects a duplicate uid", func() {
			Expect(pg.AddRobot(newRobot(0, 0, 0), constant(0, 0), integrators.RK4, 3)).To(Succeed())
			err := pg.AddRobot(newRobot(1, 1, 0), constant(0, 0), integrators.Euler, 3)
			Expect(errors.Is(err, dynamo.ErrLogic)).To(BeTrue())
			Expect(pg.Len()).To(Equal(1))
		})

		It("rejects a nil pilot or robot", func() {
			err := pg.AddRobot(newRobot(0, 0, 0), nil, integrators.RK4, 0)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
			err = pg.AddRobot(nil, constant(0, 0), integrators.RK4, 0)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
			Expect(pg.Len()).To(BeZero())
		})

		It("rejects an unknown integrator kind", func() {
			err := pg.AddRobot(newRobot(0, 0, 0), constant(0, 0), integrators.Kind(9), 0)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
			Expect(pg.State().Len()).To(BeZero())
		})

		It("keeps robot, pilot and integrator registries in lock-step", func() {
			uids := []int{5, 0, 12, 7}
			kinds := []integrators.Kind{integrators.Euler, integrators.Midpoint, integrators.RK4, integrators.RK4}
			for i, uid := range uids {
				Expect(pg.AddRobot(newRobot(float64(i), 0, 0), constant(0, 0), kinds[i], uid)).To(Succeed())
			}

			Expect(pg.Len()).To(Equal(len(uids)))
			Expect(pg.State().Len()).To(Equal(len(uids)))
			Expect(pg.UIDs()).To(Equal(uids), "registration order")
			for i, uid := range uids {
				r, err := pg.State().Robot(uid)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.UID()).To(Equal(uid))

				_, err = pg.Pilot(uid)
				Expect(err).NotTo(HaveOccurred())

				integ, err := pg.Integrator(uid)
				Expect(err).NotTo(HaveOccurred())
				Expect(integ.Kind()).To(Equal(kinds[i]))
				Expect(integ.Model()).To(BeIdenticalTo(dynamo.KinematicModel(model)))
			}

			_, err := pg.Pilot(99)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
			_, err = pg.Integrator(99)
			Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
		})

		It("logs each registration", func() {
			Expect(pg.AddRobot(newRobot(0, 0, 0), constant(0, 0), integrators.RK4, 4)).To(Succeed())
			entries := logs.FilterMessage("robot added").All()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].ContextMap()).To(HaveKeyWithValue("uid", int64(4)))
		})
	})

	Describe("Execute", func() {
		It("drives a differential-drive robot straight ahead", func() {
			r := newRobot(0, 0, 0)
			Expect(pg.AddRobot(r, constant(1, 1), integrators.RK4, 0)).To(Succeed())

			Expect(pg.Execute()).To(Succeed())

			Expect(r.State().Equal(dynamo.StateOf(dynamo.PoseOf(0.1, 0, 0), nil))).To(BeTrue(), r.State().String())
			Expect(pg.Ticks()).To(Equal(1))
			Expect(pg.Time()).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("sees state changes made between ticks", func() {
			r := newRobot(0, 0, 0)
			Expect(pg.AddRobot(r, constant(1, 1), integrators.Euler, 0)).To(Succeed())
			Expect(r.SetPose(dynamo.PoseOf(2, 2, 0))).To(Succeed())

			Expect(pg.Execute()).To(Succeed())
			s, err := pg.State().RobotState(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Equal(dynamo.StateOf(dynamo.PoseOf(2.1, 2, 0), nil))).To(BeTrue())
		})

		It("lets later pilots see robots already stepped this tick", func() {
			Expect(pg.AddRobot(newRobot(0, 0, 0), constant(1, 1), integrators.RK4, 1)).To(Succeed())

			var seen float64
			watcher := playground.PilotFunc(func(view playground.View, uid int) (dynamo.ControlInput, error) {
				s, err := view.RobotState(1)
				if err != nil {
					return nil, err
				}
				seen, _ = s.At(0)
				return dynamo.ControlInputOf(0, 0), nil
			})
			Expect(pg.AddRobot(newRobot(5, 5, 0), watcher, integrators.RK4, 2)).To(Succeed())

			Expect(pg.Execute()).To(Succeed())
			Expect(seen).To(BeNumerically("~", 0.1, 1e-9))
		})

		It("fails with a logic error on a wrongly sized input and keeps earlier updates", func() {
			first := newRobot(0, 0, 0)
			last := newRobot(1, 1, 0)
			Expect(pg.AddRobot(first, constant(1, 1), integrators.Midpoint, 1)).To(Succeed())
			Expect(pg.AddRobot(newRobot(3, 3, 0), constant(1), integrators.Midpoint, 2)).To(Succeed())
			Expect(pg.AddRobot(last, constant(1, 1), integrators.Midpoint, 3)).To(Succeed())

			err := pg.Execute()
			Expect(errors.Is(err, dynamo.ErrLogic)).To(BeTrue())

			var tickErr *playground.TickError
			Expect(errors.As(err, &tickErr)).To(BeTrue())
			Expect(tickErr.UID).To(Equal(2))
			Expect(tickErr.Tick).To(Equal(1))
			Expect(tickErr.Time).To(BeNumerically("~", 0.1, 1e-12))

			Expect(first.State().Equal(dynamo.StateOf(dynamo.PoseOf(0.1, 0, 0), nil))).To(BeTrue(), "not rolled back")
			Expect(last.State().Equal(dynamo.StateOf(dynamo.PoseOf(1, 1, 0), nil))).To(BeTrue(), "not reached")
			Expect(pg.Ticks()).To(BeZero())
			Expect(logs.FilterMessage("tick failed").Len()).To(Equal(1))
		})

		It("steps earlier robots again when a failed tick is retried", func() {
			var steps []playground.Step
			pg.AddObserver(playground.ObserverFunc(func(s playground.Step) { steps = append(steps, s) }))
			first := newRobot(0, 0, 0)
			Expect(pg.AddRobot(first, constant(1, 1), integrators.RK4, 1)).To(Succeed())
			Expect(pg.AddRobot(newRobot(3, 3, 0), constant(1), integrators.RK4, 2)).To(Succeed())

			Expect(pg.Execute()).NotTo(Succeed())
			Expect(pg.Execute()).NotTo(Succeed())

			Expect(pg.Ticks()).To(BeZero())
			Expect(first.State().Equal(dynamo.StateOf(dynamo.PoseOf(0.2, 0, 0), nil))).To(BeTrue())
			Expect(steps).To(HaveLen(2))
			Expect(steps[0].Tick).To(Equal(1))
			Expect(steps[1].Tick).To(Equal(1))
		})

		It("propagates pilot failures", func() {
			boom := errors.New("boom")
			failing := playground.PilotFunc(func(playground.View, int) (dynamo.ControlInput, error) {
				return nil, boom
			})
			Expect(pg.AddRobot(newRobot(0, 0, 0), failing, integrators.RK4, 0)).To(Succeed())

			err := pg.Execute()
			Expect(errors.Is(err, boom)).To(BeTrue())
		})

		It("keeps the world and the bindings the same size", func() {
			var seen playground.View
			spy := playground.PilotFunc(func(v playground.View, _ int) (dynamo.ControlInput, error) {
				seen = v
				return dynamo.ControlInputOf(0, 0), nil
			})
			Expect(pg.AddRobot(newRobot(0, 0, 0), spy, integrators.RK4, 0)).To(Succeed())
			Expect(pg.Execute()).To(Succeed())

			_, ok := pg.State().(*playground.State)
			Expect(ok).To(BeFalse(), "State must not expose registration")
			_, ok = seen.(*playground.State)
			Expect(ok).To(BeFalse(), "pilots must not see a mutable state")

			Expect(pg.AddRobot(newRobot(1, 1, 0), constant(1, 1), integrators.Euler, 1)).To(Succeed())
			Expect(pg.AddRobot(newRobot(2, 2, 0), constant(1, 1), integrators.RK4, 1)).NotTo(Succeed())
			Expect(pg.Len()).To(Equal(pg.State().Len()))
			Expect(pg.UIDs()).To(Equal(pg.State().UIDs()))
			Expect(pg.Execute()).To(Succeed())
			Expect(pg.Ticks()).To(Equal(2))
		})

		It("notifies observers once per robot per tick", func() {
			var steps []playground.Step
			pg.AddObserver(playground.ObserverFunc(func(s playground.Step) { steps = append(steps, s) }))
			Expect(pg.AddRobot(newRobot(0, 0, 0), constant(1, 1), integrators.RK4, 0)).To(Succeed())
			Expect(pg.AddRobot(newRobot(1, 0, 0), constant(0, 0), integrators.RK4, 1)).To(Succeed())

			Expect(pg.Run(context.Background(), 2)).To(Succeed())
			Expect(steps).To(HaveLen(4))
			Expect(steps[0].UID).To(Equal(0))
			Expect(steps[1].UID).To(Equal(1))
			Expect(steps[3].Tick).To(Equal(2))
			Expect(steps[3].Time).To(BeNumerically("~", 0.2, 1e-12))
			Expect(steps[2].Prev.Equal(steps[0].Next)).To(BeTrue())
		})
	})

	Describe("Run", func() {
		It("advances the requested number of ticks", func() {
			r := newRobot(0, 0, 0)
			Expect(pg.AddRobot(r, constant(1, 1), integrators.RK4, 0)).To(Succeed())

			Expect(pg.Run(context.Background(), 10)).To(Succeed())
			Expect(pg.Ticks()).To(Equal(10))
			x, _ := r.State().At(0)
			Expect(x).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("stops when the context is cancelled", func() {
			Expect(pg.AddRobot(newRobot(0, 0, 0), constant(1, 1), integrators.RK4, 0)).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := pg.Run(ctx, 5)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(pg.Ticks()).To(BeZero())
		})

		It("rejects a negative tick count", func() {
			Expect(errors.Is(pg.Run(context.Background(), -1), dynamo.ErrInvalidArgument)).To(BeTrue())
		})
	})
})
