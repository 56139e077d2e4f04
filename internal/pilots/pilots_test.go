package pilots

import (
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/gridmap"
	"github.com/san-kum/robosim/internal/integrators"
	"github.com/san-kum/robosim/internal/models"
	"github.com/san-kum/robosim/internal/playground"
	"github.com/san-kum/robosim/internal/robot"
)

// world returns a 10x10 m state holding one robot under uid 0.
func world(t *testing.T, model dynamo.KinematicModel, pose ...float64) (*playground.State, *robot.Robot) {
	t.Helper()
	m, err := gridmap.New(10, 10, 1)
	if err != nil {
		t.Fatal(err)
	}
	s, err := playground.NewState(m)
	if err != nil {
		t.Fatal(err)
	}
	fp, err := robot.Circle(0.2, 12)
	if err != nil {
		t.Fatal(err)
	}
	r, err := robot.New(model, fp, robot.WithState(dynamo.StateOf(dynamo.PoseOf(pose...), nil)))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddRobot(r, 0); err != nil {
		t.Fatal(err)
	}
	return s, r
}

func diffDrive(t *testing.T) *models.DiffDrive {
	t.Helper()
	m, err := models.NewDiffDrive(0.1, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestIdle(t *testing.T) {
	g := NewWithT(t)
	tri, err := models.NewTricycle(0.15, 0.8, math.Pi/3)
	g.Expect(err).NotTo(HaveOccurred())
	s, _ := world(t, tri, 1, 1, 0, 0)

	u, err := NewIdle().Execute(s, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(u).To(Equal(dynamo.ControlInputOf(0, 0)))

	_, err = NewIdle().Execute(s, 5)
	g.Expect(errors.Is(err, dynamo.ErrInvalidArgument)).To(BeTrue())
}

func TestConstant(t *testing.T) {
	g := NewWithT(t)
	s, _ := world(t, diffDrive(t), 0, 0, 0)

	c := NewConstant(1, 2)
	u, err := c.Execute(s, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(u).To(Equal(dynamo.ControlInputOf(1, 2)))

	u[0] = 9
	again, _ := c.Execute(s, 0)
	g.Expect(again).To(Equal(dynamo.ControlInputOf(1, 2)), "caller must not alias pilot state")

	c.Set(3, 4)
	u, _ = c.Execute(s, 0)
	g.Expect(u).To(Equal(dynamo.ControlInputOf(3, 4)))
}

func TestScripted(t *testing.T) {
	s, _ := world(t, diffDrive(t), 0, 0, 0)
	segments := []Segment{
		{Ticks: 2, Input: []float64{1, 1}},
		{Ticks: 1, Input: []float64{0, 1}},
	}

	tests := []struct {
		name string
		loop bool
		want [][]float64
	}{
		{"once", false, [][]float64{{1, 1}, {1, 1}, {0, 1}, {0, 0}, {0, 0}}},
		{"looping", true, [][]float64{{1, 1}, {1, 1}, {0, 1}, {1, 1}, {1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewScripted(segments, tt.loop)
			if err != nil {
				t.Fatalf("NewScripted: %v", err)
			}
			for i, want := range tt.want {
				u, err := p.Execute(s, 0)
				if err != nil {
					t.Fatalf("call %d: %v", i, err)
				}
				if !u.Equal(dynamo.ControlInputOf(want...)) {
					t.Errorf("call %d = %v, want %v", i, u, want)
				}
			}
			if p.Done() == tt.loop {
				t.Errorf("Done() = %v with loop %v", p.Done(), tt.loop)
			}
		})
	}
}

func TestScriptedRejectsBadSegments(t *testing.T) {
	bad := [][]Segment{
		nil,
		{{Ticks: 0, Input: []float64{1}}},
		{{Ticks: 1}},
	}
	for i, segs := range bad {
		if _, err := NewScripted(segs, false); !errors.Is(err, dynamo.ErrInvalidArgument) {
			t.Errorf("case %d err = %v, want ErrInvalidArgument", i, err)
		}
	}
}

func TestGoToGoalReachesGoal(t *testing.T) {
	g := NewWithT(t)

	m, _ := gridmap.New(10, 10, 1)
	pg, err := playground.New("goal", 0.1, m)
	g.Expect(err).NotTo(HaveOccurred())

	fp, _ := robot.Circle(0.2, 12)
	r, _ := robot.New(diffDrive(t), fp, robot.WithState(dynamo.StateOf(dynamo.PoseOf(1, 1, 0), nil)))

	pilot, err := NewGoToGoal(3, 2, WithSpeed(0.5), WithTolerance(0.15), WithSampleTime(pg.Dt()))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(pg.AddRobot(r, pilot, integrators.RK4, 0)).To(Succeed())

	for i := 0; i < 500 && !pilot.Arrived(); i++ {
		g.Expect(pg.Execute()).To(Succeed())
	}
	g.Expect(pilot.Arrived()).To(BeTrue())

	pose, _ := r.State().Pose()
	g.Expect(math.Hypot(pose[0]-3, pose[1]-2)).To(BeNumerically("<=", 0.15))

	// Once there, the pilot holds the robot still.
	before := r.State()
	g.Expect(pg.Execute()).To(Succeed())
	g.Expect(r.State().Equal(before)).To(BeTrue())
}

func TestGoToGoalHeadsTowardGoal(t *testing.T) {
	g := NewWithT(t)
	s, _ := world(t, diffDrive(t), 0, 0, 0)

	pilot, err := NewGoToGoal(0, 5)
	g.Expect(err).NotTo(HaveOccurred())
	u, err := pilot.Execute(s, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(u[1]).To(BeNumerically(">", u[0]), "goal to the left turns left")

	pilot.SetGoal(0, -5)
	u, _ = pilot.Execute(s, 0)
	g.Expect(u[0]).To(BeNumerically(">", u[1]), "goal to the right turns right")
	x, y := pilot.Goal()
	g.Expect([]float64{x, y}).To(Equal([]float64{0, -5}))
}

type bareModel struct {
	models.Base
}

func (bareModel) ComputeStateDerivative(s dynamo.State, u dynamo.ControlInput) (dynamo.State, error) {
	return s.Like(), nil
}

func TestGoToGoalNeedsCommander(t *testing.T) {
	base, err := models.NewBase(3, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := world(t, bareModel{Base: base}, 0, 0, 0)

	pilot, _ := NewGoToGoal(1, 1)
	if _, err := pilot.Execute(s, 0); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestNewGoToGoalValidation(t *testing.T) {
	opts := [][]GoalOption{
		{WithSpeed(0)},
		{WithTolerance(-1)},
		{WithSampleTime(0)},
	}
	for i, o := range opts {
		if _, err := NewGoToGoal(1, 1, o...); !errors.Is(err, dynamo.ErrInvalidArgument) {
			t.Errorf("case %d err = %v, want ErrInvalidArgument", i, err)
		}
	}
}

func TestGuarded(t *testing.T) {
	tests := []struct {
		name    string
		pose    []float64
		blocked bool
	}{
		{"clear ahead", []float64{3, 5, 0}, false},
		{"wall ahead", []float64{4.5, 5, 0}, true},
		{"wall behind", []float64{4.5, 5, math.Pi}, false},
		{"map edge ahead", []float64{9.7, 5, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			s, _ := world(t, diffDrive(t), tt.pose...)
			g.Expect(s.Map().FillRect(5, 0, 6, 10, 1)).To(Succeed())

			core, logs := observer.New(zap.InfoLevel)
			guard, err := NewGuarded(NewConstant(4, 4), 0.5, zap.New(core))
			g.Expect(err).NotTo(HaveOccurred())

			u, err := guard.Execute(s, 0)
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(guard.Blocked()).To(Equal(tt.blocked))
			if tt.blocked {
				g.Expect(u).To(Equal(dynamo.ControlInputOf(0, 0)))
				g.Expect(logs.FilterMessage("path blocked").Len()).To(Equal(1))
			} else {
				g.Expect(u).To(Equal(dynamo.ControlInputOf(4, 4)))
			}
		})
	}
}

func TestNewGuardedValidation(t *testing.T) {
	if _, err := NewGuarded(nil, 1, nil); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("nil inner err = %v", err)
	}
	if _, err := NewGuarded(NewIdle(), -1, nil); !errors.Is(err, dynamo.ErrInvalidArgument) {
		t.Errorf("negative lookahead err = %v", err)
	}
}
