package metrics

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

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

// fleet runs two unit diff-drive robots for ticks ticks of 0.1 s: uid 0
// drives straight at 1 m/s from (1.05, 1), uid 1 sits still at (5, 5).
func fleet(t *testing.T, ticks int, observers ...playground.Observer) *gridmap.Map {
	t.Helper()
	m, err := gridmap.New(10, 10, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	opts := make([]playground.Option, 0, len(observers))
	for _, o := range observers {
		opts = append(opts, playground.WithObserver(o))
	}
	pg, err := playground.New("metrics", 0.1, m, opts...)
	if err != nil {
		t.Fatal(err)
	}
	model, _ := models.NewDiffDrive(1, 1)
	fp, _ := robot.Rectangle(0.3, 0.2)
	for uid, pose := range [][]float64{{1.05, 1, 0}, {5, 5, 0}} {
		r, err := robot.New(model, fp, robot.WithState(dynamo.StateOf(dynamo.PoseOf(pose...), nil)))
		if err != nil {
			t.Fatal(err)
		}
		pilot := constant(1, 1)
		if uid == 1 {
			pilot = constant(0, 0)
		}
		if err := pg.AddRobot(r, pilot, integrators.RK4, uid); err != nil {
			t.Fatal(err)
		}
	}
	if err := pg.Run(context.Background(), ticks); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestPathLength(t *testing.T) {
	g := NewWithT(t)
	p := NewPathLength()
	fleet(t, 20, p)

	g.Expect(p.Value(0)).To(BeNumerically("~", 2.0, 1e-9))
	g.Expect(p.Value(1)).To(BeZero())
	g.Expect(p.Value(7)).To(BeZero(), "unknown robot")

	p.Reset()
	g.Expect(p.Value(0)).To(BeZero())
}

func TestControlEffort(t *testing.T) {
	g := NewWithT(t)
	c := NewControlEffort()
	fleet(t, 5, c)

	g.Expect(c.Name()).To(Equal("control_effort"))
	g.Expect(c.Value(0)).To(BeNumerically("~", 2.0, 1e-12))
	g.Expect(c.Value(1)).To(BeZero())
}

func TestInBounds(t *testing.T) {
	g := NewWithT(t)
	m, _ := gridmap.New(10, 10, 0.5)
	g.Expect(m.FillRect(2, 0, 3, 10, 1)).To(Succeed())

	b := NewInBounds(m)
	fleet(t, 20, b)

	// The blocked columns span x in [2, 3); uid 0 is there after ticks
	// 10 through 19.
	g.Expect(b.Value(0)).To(BeNumerically("~", 0.5, 1e-9))
	g.Expect(b.Value(1)).To(Equal(1.0))
	g.Expect(b.Value(3)).To(Equal(1.0), "never stepped")
}

func TestTrace(t *testing.T) {
	g := NewWithT(t)
	tr := NewTrace()
	fleet(t, 10, tr)

	g.Expect(tr.UIDs()).To(Equal([]int{0, 1}))
	g.Expect(tr.Value(0)).To(Equal(11.0), "initial state plus one per tick")

	samples := tr.Samples(0)
	g.Expect(samples[0].Tick).To(BeZero())
	g.Expect(samples[0].Time).To(BeNumerically("~", 0, 1e-12))
	g.Expect(samples[0].Input).To(BeNil())
	g.Expect(samples[10].Time).To(BeNumerically("~", 1.0, 1e-12))

	xs := tr.Series(0, 0)
	g.Expect(xs).To(HaveLen(11))
	for i, x := range xs {
		g.Expect(x).To(BeNumerically("~", 1.05+0.1*float64(i), 1e-9))
	}
	g.Expect(tr.Series(0, 9)).To(BeEmpty())

	sum, err := tr.Describe(0, 0)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sum.Count).To(Equal(11))
	g.Expect(sum.Min).To(BeNumerically("~", 1.05, 1e-9))
	g.Expect(sum.Max).To(BeNumerically("~", 2.05, 1e-9))
	g.Expect(sum.Mean).To(BeNumerically("~", 1.55, 1e-9))

	_, err = tr.Describe(4, 0)
	g.Expect(err).To(HaveOccurred())
}

func TestSummarize(t *testing.T) {
	g := NewWithT(t)
	p := NewPathLength()
	fleet(t, 10, p)

	sum, err := Summarize(p, []int{0, 1})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(sum.Name).To(Equal("path_length"))
	g.Expect(sum.Count).To(Equal(2))
	g.Expect(sum.Mean).To(BeNumerically("~", 0.5, 1e-9))
	g.Expect(sum.Max).To(BeNumerically("~", 1.0, 1e-9))
	g.Expect(sum.Min).To(BeZero())
	g.Expect(sum.StdDev).To(BeNumerically("~", 0.5, 1e-9))

	_, err = Summarize(p, nil)
	g.Expect(err).To(HaveOccurred())
}
