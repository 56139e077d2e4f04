package integrators

import (
	"testing"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/models"
)

func benchmarkStep(b *testing.B, kind Kind, m dynamo.KinematicModel, x dynamo.State, u dynamo.ControlInput) {
	in, err := New(kind, m)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, err = in.Step(x, u, 0.01)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkStep(b, Euler, unitDiffDrive(b), origin(), dynamo.ControlInputOf(0.5, 1.5))
}

func BenchmarkMidpoint(b *testing.B) {
	benchmarkStep(b, Midpoint, unitDiffDrive(b), origin(), dynamo.ControlInputOf(0.5, 1.5))
}

func BenchmarkRK4(b *testing.B) {
	benchmarkStep(b, RK4, unitDiffDrive(b), origin(), dynamo.ControlInputOf(0.5, 1.5))
}

func BenchmarkRK4_Ackermann(b *testing.B) {
	m, err := models.NewAckermann(0.3, 2.5, 0.6)
	if err != nil {
		b.Fatal(err)
	}
	x := dynamo.StateOf(dynamo.PoseOf(0, 0, 0, 0.1), nil)
	benchmarkStep(b, RK4, m, x, dynamo.ControlInputOf(3, 0.05))
}
