package integrators

import (
	"testing"

	"github.com/san-kum/navcom/internal/sim"
)

func benchmarkStep(b *testing.B, integ sim.Integrator) {
	dyn := &simpleDynamics{}
	x := sim.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B) { benchmarkStep(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)   { benchmarkStep(b, NewRK4()) }
