package integrators

import "github.com/san-kum/navcom/internal/sim"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys sim.System, x sim.State, u sim.Control, t float64, dt float64) sim.State {
	dx := sys.Derive(x, u, t)
	result := make(sim.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
