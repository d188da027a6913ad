// Package physics provides the plant models driven by the simulator.
//
// [Attitude] is a rigid body steered by gyroscope rate commands and pushed
// by thrusters. It implements [sim.Plant] and [sim.Normalizer]; its
// quaternion state is kept unit length after every integration step.
//
//	plant := physics.NewAttitude()
//	x0 := plant.InitialState(geom.Identity())
//	ship, _ := sim.NewShip(plant, x0)
package physics
