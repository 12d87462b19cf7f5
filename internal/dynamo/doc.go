// Package dynamo provides the primitives shared by the gravity kernel.
//
// The package defines the vector and state types and the contracts between
// the force evaluator and the integrators:
//
//   - [Vec]: real vector with a dimension fixed at creation
//   - [Phase]: columnar positions and velocities of N particles
//   - [Field]: computes accelerations for a set of positions
//   - [Integrator]: advances a Phase in place under a Field
//   - [ParallelFor]: chunked data-parallel loop over a particle index
//
// # Example
//
//	g := physics.NewGravity(2, masses)
//	p := dynamo.NewPhase(len(masses), 2)
//	integrators.NewRK4().Step(g, p, 0.01)
//
// # Thread Safety
//
// A Phase has a single owner. Field implementations may fan out over
// goroutines internally but return only after every worker has finished, so
// the caller never observes a Phase being read and written at once.
package dynamo
