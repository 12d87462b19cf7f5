// Package physics provides the Newtonian gravity kernel.
//
// [Gravity] implements [dynamo.Field] by direct summation over every pair,
// O(N²) per evaluation, fanned out across goroutines by particle index.
// Pairs closer than the threshold ([NearThreshold] by default) exert no force
// and contribute no potential energy.
//
// # Energy Conservation
//
// The same evaluator reports the diagnostics used to judge an integrator:
//
//	g := physics.NewGravity(dim, masses)
//	e0 := g.Energy(p.Pos, p.Vel)
//	integ.Step(g, p, dt)
//	drift := (e0 - g.Energy(p.Pos, p.Vel)) / e0
package physics
