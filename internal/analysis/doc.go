// Package analysis post-processes simulations.
//
//   - [PowerSpectrum] and [DominantPeriod]: orbital periods from a recorded
//     coordinate series
//   - [Series] and [Trajectory]: columns and 2-D paths out of frames
//   - [Divergence]: separation growth of two nearby configurations
//   - [Convergence]: energy drift against step size, levels run concurrently
//
// # Observed order
//
// Halving dt should divide the drift by 2^p for an integrator of order p:
//
//	pts, _ := analysis.Convergence(ctx, cfg)
//	fmt.Println(pts[len(pts)-1].Order) // about 4 for rk4
package analysis
