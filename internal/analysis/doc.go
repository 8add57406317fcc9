// Package analysis characterizes how an arena evolves.
//
//   - [LyapunovExponent]: divergence rate of two nearly identical layouts
//   - [PowerSpectrum]: spectrum of a per-tick series such as kinetic energy
//   - [DominantPeriod]: the strongest period in such a series, in ticks
//
// # Chaos Detection
//
// Collisions between bodies make the arena sensitive to its initial layout:
//
//	lambda := analysis.LyapunovExponent(w, 600, 1e-6)
//	if lambda > 0 {
//	    // nearby layouts diverge
//	}
package analysis
