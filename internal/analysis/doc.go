// Package analysis inspects recorded chain runs.
//
//   - [Spectrum]: one-sided amplitude spectrum of a sampled series
//   - [DominantFrequency]: the strongest oscillation in a series
//   - [NewPhasePortrait]: position against velocity for one node
//
// A hanging chain that was plucked rings at a few normal-mode
// frequencies; the spectrum of a node's height shows them directly:
//
//	ys := analysis.Heights(states, node)
//	peak, err := analysis.DominantFrequency(ys, sampleMs)
package analysis
