// Package dynamo provides the shared primitives of the chain simulator.
//
//   - [Vec]: 2D value vector with pure and explicitly named in-place operations
//   - [State]: flat per-frame snapshot of node positions and velocities
//   - [Configurable]: named scalar parameters that outer controls can tune
//   - sentinel errors and [SimulationError]
//
// Vec is a value type. Two nodes never share a Vec because assignment copies;
// only the InPlace methods modify their receiver.
package dynamo
