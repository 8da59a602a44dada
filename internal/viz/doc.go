// Package viz is the terminal render adapter for the chain.
//
// Drawing goes through the [Surface] interface (clear, circle, line in
// model coordinates). [Canvas] implements it with braille sub-pixels, and
// [DrawChain] renders one [sim.Frame] onto any surface.
//
// [Model] is a Bubble Tea program that owns the frame loop: a 60 Hz tick
// advances the simulator by the measured wall-clock interval and mouse
// events become pointer down, move and up.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset chain
//	Tab   - Select parameter
//	Up/Dn - Scale selected parameter
//	+/-   - Add or drop a node
//	P     - Toggle pin nearest the pointer
//	T     - Cycle color themes
//	?     - Full help
//
// Holding Ctrl or Alt while pressing the mouse button toggles a pin
// instead of grabbing the node.
package viz
