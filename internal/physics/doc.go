// Package physics holds the mass-spring chain and its integrator.
//
// A [Chain] is an ordered list of [Node] values joined by springs, with a
// set of pinned indices and at most one dragged index. The [Integrator]
// advances it by one frame with semi-implicit Euler:
//
//	F = Fbelow - Fabove + (0, m*g), divided by the force divisor
//	a = F / m / fps
//	v = (v + a*dt) * friction
//	p = p + v
//
// All forces in a frame come from the positions at the start of that frame.
// Pinned nodes and the dragged node are not integrated.
//
//	c, _ := physics.NewChain(physics.DefaultLayout())
//	in := physics.NewIntegrator()
//	err := in.Advance(c, params.Defaults(), 16)
package physics
