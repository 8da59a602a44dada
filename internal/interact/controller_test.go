package interact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
)

var _ = Describe("Controller", func() {
	var (
		chain  *physics.Chain
		ctrl   *interact.Controller
		origin dynamo.Vec
	)

	nodeAt := func(i int) dynamo.Vec {
		return origin.Add(dynamo.V(0, float64(i)*physics.DefaultGap))
	}

	BeforeEach(func() {
		l := physics.DefaultLayout()
		l.Count = 5
		var err error
		chain, err = physics.NewChain(l)
		Expect(err).NotTo(HaveOccurred())
		origin = l.Origin
		ctrl = interact.New(chain, interact.DefaultOptions())
	})

	It("starts idle", func() {
		Expect(ctrl.Mode()).To(Equal(interact.Idle))
	})

	Describe("pointer down", func() {
		It("grabs the nearest node and zeroes its velocity", func() {
			Expect(chain.SetVelocity(3, dynamo.V(4, 4))).To(Succeed())

			action, i := ctrl.PointerDown(nodeAt(3).Add(dynamo.V(7, -9)), false)

			Expect(action).To(Equal(interact.Grabbed))
			Expect(i).To(Equal(3))
			Expect(ctrl.Mode()).To(Equal(interact.Dragging))
			Expect(chain.Node(3).Vel.IsZero()).To(BeTrue())
			d, ok := chain.Dragged()
			Expect(ok).To(BeTrue())
			Expect(d).To(Equal(3))
		})

		It("toggles the pin with the modifier and does not drag", func() {
			Expect(chain.SetVelocity(2, dynamo.V(1, 1))).To(Succeed())

			action, i := ctrl.PointerDown(nodeAt(2), true)
			Expect(action).To(Equal(interact.Pinned))
			Expect(i).To(Equal(2))
			Expect(chain.IsPinned(2)).To(BeTrue())
			Expect(chain.Node(2).Vel.IsZero()).To(BeTrue())
			Expect(ctrl.Mode()).To(Equal(interact.Idle))

			action, _ = ctrl.PointerDown(nodeAt(2), true)
			Expect(action).To(Equal(interact.Unpinned))
			Expect(chain.IsPinned(2)).To(BeFalse())
		})

		Context("with an immutable anchor", func() {
			It("ignores grabs and pin toggles on the anchor", func() {
				action, i := ctrl.PointerDown(origin, false)
				Expect(action).To(Equal(interact.None))
				Expect(i).To(Equal(physics.AnchorIndex))
				Expect(ctrl.Mode()).To(Equal(interact.Idle))

				action, _ = ctrl.PointerDown(origin, true)
				Expect(action).To(Equal(interact.None))
				Expect(chain.IsPinned(physics.AnchorIndex)).To(BeTrue())
			})

			It("does not grab a pinned node", func() {
				action, _ := ctrl.PointerDown(nodeAt(2), true)
				Expect(action).To(Equal(interact.Pinned))

				action, i := ctrl.PointerDown(nodeAt(2), false)
				Expect(action).To(Equal(interact.None))
				Expect(i).To(Equal(2))
				Expect(ctrl.Mode()).To(Equal(interact.Idle))
				_, ok := chain.Dragged()
				Expect(ok).To(BeFalse())
			})

			It("keeps a pinned node in place through pointer events and frames", func() {
				ctrl.PointerDown(nodeAt(2), true)
				before := chain.Node(2).Pos

				ctrl.PointerDown(nodeAt(2), false)
				ctrl.PointerMove(nodeAt(2).Add(dynamo.V(50, 30)))
				ctrl.PointerUp(nodeAt(2).Add(dynamo.V(60, 30)))
				Expect(physics.NewIntegrator().Advance(chain, params.Defaults(), 16)).To(Succeed())

				Expect(chain.IsPinned(2)).To(BeTrue())
				Expect(chain.Node(2).Pos).To(Equal(before))
				Expect(chain.Node(2).Vel.IsZero()).To(BeTrue())
			})
		})

		Context("with a mutable anchor", func() {
			BeforeEach(func() {
				ctrl = interact.New(chain, interact.Options{FlickGain: interact.DefaultFlickGain})
			})

			It("lets the anchor be unpinned", func() {
				action, _ := ctrl.PointerDown(origin, true)
				Expect(action).To(Equal(interact.Unpinned))
				Expect(chain.Pinned()).To(BeEmpty())
			})

			It("repositions a pinned anchor without flicking it", func() {
				ctrl.PointerDown(origin, false)
				ctrl.PointerMove(origin.Add(dynamo.V(30, 0)))
				action, _ := ctrl.PointerUp(origin.Add(dynamo.V(50, 0)))

				Expect(action).To(Equal(interact.Released))
				Expect(chain.Node(0).Pos).To(Equal(origin.Add(dynamo.V(50, 0))))
				Expect(chain.Node(0).Vel.IsZero()).To(BeTrue())
				Expect(chain.IsPinned(0)).To(BeTrue())
			})
		})
	})

	Describe("dragging", func() {
		It("moves the node by the sum of pointer deltas", func() {
			start := nodeAt(4).Add(dynamo.V(3, 3))
			ctrl.PointerDown(start, false)
			before := chain.Node(4).Pos

			path := []dynamo.Vec{
				start.Add(dynamo.V(10, 0)),
				start.Add(dynamo.V(10, -25)),
				start.Add(dynamo.V(-4, 12.5)),
			}
			for _, p := range path {
				action, i := ctrl.PointerMove(p)
				Expect(action).To(Equal(interact.Moved))
				Expect(i).To(Equal(4))
			}

			net := path[len(path)-1].Sub(start)
			Expect(chain.Node(4).Pos).To(Equal(before.Add(net)))
		})

		It("keeps the integrator away from the dragged node", func() {
			ctrl.PointerDown(nodeAt(2), false)
			ctrl.PointerMove(nodeAt(2).Add(dynamo.V(40, 0)))
			held := chain.Node(2)

			in := physics.NewIntegrator()
			for i := 0; i < 20; i++ {
				Expect(in.Advance(chain, params.Defaults(), 16)).To(Succeed())
			}
			Expect(chain.Node(2)).To(Equal(held))
		})

		It("ends when a resize drops the dragged node", func() {
			ctrl.PointerDown(nodeAt(4), false)
			Expect(chain.Resize(3)).To(Succeed())
			Expect(ctrl.Mode()).To(Equal(interact.Idle))

			action, _ := ctrl.PointerMove(nodeAt(1))
			Expect(action).To(Equal(interact.None))
		})
	})

	Describe("pointer up", func() {
		It("flicks the node with twice the last displacement", func() {
			ctrl.PointerDown(nodeAt(3), false)
			ctrl.PointerMove(nodeAt(3).Add(dynamo.V(5, 5)))

			action, i := ctrl.PointerUp(nodeAt(3).Add(dynamo.V(11, 2)))

			Expect(action).To(Equal(interact.Released))
			Expect(i).To(Equal(3))
			Expect(chain.Node(3).Vel).To(Equal(dynamo.V(12, -6)))
			Expect(ctrl.Mode()).To(Equal(interact.Idle))
			_, ok := chain.Dragged()
			Expect(ok).To(BeFalse())
		})

		It("releases at rest when the pointer did not move", func() {
			ctrl.PointerDown(nodeAt(1), false)
			ctrl.PointerMove(nodeAt(1).Add(dynamo.V(8, 0)))
			ctrl.PointerUp(nodeAt(1).Add(dynamo.V(8, 0)))
			Expect(chain.Node(1).Vel.IsZero()).To(BeTrue())
		})

		It("is ignored while idle", func() {
			before := chain.State()
			action, i := ctrl.PointerUp(nodeAt(2))
			Expect(action).To(Equal(interact.None))
			Expect(i).To(Equal(-1))
			Expect(chain.State()).To(Equal(before))
		})
	})

	It("cancels a drag without velocity", func() {
		ctrl.PointerDown(nodeAt(2), false)
		ctrl.Cancel()
		Expect(ctrl.Mode()).To(Equal(interact.Idle))
		Expect(chain.Node(2).Vel.IsZero()).To(BeTrue())
	})
})
