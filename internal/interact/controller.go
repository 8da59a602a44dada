// Package interact turns pointer events into pin, drag and release
// operations on a chain.
package interact

import (
	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/physics"
)

// DefaultFlickGain scales the last pointer displacement into the release
// velocity.
const DefaultFlickGain = 2.0

type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	if m == Dragging {
		return "dragging"
	}
	return "idle"
}

// Action reports what a pointer event did.
type Action int

const (
	None Action = iota
	Pinned
	Unpinned
	Grabbed
	Moved
	Released
)

func (a Action) String() string {
	switch a {
	case Pinned:
		return "pinned"
	case Unpinned:
		return "unpinned"
	case Grabbed:
		return "grabbed"
	case Moved:
		return "moved"
	case Released:
		return "released"
	}
	return "none"
}

type Options struct {
	// AnchorImmutable forbids grabbing or unpinning the anchor node.
	AnchorImmutable bool
	FlickGain       float64
}

func DefaultOptions() Options {
	return Options{AnchorImmutable: true, FlickGain: DefaultFlickGain}
}

// Controller is the pointer state machine. The drag itself lives on the
// chain, so a resize that drops the dragged node also ends the drag here.
type Controller struct {
	chain *physics.Chain
	opts  Options
	last  dynamo.Vec
}

func New(chain *physics.Chain, opts Options) *Controller {
	return &Controller{chain: chain, opts: opts}
}

func (c *Controller) Options() Options { return c.opts }

func (c *Controller) Mode() Mode {
	if _, ok := c.chain.Dragged(); ok {
		return Dragging
	}
	return Idle
}

// LastPointer is the most recent pointer position seen by the controller.
func (c *Controller) LastPointer() dynamo.Vec { return c.last }

func (c *Controller) locked(i int) bool {
	return c.opts.AnchorImmutable && i == physics.AnchorIndex
}

// PointerDown picks the node nearest p. With pin held it toggles that
// node's pin; otherwise it starts dragging it. Pinned nodes cannot be
// dragged while the anchor is immutable.
func (c *Controller) PointerDown(p dynamo.Vec, pin bool) (Action, int) {
	if c.Mode() == Dragging {
		// a press without a release: drop the node where it is
		c.PointerUp(c.last)
	}
	c.last = p

	i := c.chain.Nearest(p)
	if c.locked(i) {
		return None, i
	}

	if pin {
		pinned, err := c.chain.TogglePin(i)
		if err != nil {
			return None, i
		}
		if pinned {
			return Pinned, i
		}
		return Unpinned, i
	}

	// with an immutable anchor every pinned node stays put
	if c.opts.AnchorImmutable && c.chain.IsPinned(i) {
		return None, i
	}
	if err := c.chain.SetDragged(i); err != nil {
		return None, i
	}
	_ = c.chain.SetVelocity(i, dynamo.Vec{})
	return Grabbed, i
}

// PointerMove drags the grabbed node by the pointer movement since the
// previous event.
func (c *Controller) PointerMove(p dynamo.Vec) (Action, int) {
	i, ok := c.chain.Dragged()
	if !ok {
		c.last = p
		return None, -1
	}
	d := p.Sub(c.last)
	c.last = p
	_ = c.chain.Translate(i, d)
	return Moved, i
}

// PointerUp releases the grabbed node with a velocity proportional to the
// pointer displacement since the previous event.
func (c *Controller) PointerUp(p dynamo.Vec) (Action, int) {
	i, ok := c.chain.Dragged()
	if !ok {
		c.last = p
		return None, -1
	}
	d := p.Sub(c.last)
	c.last = p
	_ = c.chain.Translate(i, d)
	_ = c.chain.SetVelocity(i, d.Scale(c.opts.FlickGain))
	c.chain.ClearDragged()
	return Released, i
}

// Cancel ends any drag without imparting velocity.
func (c *Controller) Cancel() {
	c.chain.ClearDragged()
}
