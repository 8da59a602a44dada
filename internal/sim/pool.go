package sim

import (
	"sync"

	"github.com/san-kum/springchain/internal/dynamo"
)

// StatePool recycles observer snapshot buffers.
type StatePool struct {
	pool sync.Pool
}

func NewStatePool() *StatePool {
	return &StatePool{
		pool: sync.Pool{
			New: func() interface{} {
				s := make(dynamo.State, 0, 64)
				return &s
			},
		},
	}
}

// Get returns an empty buffer.
func (p *StatePool) Get() *dynamo.State {
	s := p.pool.Get().(*dynamo.State)
	*s = (*s)[:0]
	return s
}

func (p *StatePool) Put(s *dynamo.State) {
	for i := range *s {
		(*s)[i] = 0
	}
	p.pool.Put(s)
}
