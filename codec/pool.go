package codec

import (
	"sync"

	"github.com/wippyai/peer-interop/buffer"
)

// SerializerPool recycles serializers sharing one configuration.
type SerializerPool struct {
	pool sync.Pool
	cfg  Config
}

// NewSerializerPool creates a pool. A nil cfg uses defaults.
func NewSerializerPool(cfg *Config) *SerializerPool {
	p := &SerializerPool{cfg: cfg.withDefaults()}
	p.pool.New = func() any {
		s := NewSerializerWithConfig(&p.cfg)
		s.pool = p
		return s
	}
	return p
}

// Get returns an empty serializer. Close returns it to the pool.
func (p *SerializerPool) Get() *Serializer {
	s := p.pool.Get().(*Serializer)
	s.closed = false
	return s
}

// Put releases s and returns it to the pool.
func (p *SerializerPool) Put(s *Serializer) error {
	if s == nil || s.closed {
		return nil
	}
	return p.put(s)
}

func (p *SerializerPool) put(s *Serializer) error {
	err := s.Release()
	s.closed = true
	if s.buf.Cap() > buffer.MaxPooledCapacity {
		return err
	}
	p.pool.Put(s)
	return err
}
