package buffer

import "sync"

// MaxPooledCapacity is the largest buffer the default pool keeps.
const MaxPooledCapacity = 64 * 1024

// Pool recycles buffers between calls.
type Pool struct {
	pool    sync.Pool
	initCap int
	maxCap  int
}

// NewPool creates a pool of buffers starting at initCap bytes. Buffers that
// grew beyond maxCap are dropped on Put.
func NewPool(initCap, maxCap int) *Pool {
	if initCap <= 0 {
		initCap = InitialCapacity
	}
	if maxCap < initCap {
		maxCap = initCap
	}
	p := &Pool{initCap: initCap, maxCap: maxCap}
	p.pool.New = func() any {
		return NewWithCapacity(p.initCap)
	}
	return p
}

// Get returns an empty buffer.
func (p *Pool) Get() *Buffer {
	return p.pool.Get().(*Buffer)
}

// Put resets b and returns it to the pool. Disposed and oversized buffers
// are rejected.
func (p *Pool) Put(b *Buffer) {
	if b == nil || b.disposed || b.Cap() > p.maxCap {
		return
	}
	b.Reset()
	b.grow = nil
	p.pool.Put(b)
}

var defaultPool = NewPool(InitialCapacity, MaxPooledCapacity)

// Get returns an empty buffer from the default pool.
func Get() *Buffer {
	return defaultPool.Get()
}

// Put returns b to the default pool.
func Put(b *Buffer) {
	defaultPool.Put(b)
}
