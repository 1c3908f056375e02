package buffer

import (
	"sync"

	interop "github.com/wippyai/peer-interop"
	"github.com/wippyai/peer-interop/errors"
)

// Region is a span of native memory.
type Region struct {
	Ptr uint32
	Len uint32
}

// Allocation is one native allocation made on behalf of a call.
type Allocation struct {
	Ptr  uint32
	Size uint32
}

// AllocationList tracks native allocations so they can be freed together.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

// NewAllocationList returns an empty list from the pool.
func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns the list to the pool. Call after Free; the list is
// invalid afterward.
func (al *AllocationList) Release() {
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

// FreeAndRelease frees every allocation and releases the list.
func (al *AllocationList) FreeAndRelease(alloc interop.Allocator) {
	al.Free(alloc)
	al.Release()
}

// Add records an allocation.
func (al *AllocationList) Add(ptr, size uint32) {
	al.allocations = append(al.allocations, Allocation{Ptr: ptr, Size: size})
}

// Free frees every recorded non-null allocation.
func (al *AllocationList) Free(alloc interop.Allocator) {
	if alloc == nil {
		return
	}
	for _, a := range al.allocations {
		if a.Ptr != 0 {
			alloc.Free(a.Ptr)
		}
	}
	al.Reset()
}

// Reset forgets all allocations without freeing them.
func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

// Count returns the number of recorded allocations.
func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// Export copies the written bytes into freshly allocated native memory.
// The allocation is recorded in al when al is non-nil. An empty buffer
// exports as the zero Region without allocating.
func (b *Buffer) Export(mem interop.Memory, alloc interop.Allocator, al *AllocationList) (Region, error) {
	if b.disposed {
		return Region{}, errors.Closed(errors.PhaseBuffer, "buffer")
	}
	return Export(mem, alloc, al, b.Bytes())
}

// Export copies data into freshly allocated native memory.
func Export(mem interop.Memory, alloc interop.Allocator, al *AllocationList, data []byte) (Region, error) {
	if len(data) == 0 {
		return Region{}, nil
	}
	size := uint32(len(data))
	ptr, err := alloc.Malloc(size)
	if err != nil {
		return Region{}, errors.AllocationFailed(errors.PhaseBuffer, size, err)
	}
	if ptr == 0 {
		return Region{}, errors.AllocationFailed(errors.PhaseBuffer, size, nil)
	}
	if al != nil {
		al.Add(ptr, size)
	}
	if err := mem.Write(ptr, data); err != nil {
		if al == nil {
			alloc.Free(ptr)
		}
		return Region{}, errors.Wrap(errors.PhaseBuffer, errors.KindOutOfBounds, err, "write exported buffer")
	}
	return Region{Ptr: ptr, Len: size}, nil
}

// Import copies the bytes of r out of native memory.
func Import(mem interop.Memory, r Region) ([]byte, error) {
	if r.Len == 0 {
		return []byte{}, nil
	}
	data, err := mem.Read(r.Ptr, r.Len)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBuffer, errors.KindOutOfBounds, err, "read imported buffer")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
