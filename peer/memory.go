package peer

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	interop "github.com/wippyai/peer-interop"
	"github.com/wippyai/peer-interop/errors"
)

// WrapMemory wraps a wazero api.Memory to implement interop.Memory.
func WrapMemory(mem api.Memory) interop.Memory {
	if mem == nil {
		return nil
	}
	return &Memory{Mem: mem}
}

// WrapAllocator wraps the guest's malloc and free exports to implement
// interop.Allocator.
func WrapAllocator(ctx context.Context, malloc, free api.Function) interop.Allocator {
	if malloc == nil || free == nil {
		return nil
	}
	return &Allocator{Ctx: ctx, MallocFn: malloc, FreeFn: free}
}

// Memory adapts wazero api.Memory to interop.Memory.
type Memory struct {
	Mem api.Memory
}

func outOfBounds(op string, offset uint32, length int) *errors.Error {
	return errors.New(errors.PhasePeer, errors.KindOutOfBounds).
		Value(offset).
		Detail("memory %s out of bounds: offset=%d, length=%d", op, offset, length).
		Build()
}

// Size returns the current memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.Mem.Size()
}

// Read reads bytes from memory. The slice aliases guest memory.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, outOfBounds("read", offset, int(length))
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return outOfBounds("write", offset, len(data))
	}
	return nil
}

func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 1)
	}
	return v, nil
}

func (m *Memory) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 2)
	}
	return v, nil
}

func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 4)
	}
	return v, nil
}

func (m *Memory) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	if !ok {
		return 0, outOfBounds("read", offset, 8)
	}
	return v, nil
}

func (m *Memory) WriteU8(offset uint32, value uint8) error {
	if !m.Mem.WriteByte(offset, value) {
		return outOfBounds("write", offset, 1)
	}
	return nil
}

func (m *Memory) WriteU16(offset uint32, value uint16) error {
	if !m.Mem.WriteUint16Le(offset, value) {
		return outOfBounds("write", offset, 2)
	}
	return nil
}

func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return outOfBounds("write", offset, 4)
	}
	return nil
}

func (m *Memory) WriteU64(offset uint32, value uint64) error {
	if !m.Mem.WriteUint64Le(offset, value) {
		return outOfBounds("write", offset, 8)
	}
	return nil
}

// Allocator adapts the guest's malloc(size) -> ptr and free(ptr) exports.
type Allocator struct {
	Ctx      context.Context
	MallocFn api.Function
	FreeFn   api.Function
}

// Malloc allocates size bytes of guest memory.
func (a *Allocator) Malloc(size uint32) (uint32, error) {
	results, err := a.MallocFn.Call(a.Ctx, api.EncodeU32(size))
	if err != nil {
		return 0, errors.AllocationFailed(errors.PhasePeer, size, err)
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhasePeer, size, errors.InvalidData(errors.PhasePeer, nil, "malloc returned no result"))
	}
	return api.DecodeU32(results[0]), nil
}

// Free releases guest memory. Failures are logged, not returned.
func (a *Allocator) Free(ptr uint32) {
	if _, err := a.FreeFn.Call(a.Ctx, api.EncodeU32(ptr)); err != nil {
		Logger().Warn("guest free failed", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}
