package interop

import "context"

// Memory represents native memory addressed by 32-bit offsets.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU16(offset uint32) (uint16, error)
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU8(offset uint32, value uint8) error
	WriteU16(offset uint32, value uint16) error
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of native memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates native memory on the peer side.
type Allocator interface {
	Malloc(size uint32) (uint32, error)
	Free(ptr uint32)
}

// Boundary is the native call boundary: it accepts a serialized argument
// buffer and returns the serialized result buffer.
type Boundary interface {
	Call(ctx context.Context, name string, args []byte) ([]byte, error)
}
