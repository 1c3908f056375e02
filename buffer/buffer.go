package buffer

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/peer-interop/errors"
)

// InitialCapacity is the capacity of a buffer created by New.
const InitialCapacity = 96

// GrowHook is called after every reallocation with the old and new capacity.
type GrowHook func(oldCap, newCap int)

// Buffer is a growable little-endian write arena with a cursor.
//
// The bytes [0, Len()) are the logical content. Growth copies exactly that
// range into a larger region. Buffer is not safe for concurrent use.
type Buffer struct {
	grow     GrowHook
	data     []byte
	pos      int
	disposed bool
}

// New creates a buffer with InitialCapacity bytes.
func New() *Buffer {
	return NewWithCapacity(InitialCapacity)
}

// NewWithCapacity creates a buffer with the given initial capacity.
// A non-positive capacity falls back to InitialCapacity.
func NewWithCapacity(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = InitialCapacity
	}
	return &Buffer{data: make([]byte, capacity)}
}

// SetGrowHook installs h, replacing any previous hook. A nil h disables it.
func (b *Buffer) SetGrowHook(h GrowHook) {
	b.grow = h
}

// EnsureCapacity makes room for extra more bytes after the cursor.
// When the region is too small it is replaced by one of
// max(Len()+extra, 1.5*Cap()) bytes.
func (b *Buffer) EnsureCapacity(extra int) error {
	if b.disposed {
		return errors.Closed(errors.PhaseBuffer, "buffer")
	}
	if extra <= 0 {
		return errors.InvalidSize(errors.PhaseBuffer, extra)
	}
	need := b.pos + extra
	if need <= len(b.data) {
		return nil
	}

	oldCap := len(b.data)
	newCap := max(need, oldCap+oldCap/2)
	data := make([]byte, newCap)
	copy(data, b.data[:b.pos])
	b.data = data

	if b.grow != nil {
		b.grow(oldCap, newCap)
	}
	return nil
}

// reserve grows for n bytes and returns the slice to write into.
// Writes on a disposed buffer are programming errors and panic.
func (b *Buffer) reserve(n int) []byte {
	if err := b.EnsureCapacity(n); err != nil {
		panic(err)
	}
	p := b.data[b.pos : b.pos+n]
	b.pos += n
	return p
}

// WriteInt8 writes one byte.
func (b *Buffer) WriteInt8(v int8) {
	b.reserve(1)[0] = byte(v)
}

// WriteByte writes one raw byte. It never fails on a live buffer.
func (b *Buffer) WriteByte(v byte) error {
	b.reserve(1)[0] = v
	return nil
}

// WriteInt32 writes v as 4 little-endian bytes.
func (b *Buffer) WriteInt32(v int32) {
	binary.LittleEndian.PutUint32(b.reserve(4), uint32(v))
}

// WriteInt64 writes v as 8 little-endian bytes.
func (b *Buffer) WriteInt64(v int64) {
	binary.LittleEndian.PutUint64(b.reserve(8), uint64(v))
}

// WriteFloat32 writes the IEEE-754 bits of v as 4 little-endian bytes.
func (b *Buffer) WriteFloat32(v float32) {
	binary.LittleEndian.PutUint32(b.reserve(4), math.Float32bits(v))
}

// WritePointer writes v as 8 little-endian bytes regardless of host width.
func (b *Buffer) WritePointer(v uint64) {
	binary.LittleEndian.PutUint64(b.reserve(8), v)
}

// Write appends p. It implements io.Writer and never returns an error on a
// live buffer.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	copy(b.reserve(len(p)), p)
	return len(p), nil
}

// Len returns the number of bytes written, not the capacity.
func (b *Buffer) Len() int {
	return b.pos
}

// Cap returns the allocated capacity.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Bytes returns the written bytes. The slice aliases the buffer and is valid
// until the next write, Reset or Dispose.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.pos]
}

// Reset moves the cursor back to 0 and keeps the memory.
func (b *Buffer) Reset() {
	b.pos = 0
}

// Dispose frees the memory. The buffer is unusable afterward.
func (b *Buffer) Dispose() {
	b.data = nil
	b.pos = 0
	b.grow = nil
	b.disposed = true
}

// Disposed reports whether Dispose was called.
func (b *Buffer) Disposed() bool {
	return b.disposed
}
