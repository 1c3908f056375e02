// Package buffer provides the growable write arena behind the serializer.
//
// A Buffer starts at 96 bytes and grows to max(needed, 1.5x capacity),
// copying only the bytes already written. Scalars are written little-endian:
//
//	b := buffer.New()
//	b.WriteInt32(42)
//	b.WriteFloat32(1.5)
//	b.WritePointer(0xdeadbeef)
//	fmt.Println(b.Len()) // 16
//
// Reset rewinds the cursor and keeps the memory for reuse. Dispose frees it.
// Buffers are recycled through Pool.
//
// # Native Memory
//
// Export copies the written bytes into memory obtained from an
// interop.Allocator and records the allocation in an AllocationList so all
// allocations of a call can be freed together. Import copies a region back.
package buffer
