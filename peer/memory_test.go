package peer

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/wippyai/peer-interop/errors"
)

func TestMemory_ReadWrite(t *testing.T) {
	p := newTestPeer(t, nil)
	mem := p.Memory()

	if err := mem.WriteU32(2048, 0xdeadbeef); err != nil {
		t.Fatalf("WriteU32: %v", err)
	}
	v32, err := mem.ReadU32(2048)
	if err != nil || v32 != 0xdeadbeef {
		t.Fatalf("ReadU32 = %#x, %v", v32, err)
	}

	if err := mem.WriteU64(2056, 1<<40|7); err != nil {
		t.Fatalf("WriteU64: %v", err)
	}
	v64, err := mem.ReadU64(2056)
	if err != nil || v64 != 1<<40|7 {
		t.Fatalf("ReadU64 = %#x, %v", v64, err)
	}

	if err := mem.WriteU16(2064, 0xabcd); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}
	v16, err := mem.ReadU16(2064)
	if err != nil || v16 != 0xabcd {
		t.Fatalf("ReadU16 = %#x, %v", v16, err)
	}
	lo, err := mem.ReadU8(2064)
	if err != nil || lo != 0xcd {
		t.Fatalf("ReadU8 = %#x, %v", lo, err)
	}

	if err := mem.Write(3000, []byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := mem.Read(3000, 3)
	if err != nil || string(b) != "abc" {
		t.Fatalf("Read = %q, %v", b, err)
	}
}

func TestMemory_OutOfBounds(t *testing.T) {
	p := newTestPeer(t, nil)
	mem := p.Memory()
	size := p.mem.Size()

	if _, err := mem.Read(size-2, 4); !stderrors.Is(err, &errors.Error{Phase: errors.PhasePeer, Kind: errors.KindOutOfBounds}) {
		t.Errorf("Read error = %v, want out of bounds", err)
	}
	if err := mem.WriteU32(size-2, 1); !stderrors.Is(err, &errors.Error{Kind: errors.KindOutOfBounds}) {
		t.Errorf("WriteU32 error = %v, want out of bounds", err)
	}
	if _, err := mem.ReadU64(size); err == nil {
		t.Error("ReadU64 past the end should fail")
	}
}

func TestAllocator_Bump(t *testing.T) {
	p := newTestPeer(t, nil)
	alloc := p.Allocator(context.Background())

	a, err := alloc.Malloc(16)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}
	b, err := alloc.Malloc(16)
	if err != nil {
		t.Fatalf("Malloc: %v", err)
	}
	if a < 1024 || b != a+16 {
		t.Errorf("allocations = %d, %d; want consecutive from 1024", a, b)
	}
	alloc.Free(a)
}

func TestWrapNil(t *testing.T) {
	if WrapMemory(nil) != nil {
		t.Error("WrapMemory(nil) should be nil")
	}
	if WrapAllocator(context.Background(), nil, nil) != nil {
		t.Error("WrapAllocator(nil, nil) should be nil")
	}
}
