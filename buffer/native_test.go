package buffer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	ierrors "github.com/wippyai/peer-interop/errors"
)

// fakeMemory is a flat little-endian memory with a bump allocator.
type fakeMemory struct {
	data  []byte
	next  uint32
	freed []uint32
	fail  bool
}

func newFakeMemory(size int) *fakeMemory {
	return &fakeMemory{data: make([]byte, size), next: 8}
}

func (m *fakeMemory) Malloc(size uint32) (uint32, error) {
	if m.fail || int(m.next+size) > len(m.data) {
		return 0, fmt.Errorf("out of memory")
	}
	p := m.next
	m.next += size
	return p, nil
}

func (m *fakeMemory) Free(ptr uint32) { m.freed = append(m.freed, ptr) }

func (m *fakeMemory) check(offset, n uint32) error {
	if uint64(offset)+uint64(n) > uint64(len(m.data)) {
		return fmt.Errorf("out of range")
	}
	return nil
}

func (m *fakeMemory) Read(offset, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

func (m *fakeMemory) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *fakeMemory) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *fakeMemory) ReadU16(offset uint32) (uint16, error) {
	if err := m.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[offset:]), nil
}

func (m *fakeMemory) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[offset:]), nil
}

func (m *fakeMemory) ReadU64(offset uint32) (uint64, error) {
	if err := m.check(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[offset:]), nil
}

func (m *fakeMemory) WriteU8(offset uint32, v uint8) error {
	return m.Write(offset, []byte{v})
}

func (m *fakeMemory) WriteU16(offset uint32, v uint16) error {
	return m.Write(offset, binary.LittleEndian.AppendUint16(nil, v))
}

func (m *fakeMemory) WriteU32(offset uint32, v uint32) error {
	return m.Write(offset, binary.LittleEndian.AppendUint32(nil, v))
}

func (m *fakeMemory) WriteU64(offset uint32, v uint64) error {
	return m.Write(offset, binary.LittleEndian.AppendUint64(nil, v))
}

func TestExportImport(t *testing.T) {
	mem := newFakeMemory(256)
	b := New()
	b.WriteInt32(42)
	b.WriteInt8(5)

	al := NewAllocationList()
	r, err := b.Export(mem, mem, al)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if r.Len != 5 || r.Ptr == 0 {
		t.Fatalf("region = %+v", r)
	}
	if al.Count() != 1 {
		t.Fatalf("Count = %d, want 1", al.Count())
	}

	got, err := Import(mem, r)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !bytes.Equal(got, b.Bytes()) {
		t.Fatalf("imported %v, want %v", got, b.Bytes())
	}

	// Import returns a copy.
	mem.data[r.Ptr] = 0
	if got[0] != 42 {
		t.Fatal("Import should copy out of native memory")
	}

	al.FreeAndRelease(mem)
	if len(mem.freed) != 1 || mem.freed[0] != r.Ptr {
		t.Fatalf("freed = %v, want [%d]", mem.freed, r.Ptr)
	}
}

func TestExportEmpty(t *testing.T) {
	mem := newFakeMemory(64)
	r, err := New().Export(mem, mem, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r != (Region{}) {
		t.Fatalf("region = %+v, want zero", r)
	}
	got, err := Import(mem, r)
	if err != nil || len(got) != 0 {
		t.Fatalf("Import(zero) = %v, %v", got, err)
	}
}

func TestExportAllocationFailure(t *testing.T) {
	mem := newFakeMemory(64)
	mem.fail = true
	b := New()
	b.WriteInt32(1)

	_, err := b.Export(mem, mem, nil)
	if !errors.Is(err, &ierrors.Error{Phase: ierrors.PhaseBuffer, Kind: ierrors.KindAllocation}) {
		t.Fatalf("err = %v, want allocation error", err)
	}
}

func TestExportDisposed(t *testing.T) {
	mem := newFakeMemory(64)
	b := New()
	b.Dispose()
	if _, err := b.Export(mem, mem, nil); !errors.Is(err, &ierrors.Error{Kind: ierrors.KindClosed}) {
		t.Fatalf("err = %v, want closed", err)
	}
}

func TestImportOutOfRange(t *testing.T) {
	mem := newFakeMemory(16)
	_, err := Import(mem, Region{Ptr: 12, Len: 8})
	if !errors.Is(err, &ierrors.Error{Kind: ierrors.KindOutOfBounds}) {
		t.Fatalf("err = %v, want out of bounds", err)
	}
}

func TestAllocationList(t *testing.T) {
	mem := newFakeMemory(64)
	al := NewAllocationList()
	al.Add(8, 4)
	al.Add(0, 4)
	al.Add(16, 8)
	al.Free(mem)
	if len(mem.freed) != 2 {
		t.Fatalf("freed %v, null pointers must be skipped", mem.freed)
	}
	if al.Count() != 0 {
		t.Fatal("Free should reset the list")
	}
	al.Free(nil)
	al.Release()
}
