package codec

import "fmt"

// flatMemory implements interop.Memory over a byte slice.
type flatMemory struct {
	data []byte
}

func (m *flatMemory) Read(offset, length uint32) ([]byte, error) {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return nil, fmt.Errorf("read %d+%d out of range", offset, length)
	}
	return m.data[offset : offset+length], nil
}

func (m *flatMemory) Write(offset uint32, data []byte) error {
	if uint64(offset)+uint64(len(data)) > uint64(len(m.data)) {
		return fmt.Errorf("write %d+%d out of range", offset, len(data))
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *flatMemory) ReadU8(offset uint32) (uint8, error) {
	b, err := m.Read(offset, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (m *flatMemory) ReadU16(uint32) (uint16, error)  { return 0, fmt.Errorf("unused") }
func (m *flatMemory) ReadU32(uint32) (uint32, error)  { return 0, fmt.Errorf("unused") }
func (m *flatMemory) ReadU64(uint32) (uint64, error)  { return 0, fmt.Errorf("unused") }
func (m *flatMemory) WriteU8(o uint32, v uint8) error { return m.Write(o, []byte{v}) }
func (m *flatMemory) WriteU16(uint32, uint16) error   { return fmt.Errorf("unused") }
func (m *flatMemory) WriteU32(uint32, uint32) error   { return fmt.Errorf("unused") }
func (m *flatMemory) WriteU64(uint32, uint64) error   { return fmt.Errorf("unused") }
