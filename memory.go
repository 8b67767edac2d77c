// memory.go - CHIP-8 address space and program loading

package main

// Memory is the 4KB arena shared by the interpreter and the running
// program. Addresses 0x000-0x1FF are reserved for interpreter internals;
// the font table lives at FONT_START and the program image at PROG_START.
// Programs may write anywhere in the arena, self-modifying code included.
type Memory struct {
	bytes [MEMORY_SIZE]byte
}

func NewMemory() *Memory {
	mem := &Memory{}
	mem.Reset()
	return mem
}

// Reset clears the whole arena and reinstalls the font table.
func (m *Memory) Reset() {
	for i := range m.bytes {
		m.bytes[i] = 0
	}
	copy(m.bytes[FONT_START:], fontSprites[:])
}

// LoadProgram writes a raw ROM image starting at PROG_START. The image
// is all code/data, no header.
func (m *Memory) LoadProgram(image []byte) error {
	if len(image) > MAX_PROGRAM_SIZE {
		return &CapacityError{Size: len(image)}
	}
	copy(m.bytes[PROG_START:], image)
	return nil
}

func (m *Memory) ReadByte(addr uint16) (byte, error) {
	if addr >= MEMORY_SIZE {
		return 0, &OutOfBoundsError{Addr: addr}
	}
	return m.bytes[addr], nil
}

func (m *Memory) WriteByte(addr uint16, value byte) error {
	if addr >= MEMORY_SIZE {
		return &OutOfBoundsError{Addr: addr}
	}
	m.bytes[addr] = value
	return nil
}
