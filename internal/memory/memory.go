// Package memory implements the CHIP-8 4 KiB address space.
package memory

import (
	"errors"
	"fmt"
)

// CHIP-8 memory layout constants.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter and font data (512 bytes)
//	0x200-0xFFF: User program space (3584 bytes)
const (
	// Size is the total amount of addressable memory in bytes.
	Size = 4096

	// ProgramStart is the address where programs are loaded and begin execution.
	ProgramStart = 0x200

	// MaxProgramSize is the largest program image that fits into memory.
	MaxProgramSize = Size - ProgramStart

	// FontOffset is the address of the built-in hexadecimal digit sprites.
	FontOffset = 0x050

	// glyphSize is the height in bytes of one built-in digit sprite.
	glyphSize = 5
)

// ErrOutOfBounds is returned when an address or address range exceeds memory.
var ErrOutOfBounds = errors.New("memory address out of bounds")

// font contains the sprite bitmaps for the hexadecimal digits 0-F,
// 5 bytes per digit, one row of 8 pixel bits per byte.
var font = [16 * glyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the machine's addressable byte array with the digit sprites
// preloaded at FontOffset. All accesses are bounds-checked, multi-byte
// operations validate the full range before touching any byte.
type Memory struct {
	data [Size]byte
}

// New returns memory with the font data loaded and all other bytes zeroed.
func New() *Memory {
	m := &Memory{}
	copy(m.data[FontOffset:], font[:])
	return m
}

// LoadProgram copies a program image to the program start address.
func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("program size %d exceeds %d bytes: %w",
			len(program), MaxProgramSize, ErrOutOfBounds)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}

// Read returns the byte at the given address.
func (m *Memory) Read(address uint16) (byte, error) {
	if int(address) >= Size {
		return 0, fmt.Errorf("reading address %04X: %w", address, ErrOutOfBounds)
	}
	return m.data[address], nil
}

// Write stores a byte at the given address.
func (m *Memory) Write(address uint16, value byte) error {
	if int(address) >= Size {
		return fmt.Errorf("writing address %04X: %w", address, ErrOutOfBounds)
	}
	m.data[address] = value
	return nil
}

// ReadWord returns the big-endian 16-bit value at the given address.
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if int(address)+1 >= Size {
		return 0, fmt.Errorf("reading word at address %04X: %w", address, ErrOutOfBounds)
	}
	return uint16(m.data[address])<<8 | uint16(m.data[address+1]), nil
}

// ReadBytes returns a copy of count bytes starting at the given address.
func (m *Memory) ReadBytes(address uint16, count int) ([]byte, error) {
	if int(address)+count > Size {
		return nil, fmt.Errorf("reading %d bytes at address %04X: %w",
			count, address, ErrOutOfBounds)
	}
	data := make([]byte, count)
	copy(data, m.data[address:int(address)+count])
	return data, nil
}

// WriteBytes stores the given bytes starting at the given address.
// Nothing is written if the range does not fit into memory.
func (m *Memory) WriteBytes(address uint16, data []byte) error {
	if int(address)+len(data) > Size {
		return fmt.Errorf("writing %d bytes at address %04X: %w",
			len(data), address, ErrOutOfBounds)
	}
	copy(m.data[address:], data)
	return nil
}

// FontAddress returns the address of the built-in sprite for the
// hexadecimal digit in the low nibble of the given value.
func FontAddress(digit byte) uint16 {
	return FontOffset + uint16(digit&0x0F)*glyphSize
}
