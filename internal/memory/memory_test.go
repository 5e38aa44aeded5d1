package memory

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewLoadsFont(t *testing.T) {
	m := New()

	// digit 0 sprite sits at the font offset
	expected := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	for i, want := range expected {
		b, err := m.Read(FontOffset + uint16(i))
		assert.NoError(t, err)
		assert.Equal(t, want, b)
	}

	// area outside interpreter data starts zeroed
	b, err := m.Read(ProgramStart)
	assert.NoError(t, err)
	assert.Equal(t, byte(0), b)
}

func TestLoadProgram(t *testing.T) {
	tests := []struct {
		name    string
		program []byte
		wantErr bool
	}{
		{"empty program", nil, false},
		{"small program", []byte{0x60, 0x05, 0x70, 0x03}, false},
		{"maximum size", make([]byte, MaxProgramSize), false},
		{"one byte too large", make([]byte, MaxProgramSize+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			err := m.LoadProgram(tt.program)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrOutOfBounds))
				return
			}
			assert.NoError(t, err)

			for i, want := range tt.program {
				b, readErr := m.Read(ProgramStart + uint16(i))
				assert.NoError(t, readErr)
				assert.Equal(t, want, b)
			}
		})
	}
}

func TestReadWriteBounds(t *testing.T) {
	m := New()

	assert.NoError(t, m.Write(Size-1, 0xAB))
	b, err := m.Read(Size - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0xAB), b)

	err = m.Write(Size, 0x01)
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	_, err = m.Read(Size)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestReadWord(t *testing.T) {
	m := New()
	assert.NoError(t, m.Write(0x200, 0x12))
	assert.NoError(t, m.Write(0x201, 0x34))

	word, err := m.ReadWord(0x200)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0x1234), word)

	// second byte of the word would be out of bounds
	_, err = m.ReadWord(Size - 1)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestReadBytes(t *testing.T) {
	m := New()
	assert.NoError(t, m.WriteBytes(0x300, []byte{1, 2, 3}))

	data, err := m.ReadBytes(0x300, 3)
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = m.ReadBytes(Size-2, 3)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
}

func TestWriteBytesLeavesMemoryUntouchedOnError(t *testing.T) {
	m := New()
	assert.NoError(t, m.Write(Size-1, 0x55))

	err := m.WriteBytes(Size-1, []byte{1, 2})
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	b, err := m.Read(Size - 1)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x55), b)
}

func TestFontAddress(t *testing.T) {
	tests := []struct {
		name     string
		digit    byte
		expected uint16
	}{
		{"digit 0", 0x0, FontOffset},
		{"digit 1", 0x1, FontOffset + 5},
		{"digit F", 0xF, FontOffset + 75},
		{"high nibble ignored", 0xAB, FontOffset + 55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FontAddress(tt.digit))
		})
	}
}
