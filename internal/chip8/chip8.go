// Package chip8 implements the CHIP-8 virtual machine, a fetch-decode-execute
// engine over 4 KiB of memory, 16 registers, a call stack, two countdown
// timers, a 64x32 framebuffer and 16 key latches. The machine is a pure state
// transition engine: it performs no I/O, spawns no goroutines and keeps no
// global state, the host drives it through Step and TickTimers.
package chip8

import (
	"fmt"
	"math/rand/v2"

	"github.com/grant-wade/chip8-emulator/internal/display"
	"github.com/grant-wade/chip8-emulator/internal/keypad"
	"github.com/grant-wade/chip8-emulator/internal/memory"
)

const (
	numRegisters = 16
	stackDepth   = 16

	flagRegister = 0xF
)

// Mode is the externally visible execution mode of the machine.
type Mode uint8

const (
	// ModeRunning executes one instruction per step.
	ModeRunning Mode = iota

	// ModeAwaitingKey polls the key latches on each step without fetching,
	// entered by the await key instruction and left on the next key press.
	ModeAwaitingKey
)

// Machine is one CHIP-8 virtual machine instance. Instances are independent
// of each other. None of its methods are safe for concurrent use, the host
// serializes steps, timer ticks, key changes and framebuffer reads.
type Machine struct {
	mem    *memory.Memory
	screen *display.Screen
	keys   *keypad.Keypad

	v     [numRegisters]uint8
	i     uint16
	pc    uint16
	stack [stackDepth]uint16
	sp    uint8

	delay uint8
	sound uint8

	mode         Mode
	waitRegister uint8
	waitBaseline [keypad.NumKeys]bool

	random func() byte
}

// New returns a machine in its initial configuration: font data loaded,
// program counter at the program start address, everything else zeroed.
func New() *Machine {
	return NewWithRandom(func() byte {
		return byte(rand.IntN(256))
	})
}

// NewWithRandom returns a machine using the given random byte source,
// allowing deterministic sequences in tests.
func NewWithRandom(random func() byte) *Machine {
	return &Machine{
		mem:    memory.New(),
		screen: display.New(),
		keys:   keypad.New(),
		pc:     memory.ProgramStart,
		random: random,
	}
}

// Load places a program image at the program start address.
// It is meant to be called once on a fresh machine before stepping.
func (m *Machine) Load(program []byte) error {
	if err := m.mem.LoadProgram(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}
	return nil
}

// Step executes one fetch-decode-execute cycle and returns nil on success.
//
// An instruction word outside of the instruction set is skipped and reported
// as ErrUnknownOpcode, execution can continue. All other errors (memory out
// of bounds, stack overflow or underflow) are fatal to the step and leave the
// machine in its last valid state with the program counter unchanged.
//
// In ModeAwaitingKey, Step polls the key latches instead of fetching and
// returns promptly. The first step observing a key that went down since the
// await instruction stores the lowest such key index in the destination
// register and resumes normal execution.
func (m *Machine) Step() error {
	if m.mode == ModeAwaitingKey {
		m.pollAwaitedKey()
		return nil
	}

	word, err := m.mem.ReadWord(m.pc)
	if err != nil {
		return fmt.Errorf("fetching instruction at %04X: %w", m.pc, err)
	}

	advance, err := m.execute(Decode(word))
	if advance {
		m.pc += 2
	}
	return err
}

// pollAwaitedKey checks the key latches for a new key press. Keys already
// held when the await instruction executed do not count until they are
// released, only a fresh press resumes execution.
func (m *Machine) pollAwaitedKey() {
	current := m.keys.Snapshot()
	for key, down := range current {
		if !down {
			m.waitBaseline[key] = false
		}
	}

	for key, down := range current {
		if down && !m.waitBaseline[key] {
			m.v[m.waitRegister] = uint8(key)
			m.pc += 2
			m.mode = ModeRunning
			return
		}
	}
}

// TickTimers decrements the delay and sound timers by one, stopping at zero.
// The host calls this at its timer cadence, conventionally 60 times per
// emulated second, independently of the instruction step rate.
func (m *Machine) TickTimers() {
	if m.delay > 0 {
		m.delay--
	}
	if m.sound > 0 {
		m.sound--
	}
}

// PressKey latches a key as pressed. Key indexes above 0xF fail with
// keypad.ErrInvalidKey instead of being clamped.
func (m *Machine) PressKey(key uint8) error {
	return m.keys.Press(key)
}

// ReleaseKey latches a key as released. Key indexes above 0xF fail with
// keypad.ErrInvalidKey instead of being clamped.
func (m *Machine) ReleaseKey(key uint8) error {
	return m.keys.Release(key)
}

// Frame returns a copy of the framebuffer for rendering.
func (m *Machine) Frame() [][]bool {
	return m.screen.Frame()
}

// Pixel returns the state of the pixel at the wrapped coordinate.
func (m *Machine) Pixel(x, y int) bool {
	return m.screen.Pixel(x, y)
}

// ReadMemory returns the byte at the given memory address. It lets a host
// inspect memory for debug output, all writes go through Load and Step.
func (m *Machine) ReadMemory(address uint16) (byte, error) {
	return m.mem.Read(address)
}

// DelayTimer returns the current delay timer value.
func (m *Machine) DelayTimer() uint8 {
	return m.delay
}

// SoundTimer returns the current sound timer value. The host plays a tone
// while the value is nonzero.
func (m *Machine) SoundTimer() uint8 {
	return m.sound
}

// Mode returns the current execution mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// PC returns the current program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// I returns the current index register value.
func (m *Machine) I() uint16 {
	return m.i
}

// V returns the value of register V0 to VF, the index is masked to 0xF.
func (m *Machine) V(register uint8) uint8 {
	return m.v[register&0xF]
}
