package chip8

import (
	"fmt"

	"github.com/grant-wade/chip8-emulator/internal/memory"
)

// execute applies one decoded instruction to the machine state. It returns
// whether the program counter should advance by one instruction afterwards,
// control flow instructions set the program counter themselves and suppress
// the advance.
//
// Instructions are atomic: address ranges are validated and memory is read
// before the first state write, a returned error means no partial effects.
// Flag updates of the arithmetic, shift and draw instructions are computed
// from the operand values and stored to VF after the primary destination
// write, so the flag survives when VF itself is the destination.
func (m *Machine) execute(ins Instruction) (bool, error) {
	switch ins.Op {
	case OpSys: // machine code call on the original hardware, ignored
		return true, nil

	case OpCls:
		m.screen.Clear()
		return true, nil

	case OpRet:
		return m.execReturn()

	case OpJp:
		m.pc = ins.NNN
		return false, nil

	case OpCall:
		return m.execCall(ins.NNN)

	case OpSeByte:
		m.skipIf(m.v[ins.X] == ins.KK)
		return true, nil

	case OpSneByte:
		m.skipIf(m.v[ins.X] != ins.KK)
		return true, nil

	case OpSeReg:
		m.skipIf(m.v[ins.X] == m.v[ins.Y])
		return true, nil

	case OpLdByte:
		m.v[ins.X] = ins.KK
		return true, nil

	case OpAddByte:
		m.v[ins.X] += ins.KK
		return true, nil

	case OpLdReg:
		m.v[ins.X] = m.v[ins.Y]
		return true, nil

	case OpOr:
		m.v[ins.X] |= m.v[ins.Y]
		return true, nil

	case OpAnd:
		m.v[ins.X] &= m.v[ins.Y]
		return true, nil

	case OpXor:
		m.v[ins.X] ^= m.v[ins.Y]
		return true, nil

	case OpAddReg:
		sum := uint16(m.v[ins.X]) + uint16(m.v[ins.Y])
		m.v[ins.X] = uint8(sum)
		m.setFlag(sum > 0xFF)
		return true, nil

	case OpSub:
		x, y := m.v[ins.X], m.v[ins.Y]
		m.v[ins.X] = x - y
		m.setFlag(x >= y)
		return true, nil

	case OpShr:
		x := m.v[ins.X]
		m.v[ins.X] = x >> 1
		m.setFlag(x&0x01 != 0)
		return true, nil

	case OpSubn:
		x, y := m.v[ins.X], m.v[ins.Y]
		m.v[ins.X] = y - x
		m.setFlag(y >= x)
		return true, nil

	case OpShl:
		x := m.v[ins.X]
		m.v[ins.X] = x << 1
		m.setFlag(x&0x80 != 0)
		return true, nil

	case OpSneReg:
		m.skipIf(m.v[ins.X] != m.v[ins.Y])
		return true, nil

	case OpLdI:
		m.i = ins.NNN
		return true, nil

	case OpJpV0:
		m.pc = ins.NNN + uint16(m.v[0])
		return false, nil

	case OpRnd:
		m.v[ins.X] = m.random() & ins.KK
		return true, nil

	case OpDrw:
		return m.execDraw(ins)

	case OpSkp:
		m.skipIf(m.keys.Down(m.v[ins.X] & 0xF))
		return true, nil

	case OpSknp:
		m.skipIf(!m.keys.Down(m.v[ins.X] & 0xF))
		return true, nil

	case OpLdDelay:
		m.v[ins.X] = m.delay
		return true, nil

	case OpWaitKey:
		m.mode = ModeAwaitingKey
		m.waitRegister = ins.X
		m.waitBaseline = m.keys.Snapshot()
		return false, nil

	case OpSetDelay:
		m.delay = m.v[ins.X]
		return true, nil

	case OpSetSound:
		m.sound = m.v[ins.X]
		return true, nil

	case OpAddI:
		m.i += uint16(m.v[ins.X])
		return true, nil

	case OpLdFont:
		m.i = memory.FontAddress(m.v[ins.X])
		return true, nil

	case OpBcd:
		return m.execStoreDigits(ins.X)

	case OpStoreRegs:
		return m.execStoreRegisters(ins.X)

	case OpLoadRegs:
		return m.execLoadRegisters(ins.X)

	default:
		return true, fmt.Errorf("opcode %04X: %w", ins.Word, ErrUnknownOpcode)
	}
}

// skipIf advances the program counter over the next instruction when the
// condition holds, on top of the regular advance after the current one.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc += 2
	}
}

// setFlag stores a condition as 0 or 1 in the flag register VF.
func (m *Machine) setFlag(condition bool) {
	if condition {
		m.v[flagRegister] = 1
	} else {
		m.v[flagRegister] = 0
	}
}

// execCall pushes the address of the next instruction and jumps.
func (m *Machine) execCall(address uint16) (bool, error) {
	if int(m.sp) >= len(m.stack) {
		return false, fmt.Errorf("calling %03X at depth %d: %w",
			address, m.sp, ErrStackOverflow)
	}
	m.stack[m.sp] = m.pc + 2
	m.sp++
	m.pc = address
	return false, nil
}

// execReturn pops the saved program counter of the matching call.
func (m *Machine) execReturn() (bool, error) {
	if m.sp == 0 {
		return false, fmt.Errorf("returning at %04X: %w", m.pc, ErrStackUnderflow)
	}
	m.sp--
	m.pc = m.stack[m.sp]
	return false, nil
}

// execDraw XORs a sprite of N rows read from the index register into the
// framebuffer at (VX, VY) and stores the collision result in VF. The sprite
// bytes are read up front so an out of bounds sprite leaves the framebuffer
// untouched.
func (m *Machine) execDraw(ins Instruction) (bool, error) {
	sprite, err := m.mem.ReadBytes(m.i, int(ins.N))
	if err != nil {
		return false, fmt.Errorf("reading sprite at %04X: %w", m.i, err)
	}

	collision := m.screen.DrawSprite(m.v[ins.X], m.v[ins.Y], sprite)
	m.setFlag(collision)
	return true, nil
}

// execStoreDigits writes the decimal digits of VX to memory at the index
// register: hundreds, tens and ones.
func (m *Machine) execStoreDigits(x uint8) (bool, error) {
	value := m.v[x]
	digits := []byte{value / 100, value / 10 % 10, value % 10}
	if err := m.mem.WriteBytes(m.i, digits); err != nil {
		return false, fmt.Errorf("storing digits at %04X: %w", m.i, err)
	}
	return true, nil
}

// execStoreRegisters writes V0 through VX inclusive to memory at the index
// register. The index register itself is left unchanged.
func (m *Machine) execStoreRegisters(x uint8) (bool, error) {
	if err := m.mem.WriteBytes(m.i, m.v[:int(x)+1]); err != nil {
		return false, fmt.Errorf("storing registers at %04X: %w", m.i, err)
	}
	return true, nil
}

// execLoadRegisters reads V0 through VX inclusive from memory at the index
// register. The index register itself is left unchanged.
func (m *Machine) execLoadRegisters(x uint8) (bool, error) {
	data, err := m.mem.ReadBytes(m.i, int(x)+1)
	if err != nil {
		return false, fmt.Errorf("loading registers at %04X: %w", m.i, err)
	}
	copy(m.v[:], data)
	return true, nil
}
