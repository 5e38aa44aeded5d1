package chip8

// Op identifies one of the 35 machine operations. The zero value OpUnknown
// represents encodings outside of the instruction set, which makes the full
// set of decode results enumerable and keeps dispatch exhaustive.
type Op uint8

const (
	OpUnknown Op = iota

	OpSys       // 0NNN call machine code routine, ignored
	OpCls       // 00E0 clear the display
	OpRet       // 00EE return from subroutine
	OpJp        // 1NNN jump to address
	OpCall      // 2NNN call subroutine
	OpSeByte    // 3XKK skip next instruction if VX == KK
	OpSneByte   // 4XKK skip next instruction if VX != KK
	OpSeReg     // 5XY0 skip next instruction if VX == VY
	OpLdByte    // 6XKK set VX = KK
	OpAddByte   // 7XKK set VX = VX + KK, no carry flag
	OpLdReg     // 8XY0 set VX = VY
	OpOr        // 8XY1 set VX = VX | VY
	OpAnd       // 8XY2 set VX = VX & VY
	OpXor       // 8XY3 set VX = VX ^ VY
	OpAddReg    // 8XY4 set VX = VX + VY, VF = carry
	OpSub       // 8XY5 set VX = VX - VY, VF = no borrow
	OpShr       // 8XY6 set VX = VX >> 1, VF = shifted out bit
	OpSubn      // 8XY7 set VX = VY - VX, VF = no borrow
	OpShl       // 8XYE set VX = VX << 1, VF = shifted out bit
	OpSneReg    // 9XY0 skip next instruction if VX != VY
	OpLdI       // ANNN set I = NNN
	OpJpV0      // BNNN jump to address NNN + V0
	OpRnd       // CXKK set VX = random byte & KK
	OpDrw       // DXYN draw N byte sprite from I at (VX, VY), VF = collision
	OpSkp       // EX9E skip next instruction if key VX is pressed
	OpSknp      // EXA1 skip next instruction if key VX is not pressed
	OpLdDelay   // FX07 set VX = delay timer
	OpWaitKey   // FX0A await a key press, store the key in VX
	OpSetDelay  // FX15 set delay timer = VX
	OpSetSound  // FX18 set sound timer = VX
	OpAddI      // FX1E set I = I + VX
	OpLdFont    // FX29 set I = sprite address of digit VX
	OpBcd       // FX33 store BCD digits of VX at I, I+1, I+2
	OpStoreRegs // FX55 store V0..VX at I
	OpLoadRegs  // FX65 load V0..VX from I
)

// Instruction is a decoded instruction word. All operand fields are
// extracted positionally from the encoding, only the ones the operation
// uses are meaningful.
type Instruction struct {
	Op   Op
	X    uint8  // second nibble, first register index
	Y    uint8  // third nibble, second register index
	N    uint8  // low nibble
	KK   uint8  // low byte
	NNN  uint16 // low 12 bits, address
	Word uint16 // raw instruction encoding
}

// pattern matches one instruction encoding within its leading nibble group.
type pattern struct {
	mask  uint16
	value uint16
	op    Op
}

// patterns is indexed by the leading nibble of the instruction word.
// The SYS row matches last so that CLS and RET take precedence.
var patterns = [16][]pattern{
	0x0: {
		{0xFFFF, 0x00E0, OpCls},
		{0xFFFF, 0x00EE, OpRet},
		{0xF000, 0x0000, OpSys},
	},
	0x1: {{0xF000, 0x1000, OpJp}},
	0x2: {{0xF000, 0x2000, OpCall}},
	0x3: {{0xF000, 0x3000, OpSeByte}},
	0x4: {{0xF000, 0x4000, OpSneByte}},
	0x5: {{0xF00F, 0x5000, OpSeReg}},
	0x6: {{0xF000, 0x6000, OpLdByte}},
	0x7: {{0xF000, 0x7000, OpAddByte}},
	0x8: {
		{0xF00F, 0x8000, OpLdReg},
		{0xF00F, 0x8001, OpOr},
		{0xF00F, 0x8002, OpAnd},
		{0xF00F, 0x8003, OpXor},
		{0xF00F, 0x8004, OpAddReg},
		{0xF00F, 0x8005, OpSub},
		{0xF00F, 0x8006, OpShr},
		{0xF00F, 0x8007, OpSubn},
		{0xF00F, 0x800E, OpShl},
	},
	0x9: {{0xF00F, 0x9000, OpSneReg}},
	0xA: {{0xF000, 0xA000, OpLdI}},
	0xB: {{0xF000, 0xB000, OpJpV0}},
	0xC: {{0xF000, 0xC000, OpRnd}},
	0xD: {{0xF000, 0xD000, OpDrw}},
	0xE: {
		{0xF0FF, 0xE09E, OpSkp},
		{0xF0FF, 0xE0A1, OpSknp},
	},
	0xF: {
		{0xF0FF, 0xF007, OpLdDelay},
		{0xF0FF, 0xF00A, OpWaitKey},
		{0xF0FF, 0xF015, OpSetDelay},
		{0xF0FF, 0xF018, OpSetSound},
		{0xF0FF, 0xF01E, OpAddI},
		{0xF0FF, 0xF029, OpLdFont},
		{0xF0FF, 0xF033, OpBcd},
		{0xF0FF, 0xF055, OpStoreRegs},
		{0xF0FF, 0xF065, OpLoadRegs},
	},
}

// Decode interprets a 16-bit instruction word. It never fails,
// encodings outside of the instruction set decode to OpUnknown.
func Decode(word uint16) Instruction {
	ins := Instruction{
		Op:   OpUnknown,
		X:    uint8(word >> 8 & 0x0F),
		Y:    uint8(word >> 4 & 0x0F),
		N:    uint8(word & 0x0F),
		KK:   uint8(word & 0xFF),
		NNN:  word & 0x0FFF,
		Word: word,
	}

	for _, p := range patterns[word>>12] {
		if word&p.mask == p.value {
			ins.Op = p.op
			break
		}
	}
	return ins
}
