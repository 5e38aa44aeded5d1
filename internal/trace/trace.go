// Package trace renders instruction words as assembly mnemonics for log
// output, using the canonical instruction names of the retrogolib CHIP-8
// instruction set.
package trace

import (
	"fmt"

	"github.com/grant-wade/chip8-emulator/internal/chip8"
	cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Instruction returns the assembly rendering of an instruction word,
// for example "ld VA, $12". Words outside of the instruction set are
// rendered as a data directive.
func Instruction(word uint16) string {
	ins := chip8.Decode(word)

	name := mnemonic(ins.Op)
	if name == "" {
		return fmt.Sprintf(".dw $%04X", word)
	}

	if params := operands(ins); params != "" {
		return name + " " + params
	}
	return name
}

// mnemonic maps an operation to its instruction set name.
func mnemonic(op chip8.Op) string {
	switch op {
	case chip8.OpSys:
		return "sys"
	case chip8.OpCls:
		return cpu.ClsName
	case chip8.OpRet:
		return cpu.RetName
	case chip8.OpJp, chip8.OpJpV0:
		return cpu.JpName
	case chip8.OpCall:
		return cpu.CallName
	case chip8.OpSeByte, chip8.OpSeReg:
		return cpu.SeName
	case chip8.OpSneByte, chip8.OpSneReg:
		return cpu.SneName
	case chip8.OpLdByte, chip8.OpLdReg, chip8.OpLdI, chip8.OpLdDelay,
		chip8.OpWaitKey, chip8.OpSetDelay, chip8.OpSetSound, chip8.OpLdFont,
		chip8.OpBcd, chip8.OpStoreRegs, chip8.OpLoadRegs:
		return cpu.LdName
	case chip8.OpAddByte, chip8.OpAddReg, chip8.OpAddI:
		return cpu.AddName
	case chip8.OpOr:
		return cpu.OrName
	case chip8.OpAnd:
		return cpu.AndName
	case chip8.OpXor:
		return cpu.XorName
	case chip8.OpSub:
		return cpu.SubName
	case chip8.OpSubn:
		return cpu.SubnName
	case chip8.OpShr:
		return cpu.ShrName
	case chip8.OpShl:
		return cpu.ShlName
	case chip8.OpRnd:
		return cpu.RndName
	case chip8.OpDrw:
		return cpu.DrwName
	case chip8.OpSkp:
		return cpu.SkpName
	case chip8.OpSknp:
		return cpu.SknpName
	default:
		return ""
	}
}

// operands formats the operand list of a decoded instruction.
func operands(ins chip8.Instruction) string {
	switch ins.Op {
	case chip8.OpSys, chip8.OpCall:
		return fmt.Sprintf("$%03X", ins.NNN)
	case chip8.OpJp:
		return fmt.Sprintf("$%03X", ins.NNN)
	case chip8.OpJpV0:
		return fmt.Sprintf("V0, $%03X", ins.NNN)
	case chip8.OpSeByte, chip8.OpSneByte, chip8.OpLdByte, chip8.OpAddByte,
		chip8.OpRnd:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.KK)
	case chip8.OpSeReg, chip8.OpSneReg, chip8.OpLdReg, chip8.OpOr,
		chip8.OpAnd, chip8.OpXor, chip8.OpAddReg, chip8.OpSub, chip8.OpSubn:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)
	case chip8.OpShr, chip8.OpShl, chip8.OpSkp, chip8.OpSknp:
		return fmt.Sprintf("V%X", ins.X)
	case chip8.OpLdI:
		return fmt.Sprintf("I, $%03X", ins.NNN)
	case chip8.OpDrw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)
	case chip8.OpLdDelay:
		return fmt.Sprintf("V%X, DT", ins.X)
	case chip8.OpWaitKey:
		return fmt.Sprintf("V%X, K", ins.X)
	case chip8.OpSetDelay:
		return fmt.Sprintf("DT, V%X", ins.X)
	case chip8.OpSetSound:
		return fmt.Sprintf("ST, V%X", ins.X)
	case chip8.OpAddI:
		return fmt.Sprintf("I, V%X", ins.X)
	case chip8.OpLdFont:
		return fmt.Sprintf("F, V%X", ins.X)
	case chip8.OpBcd:
		return fmt.Sprintf("B, V%X", ins.X)
	case chip8.OpStoreRegs:
		return fmt.Sprintf("[I], V%X", ins.X)
	case chip8.OpLoadRegs:
		return fmt.Sprintf("V%X, [I]", ins.X)
	default:
		return ""
	}
}
