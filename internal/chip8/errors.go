package chip8

import "errors"

var (
	// ErrStackOverflow is returned when a subroutine call exceeds the stack depth.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when returning with an empty call stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrUnknownOpcode reports an instruction word outside of the instruction
	// set. The step completes by skipping the word, the error is informational.
	ErrUnknownOpcode = errors.New("unknown opcode")
)
