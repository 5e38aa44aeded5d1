// Package options contains the program options.
package options

// DefaultCycles is the default number of instructions executed per
// emulated second.
const DefaultCycles = 700

// Parameters contains file path options.
type Parameters struct {
	Input string // ROM file to run
}

// Flags contains behavior options.
type Flags struct {
	Cycles int  // instructions per second
	NoKeys bool // do not grab the keyboard, render only
	Debug  bool // enable debug logging with instruction traces
	Quiet  bool // quiet mode
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
}
