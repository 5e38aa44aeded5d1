// Package runner loads a ROM image into a machine and drives it: instruction
// steps and timer ticks at the configured cadence, terminal rendering and
// keyboard input. All timing lives here, the machine itself has no clock.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/grant-wade/chip8-emulator/internal/chip8"
	"github.com/grant-wade/chip8-emulator/internal/keypad"
	"github.com/grant-wade/chip8-emulator/internal/memory"
	"github.com/grant-wade/chip8-emulator/internal/options"
	"github.com/grant-wade/chip8-emulator/internal/terminal"
	"github.com/grant-wade/chip8-emulator/internal/trace"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

const (
	// frameRate is the timer tick and render cadence in frames per second.
	frameRate = 60

	// keyHoldFrames is how long a key stays latched after its last input
	// byte. Raw mode terminals deliver key repeats but no release events,
	// so keys are released once their repeats stop arriving.
	keyHoldFrames = 5
)

// Runner drives one machine instance.
type Runner struct {
	logger   *log.Logger
	opts     options.Program
	machine  *chip8.Machine
	renderer *terminal.Renderer

	keyAge     [keypad.NumKeys]int // frames since last input byte, -1 when released
	lastFrame  [][]bool
	lastStatus string
}

// Run loads the ROM file and runs it until the program fails, the context is
// cancelled or the user presses a quit key.
func Run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	machine := chip8.New()
	if err := loadROM(machine, opts.Input); err != nil {
		return err
	}

	logger.Info("Running ROM",
		log.String("file", opts.Input),
		log.Int("cycles", opts.Cycles))

	r := &Runner{
		logger:   logger,
		opts:     opts,
		machine:  machine,
		renderer: terminal.NewRenderer(os.Stdout),
	}
	for i := range r.keyAge {
		r.keyAge[i] = -1
	}

	var input <-chan byte
	if !opts.NoKeys {
		keyboard := terminal.NewKeyboard()
		if err := keyboard.Start(); err != nil {
			return fmt.Errorf("starting keyboard input: %w", err)
		}
		defer keyboard.Stop()
		input = keyboard.Input()
	}

	if err := r.renderer.Init(); err != nil {
		return err
	}
	defer func() {
		_ = r.renderer.Close()
	}()

	return r.loop(ctx, input)
}

// loadROM reads and validates the ROM file and loads it into the machine.
func loadROM(machine *chip8.Machine, path string) error {
	rom, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading ROM file '%s': %w", path, err)
	}
	if len(rom) == 0 || len(rom) > memory.MaxProgramSize {
		return fmt.Errorf("ROM file '%s' has invalid size %d, the limit is %d bytes",
			path, len(rom), memory.MaxProgramSize)
	}
	if err := machine.Load(rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	return nil
}

// loop runs frames at the frame rate: drain keyboard input, execute the
// frame's share of instructions, tick the timers and render.
func (r *Runner) loop(ctx context.Context, input <-chan byte) error {
	stepsPerFrame := r.opts.Cycles / frameRate
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if quit := r.readKeys(input); quit {
			return nil
		}

		for i := 0; i < stepsPerFrame; i++ {
			if err := r.step(); err != nil {
				return err
			}
			if r.machine.Mode() == chip8.ModeAwaitingKey {
				break // key latches only change between frames
			}
		}

		r.machine.TickTimers()

		if err := r.render(); err != nil {
			return err
		}
	}
}

// step executes one machine step. Unknown opcodes are logged and skipped,
// all other step failures end the run.
func (r *Runner) step() error {
	pc := r.machine.PC()
	awaiting := r.machine.Mode() == chip8.ModeAwaitingKey

	err := r.machine.Step()
	switch {
	case err == nil:
	case errors.Is(err, chip8.ErrUnknownOpcode):
		r.logger.Warn("Skipped unknown opcode", log.Uint16("pc", pc), log.Err(err))
		return nil
	default:
		return fmt.Errorf("executing instruction at %04X: %w", pc, err)
	}

	if r.opts.Debug && !awaiting {
		if word, wordErr := r.instructionWord(pc); wordErr == nil {
			r.logger.Debug("Executed",
				log.Uint16("pc", pc),
				log.String("instruction", trace.Instruction(word)))
		}
	}
	return nil
}

// instructionWord reads the instruction word at the given address.
func (r *Runner) instructionWord(address uint16) (uint16, error) {
	high, err := r.machine.ReadMemory(address)
	if err != nil {
		return 0, err
	}
	low, err := r.machine.ReadMemory(address + 1)
	if err != nil {
		return 0, err
	}
	return uint16(high)<<8 | uint16(low), nil
}

// readKeys drains pending input bytes, latching the mapped keypad keys, and
// releases keys whose repeats stopped arriving. It returns true on a quit key.
func (r *Runner) readKeys(input <-chan byte) bool {
	for {
		select {
		case b := <-input:
			if b == terminal.KeyEscape || b == terminal.KeyCtrlC {
				return true
			}
			key, ok := terminal.KeyFromByte(b)
			if !ok {
				continue
			}
			if err := r.machine.PressKey(key); err == nil {
				r.keyAge[key] = 0
			}

		default:
			r.ageKeys()
			return false
		}
	}
}

// ageKeys advances the age of all held keys by one frame and releases the
// ones that reached the hold limit.
func (r *Runner) ageKeys() {
	for key := range r.keyAge {
		if r.keyAge[key] < 0 {
			continue
		}
		r.keyAge[key]++
		if r.keyAge[key] >= keyHoldFrames {
			_ = r.machine.ReleaseKey(uint8(key))
			r.keyAge[key] = -1
		}
	}
}

// render redraws the terminal when the framebuffer or the status line
// changed since the last frame.
func (r *Runner) render() error {
	frame := r.machine.Frame()
	status := r.status()
	if status == r.lastStatus && !frameChanged(r.lastFrame, frame) {
		return nil
	}
	r.lastFrame = frame
	r.lastStatus = status

	if err := r.renderer.Render(frame, status); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}

// status builds the status line shown below the framebuffer.
func (r *Runner) status() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, " PC %04X  DT %3d  ST %3d",
		r.machine.PC(), r.machine.DelayTimer(), r.machine.SoundTimer())

	if r.machine.SoundTimer() > 0 {
		sb.WriteString("  BEEP")
	}
	if r.machine.Mode() == chip8.ModeAwaitingKey {
		sb.WriteString("  waiting for key")
	}
	return sb.String()
}

// frameChanged reports whether two framebuffer copies differ.
// A nil previous frame counts as changed to force the first render.
func frameChanged(last, current [][]bool) bool {
	if last == nil {
		return true
	}
	for y := range current {
		for x := range current[y] {
			if last[y][x] != current[y][x] {
				return true
			}
		}
	}
	return false
}

// PrintBanner prints the application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("chip8", log.String("version", buildinfo.Version(version, commit, date)))
}
