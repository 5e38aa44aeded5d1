// Package terminal renders the framebuffer as text and reads raw keyboard
// input, translating the conventional PC key layout to the hexadecimal keypad.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Control bytes delivered by a raw mode terminal.
const (
	KeyEscape = 0x1B
	KeyCtrlC  = 0x03
)

// keymap translates the left side of a QWERTY keyboard to the 4x4 keypad:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// KeyFromByte returns the keypad index for a terminal input byte.
// Letters match case insensitively.
func KeyFromByte(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keymap[b]
	return key, ok
}

// Keyboard reads single bytes from stdin in terminal raw mode and delivers
// them on a channel. Only instantiated for interactive use, never in tests.
type Keyboard struct {
	input    chan byte
	stop     chan struct{}
	stopOnce sync.Once
	fd       int
	oldState *term.State
}

// NewKeyboard returns a keyboard reading from stdin.
func NewKeyboard() *Keyboard {
	return &Keyboard{
		input: make(chan byte, 16),
		stop:  make(chan struct{}),
	}
}

// Start switches the terminal into raw mode and begins reading stdin in a
// goroutine. Call Stop to restore the terminal state.
func (k *Keyboard) Start() error {
	k.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(k.fd)
	if err != nil {
		return fmt.Errorf("setting terminal raw mode: %w", err)
	}
	k.oldState = oldState

	go k.read()
	return nil
}

// read forwards stdin bytes to the input channel. The goroutine can stay
// blocked in the final Read until the process exits, Stop only restores
// the terminal state.
func (k *Keyboard) read() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}

		select {
		case k.input <- buf[0]:
		case <-k.stop:
			return
		}
	}
}

// Stop restores the terminal state.
func (k *Keyboard) Stop() {
	k.stopOnce.Do(func() {
		close(k.stop)
	})
	if k.oldState != nil {
		_ = term.Restore(k.fd, k.oldState)
		k.oldState = nil
	}
}

// Input returns the channel delivering raw input bytes.
func (k *Keyboard) Input() <-chan byte {
	return k.input
}

// Renderer writes the framebuffer to a terminal using ANSI control codes.
// Every pixel is rendered as two characters to roughly square its shape.
type Renderer struct {
	w io.Writer
}

// NewRenderer returns a renderer writing to the given terminal writer.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Init clears the terminal and hides the cursor.
func (r *Renderer) Init() error {
	if _, err := io.WriteString(r.w, "\x1b[2J\x1b[H\x1b[?25l"); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	return nil
}

// Render draws a full frame and a status line below it. The frame is
// written in one piece to avoid flickering.
func (r *Renderer) Render(frame [][]bool, status string) error {
	var sb strings.Builder
	sb.Grow(len(frame)*len(frame[0])*2 + 64)

	sb.WriteString("\x1b[H")
	for _, row := range frame {
		for _, pixel := range row {
			if pixel {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\x1b[K\r\n")
	}
	sb.WriteString(status)
	sb.WriteString("\x1b[K")

	if _, err := io.WriteString(r.w, sb.String()); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}
	return nil
}

// Close makes the cursor visible again and moves it below the output.
func (r *Renderer) Close() error {
	if _, err := io.WriteString(r.w, "\x1b[?25h\r\n"); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}
