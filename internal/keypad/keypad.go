// Package keypad implements the 16 key input latches.
package keypad

import (
	"errors"
	"fmt"
)

// NumKeys is the number of keys on the hexadecimal keypad, 0x0 to 0xF.
const NumKeys = 16

// ErrInvalidKey is returned for key indexes outside of 0x0 to 0xF.
var ErrInvalidKey = errors.New("invalid key index")

// Keypad holds the pressed state of the 16 keys. The host sets and
// clears latches between execution steps, instructions only read them.
type Keypad struct {
	pressed [NumKeys]bool
}

// New returns a keypad with all keys released.
func New() *Keypad {
	return &Keypad{}
}

// Press latches the key as pressed.
func (k *Keypad) Press(key uint8) error {
	if key >= NumKeys {
		return fmt.Errorf("pressing key %d: %w", key, ErrInvalidKey)
	}
	k.pressed[key] = true
	return nil
}

// Release latches the key as released.
func (k *Keypad) Release(key uint8) error {
	if key >= NumKeys {
		return fmt.Errorf("releasing key %d: %w", key, ErrInvalidKey)
	}
	k.pressed[key] = false
	return nil
}

// Down returns whether the key is currently pressed.
// Indexes outside of the keypad read as released.
func (k *Keypad) Down(key uint8) bool {
	return key < NumKeys && k.pressed[key]
}

// Snapshot returns the current state of all key latches.
func (k *Keypad) Snapshot() [NumKeys]bool {
	return k.pressed
}
