// Package display implements the monochrome 64x32 framebuffer.
package display

import "strings"

// Framebuffer dimensions in pixels.
const (
	Width  = 64
	Height = 32
)

// Screen is the framebuffer. Pixel coordinates wrap around both edges,
// sprite drawing combines pixels with XOR and reports collisions.
type Screen struct {
	pixels [Height][Width]bool
}

// New returns a cleared screen.
func New() *Screen {
	return &Screen{}
}

// Clear switches all pixels off.
func (s *Screen) Clear() {
	s.pixels = [Height][Width]bool{}
}

// Pixel returns the state of the pixel at the wrapped coordinate.
func (s *Screen) Pixel(x, y int) bool {
	return s.pixels[wrap(y, Height)][wrap(x, Width)]
}

// DrawSprite XORs a sprite into the framebuffer at the given coordinate.
// Each sprite byte is one row of 8 pixels, most significant bit leftmost.
// Every pixel wraps around the screen edges independently. It returns
// true if any lit pixel was switched off by the draw.
func (s *Screen) DrawSprite(x, y uint8, sprite []byte) bool {
	collision := false

	for row, bits := range sprite {
		py := (int(y) + row) % Height
		for bit := 0; bit < 8; bit++ {
			if bits&(0x80>>bit) == 0 {
				continue
			}
			px := (int(x) + bit) % Width
			if s.pixels[py][px] {
				collision = true
			}
			s.pixels[py][px] = !s.pixels[py][px]
		}
	}

	return collision
}

// Frame returns a copy of the framebuffer, rows of Height by columns of Width.
func (s *Screen) Frame() [][]bool {
	frame := make([][]bool, Height)
	for y := range s.pixels {
		row := make([]bool, Width)
		copy(row, s.pixels[y][:])
		frame[y] = row
	}
	return frame
}

// String renders the framebuffer as text, one character per pixel.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(Height * (Width + 1))

	for y := range s.pixels {
		for x := range s.pixels[y] {
			if s.pixels[y][x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// wrap maps a coordinate into [0, limit), supporting negative values.
func wrap(value, limit int) int {
	value %= limit
	if value < 0 {
		value += limit
	}
	return value
}
