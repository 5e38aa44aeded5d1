package display

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDrawSprite(t *testing.T) {
	tests := []struct {
		name      string
		x, y      uint8
		sprite    []byte
		wantLit   [][2]int // x, y pairs expected to be on
		collision bool
	}{
		{
			name:    "single row top left",
			sprite:  []byte{0b10100000},
			wantLit: [][2]int{{0, 0}, {2, 0}},
		},
		{
			name:    "most significant bit leftmost",
			sprite:  []byte{0b10000001},
			wantLit: [][2]int{{0, 0}, {7, 0}},
		},
		{
			name:    "two rows",
			x:       4,
			y:       2,
			sprite:  []byte{0b10000000, 0b01000000},
			wantLit: [][2]int{{4, 2}, {5, 3}},
		},
		{
			name:    "horizontal wrap",
			x:       62,
			sprite:  []byte{0b11110000},
			wantLit: [][2]int{{62, 0}, {63, 0}, {0, 0}, {1, 0}},
		},
		{
			name:    "vertical wrap",
			y:       31,
			sprite:  []byte{0b10000000, 0b10000000},
			wantLit: [][2]int{{0, 31}, {0, 0}},
		},
		{
			name:    "empty sprite",
			sprite:  nil,
			wantLit: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			collision := s.DrawSprite(tt.x, tt.y, tt.sprite)
			assert.Equal(t, tt.collision, collision)

			lit := map[[2]int]bool{}
			for _, p := range tt.wantLit {
				lit[p] = true
			}
			for y := 0; y < Height; y++ {
				for x := 0; x < Width; x++ {
					assert.Equal(t, lit[[2]int{x, y}], s.Pixel(x, y))
				}
			}
		})
	}
}

func TestDrawSpriteCollision(t *testing.T) {
	s := New()

	// first draw on a cleared screen never collides
	collision := s.DrawSprite(0, 0, []byte{0b11000000})
	assert.False(t, collision)

	// overlapping in one pixel collides and clears it
	collision = s.DrawSprite(1, 0, []byte{0b10000000})
	assert.True(t, collision)
	assert.True(t, s.Pixel(0, 0))
	assert.False(t, s.Pixel(1, 0))

	// drawing into cleared pixels only reports no collision
	collision = s.DrawSprite(1, 0, []byte{0b10000000})
	assert.False(t, collision)
	assert.True(t, s.Pixel(1, 0))
}

func TestDrawSpriteCollisionAnyPixel(t *testing.T) {
	// collision is reported even if only the first of many pixels overlaps
	s := New()
	s.DrawSprite(0, 0, []byte{0b10000000})

	collision := s.DrawSprite(0, 0, []byte{0b11111111, 0b11111111})
	assert.True(t, collision)
}

func TestDrawSpriteCollisionMatchesPriorPixels(t *testing.T) {
	// the collision result must equal the OR of "pixel was lit before the
	// XOR" over all sprite pixels, for every height and wrap position
	s := New()
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s.pixels[y][x] = (x*31+y*17)%7 < 3
		}
	}

	for height := 1; height <= 15; height++ {
		sprite := make([]byte, height)
		for row := range sprite {
			sprite[row] = byte(row*0x2B + height*0x11)
		}

		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				expected := false
				for row, bits := range sprite {
					for bit := 0; bit < 8; bit++ {
						if bits&(0x80>>bit) != 0 && s.Pixel(x+bit, y+row) {
							expected = true
						}
					}
				}

				if got := s.DrawSprite(uint8(x), uint8(y), sprite); got != expected {
					t.Fatalf("draw %d rows at %d,%d: collision %v, want %v",
						height, x, y, got, expected)
				}
				// drawing the same sprite again undoes the XOR
				s.DrawSprite(uint8(x), uint8(y), sprite)
			}
		}
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.DrawSprite(10, 10, []byte{0xFF})
	s.Clear()

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			assert.False(t, s.Pixel(x, y))
		}
	}
}

func TestPixelWraps(t *testing.T) {
	s := New()
	s.DrawSprite(0, 0, []byte{0b10000000})

	assert.True(t, s.Pixel(Width, Height))
	assert.True(t, s.Pixel(-Width, -Height))
}

func TestFrameIsACopy(t *testing.T) {
	s := New()
	s.DrawSprite(0, 0, []byte{0b10000000})

	frame := s.Frame()
	assert.Len(t, frame, Height)
	assert.Len(t, frame[0], Width)
	assert.True(t, frame[0][0])

	frame[0][0] = false
	assert.True(t, s.Pixel(0, 0))
}

func TestString(t *testing.T) {
	s := New()
	s.DrawSprite(0, 0, []byte{0b10100000})

	rendered := s.String()
	lines := strings.Split(rendered, "\n")
	assert.Equal(t, "# #", strings.TrimRight(lines[0], " "))
}
