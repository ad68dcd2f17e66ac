package io

import (
	"strings"
)

const (
	SCREEN_WIDTH  = 64 // Pixels per row.
	SCREEN_HEIGHT = 32 // Rows.
)

// Screen is a headless monochrome Display. Row bits are stored MSB first,
// so pixel (0, y) is bit 63 of Rows[y].
type Screen struct {
	Rows   [SCREEN_HEIGHT]uint64
	Clears int // Number of Clear() calls.
	Draws  int // Number of DrawSprite() calls.
}

var _ Display = (*Screen)(nil)

func (scr *Screen) Clear() {
	clear(scr.Rows[:])
	scr.Clears++
}

// DrawSprite draws with the sprite origin wrapped onto the screen, and
// sprite pixels beyond the right or bottom edge clipped.
func (scr *Screen) DrawSprite(x, y uint8, sprite []uint8) (collided bool) {
	scr.Draws++

	col := int(x) % SCREEN_WIDTH
	row := int(y) % SCREEN_HEIGHT

	for n, bits := range sprite {
		if row+n >= SCREEN_HEIGHT {
			break
		}
		line := (uint64(bits) << 56) >> col
		if scr.Rows[row+n]&line != 0 {
			collided = true
		}
		scr.Rows[row+n] ^= line
	}

	return
}

// Pixel reports whether pixel (x, y) is lit.
func (scr *Screen) Pixel(x, y int) bool {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		return false
	}
	return (scr.Rows[y]>>(SCREEN_WIDTH-1-x))&1 == 1
}

// String renders the screen with '#' for lit and '.' for dark pixels.
func (scr *Screen) String() string {
	var sb strings.Builder
	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			if scr.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
