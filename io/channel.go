// Package io provides the collaborators the CHIP-8 core talks to: the
// display, the hexadecimal keypad, the random byte source and the buzzer,
// along with headless implementations of each, the built-in font set and
// raw program images.
package io

// Display receives drawing requests from the CPU.
type Display interface {
	// Clear blanks the display.
	Clear()
	// DrawSprite XORs an 8-pixel wide sprite, one byte per row, at
	// (x, y) and reports whether any lit pixel was turned off.
	DrawSprite(x, y uint8, sprite []uint8) (collided bool)
}

// Keypad reports the state of the 16-key hexadecimal keypad.
type Keypad interface {
	// IsKeyDown reports whether key (0x0-0xF) is held.
	IsKeyDown(key uint8) bool
	// Events delivers key presses, used to resume a CPU waiting on a key.
	Events() <-chan uint8
}

// Random is a source of uniformly distributed bytes.
type Random interface {
	NextByte() uint8
}

// Buzzer is switched on while the sound timer is non-zero.
type Buzzer interface {
	Tone(on bool)
}
