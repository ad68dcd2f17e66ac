package io

import (
	"sync"
)

const (
	KEY_COUNT        = 16 // Keys on the hexadecimal keypad.
	KEY_EVENT_BUFFER = 16 // Pending key presses before new ones are dropped.
)

// HexKeypad is a Keypad driven by the host through Press and Release.
// It is safe to drive from a goroutine other than the one running the CPU.
type HexKeypad struct {
	mutex  sync.Mutex
	down   [KEY_COUNT]bool
	events chan uint8
}

var _ Keypad = (*HexKeypad)(nil)

// NewHexKeypad creates a keypad with no keys held.
func NewHexKeypad() (kp *HexKeypad) {
	kp = &HexKeypad{
		events: make(chan uint8, KEY_EVENT_BUFFER),
	}

	return
}

// Reset releases all keys and discards pending presses.
func (kp *HexKeypad) Reset() {
	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	clear(kp.down[:])
	for {
		select {
		case <-kp.events:
		default:
			return
		}
	}
}

// Press marks key as held and queues a key press event.
// Returns false if the event queue was full and the event was dropped.
func (kp *HexKeypad) Press(key uint8) (queued bool) {
	key &= KEY_COUNT - 1

	kp.mutex.Lock()
	kp.down[key] = true
	kp.mutex.Unlock()

	select {
	case kp.events <- key:
		queued = true
	default:
	}

	return
}

// Release marks key as no longer held.
func (kp *HexKeypad) Release(key uint8) {
	key &= KEY_COUNT - 1

	kp.mutex.Lock()
	kp.down[key] = false
	kp.mutex.Unlock()
}

// IsKeyDown reports whether key is held.
func (kp *HexKeypad) IsKeyDown(key uint8) bool {
	if int(key) >= KEY_COUNT {
		return false
	}

	kp.mutex.Lock()
	defer kp.mutex.Unlock()

	return kp.down[key]
}

// Events returns the key press event channel.
func (kp *HexKeypad) Events() <-chan uint8 {
	return kp.events
}
