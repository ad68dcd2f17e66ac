package io

// Beeper is a headless Buzzer that records tone changes.
type Beeper struct {
	On      bool // Current tone state.
	Changes int  // Number of on/off transitions.
}

var _ Buzzer = (*Beeper)(nil)

func (bp *Beeper) Tone(on bool) {
	if bp.On != on {
		bp.Changes++
	}
	bp.On = on
}
