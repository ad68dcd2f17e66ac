package cpu

// State is the execution state of the cycle driver.
type State int

//go:generate go tool stringer -linecomment -type=State

const (
	STATE_RUNNING      = State(iota) // running
	STATE_AWAITING_KEY               // awaiting key
	STATE_HALTED                     // halted
)
