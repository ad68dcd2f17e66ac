package emulator

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/chip8/cpu"
)

// Run executes the machine until it halts or ctx is done.
//
// Instructions are executed at ClockHz and the timers are stepped at
// TIMER_HZ. Key presses from the CPU's Keypad resume a CPU that is awaiting a
// key. Pump, if set, runs concurrently and is cancelled when the machine
// stops. Run returns the first error from either.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	grp, ctx := errgroup.WithContext(ctx)

	if emu.Pump != nil {
		grp.Go(func() error {
			return emu.Pump(ctx)
		})
	}

	grp.Go(func() error {
		return emu.loop(ctx)
	})

	err = grp.Wait()
	return
}

// loop is the machine goroutine. It is the only goroutine that touches
// the CPU while Run is active.
func (emu *Emulator) loop(ctx context.Context) (err error) {
	hz := emu.ClockHz
	if hz <= 0 {
		hz = CLOCK_HZ
	}

	clock := time.NewTicker(max(time.Second/time.Duration(hz), time.Nanosecond))
	defer clock.Stop()

	timer := time.NewTicker(time.Second / TIMER_HZ)
	defer timer.Stop()

	// A nil channel never delivers, so a machine without a keypad
	// simply waits forever on LD Vx, K.
	var keys <-chan uint8
	if emu.Keypad != nil {
		keys = emu.Keypad.Events()
	}

	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		case key := <-keys:
			if emu.State != cpu.STATE_AWAITING_KEY {
				continue
			}
			if emu.Verbose {
				log.Printf("emulator: key %X", key)
			}
			err = emu.Resume(key)
			if err != nil {
				return
			}
		case <-timer.C:
			emu.TickTimers()
		case <-clock.C:
			err = emu.Tick()
			if err != nil {
				return
			}
		}
	}
}
