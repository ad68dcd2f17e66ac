package memory

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrAddressOutOfRange = errors.New(f("address out of range"))
)

// ErrAddress reports an access to the range [From, To) that escapes
// the addressable memory.
type ErrAddress struct {
	From int
	To   int
}

func (ea *ErrAddress) Error() string {
	if ea.To-ea.From <= 1 {
		return f("address 0x%04x out of range", ea.From)
	}
	return f("address range 0x%04x-0x%04x out of range", ea.From, ea.To-1)
}

func (ea *ErrAddress) Is(err error) bool {
	return err == ErrAddressOutOfRange
}
