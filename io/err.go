package io

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Program image errors
	ErrRomTooLarge = errors.New(f("rom too large"))
)
