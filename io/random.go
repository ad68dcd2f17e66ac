package io

import (
	"math/rand"
)

// SeededRandom is a reproducible Random source.
type SeededRandom struct {
	rands *rand.Rand
}

var _ Random = (*SeededRandom)(nil)

// NewSeededRandom creates a byte source from seed.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{
		rands: rand.New(rand.NewSource(seed)),
	}
}

func (sr *SeededRandom) NextByte() uint8 {
	return uint8(sr.rands.Intn(256))
}

// FixedRandom returns its bytes in order, repeating the sequence.
// An empty FixedRandom always returns zero.
type FixedRandom []uint8

func (fr *FixedRandom) NextByte() (value uint8) {
	if len(*fr) == 0 {
		return
	}

	value = (*fr)[0]
	*fr = append((*fr)[1:], value)
	return
}
