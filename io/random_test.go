package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededRandom(t *testing.T) {
	assert := assert.New(t)

	a := NewSeededRandom(1234)
	b := NewSeededRandom(1234)

	for range 64 {
		assert.Equal(a.NextByte(), b.NextByte())
	}
}

func TestFixedRandom(t *testing.T) {
	assert := assert.New(t)

	fr := &FixedRandom{0x12, 0x34}
	assert.Equal(uint8(0x12), fr.NextByte())
	assert.Equal(uint8(0x34), fr.NextByte())
	assert.Equal(uint8(0x12), fr.NextByte())

	empty := &FixedRandom{}
	assert.Equal(uint8(0), empty.NextByte())
}

func TestBeeper(t *testing.T) {
	assert := assert.New(t)

	bp := &Beeper{}
	bp.Tone(false)
	assert.Equal(0, bp.Changes)

	bp.Tone(true)
	bp.Tone(true)
	assert.True(bp.On)
	assert.Equal(1, bp.Changes)

	bp.Tone(false)
	assert.False(bp.On)
	assert.Equal(2, bp.Changes)
}
