package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamDecoderSplitRune(t *testing.T) {
	d := NewStreamDecoder()

	// 你 is E4 BD A0.
	assert.Equal(t, "", d.Decode([]byte{0xE4, 0xBD}, false))
	assert.Equal(t, "你a", d.Decode([]byte{0xA0, 'a'}, false))
	assert.Equal(t, "", d.Decode(nil, true))
}

func TestStreamDecoderByteAtATime(t *testing.T) {
	d := NewStreamDecoder()
	input := []byte("héllo 世界 👋")

	var out string
	for _, b := range input {
		out += d.Decode([]byte{b}, false)
	}
	out += d.Decode(nil, true)

	assert.Equal(t, "héllo 世界 👋", out)
}

func TestStreamDecoderInvalidBytes(t *testing.T) {
	d := NewStreamDecoder()
	assert.Equal(t, "a\uFFFDb", d.Decode([]byte{'a', 0xFF, 'b'}, false))
}

func TestStreamDecoderFlushIncompleteTail(t *testing.T) {
	d := NewStreamDecoder()
	assert.Equal(t, "x", d.Decode([]byte{'x', 0xE4, 0xBD}, false))
	tail := d.Decode(nil, true)
	assert.True(t, strings.HasPrefix(tail, "\uFFFD"), "tail %q", tail)
	assert.Equal(t, "", d.Decode(nil, true))
}
