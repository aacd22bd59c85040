package client

import (
	"errors"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StreamDecoder turns successive byte chunks into text. A multi-byte sequence
// cut by a chunk boundary is held back until the rest arrives; invalid bytes
// become U+FFFD.
type StreamDecoder struct {
	t       transform.Transformer
	pending []byte
}

func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{t: unicode.UTF8.NewDecoder()}
}

// Decode returns the text completed by chunk. Pass final=true with the last
// chunk (or nil) to flush anything still held back.
func (d *StreamDecoder) Decode(chunk []byte, final bool) string {
	src := append(d.pending, chunk...)
	d.pending = nil
	if len(src) == 0 {
		return ""
	}

	// Every source byte expands to at most one U+FFFD (3 bytes).
	dst := make([]byte, 3*len(src)+utf8Max)
	nDst, nSrc, err := d.t.Transform(dst, src, final)
	if errors.Is(err, transform.ErrShortSrc) {
		d.pending = append([]byte(nil), src[nSrc:]...)
	}
	if final {
		d.t.Reset()
	}
	return string(dst[:nDst])
}

const utf8Max = 4
