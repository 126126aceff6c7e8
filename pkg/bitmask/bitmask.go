// Package bitmask implements the presence mask that prefixes every encoded
// message: a fixed-capacity bit vector sized in 32-bit words, with a pool
// keyed by word-count for reuse on the hot encode/decode path.
package bitmask

import (
	"fmt"

	"github.com/bitrpc/bitrpc/pkg/wire"
)

// Mask is a vector of w 32-bit words, addressed bit-by-bit. Its wire form is
// exactly w little-endian u32s; the word count itself is never carried on
// the wire, since it is implicit from the message schema.
type Mask struct {
	words []uint32
}

// NewMask allocates a zeroed mask with room for w words (32*w bits).
// Most callers should prefer acquiring one from a Pool instead.
func NewMask(w int) *Mask {
	return &Mask{words: make([]uint32, w)}
}

// Words reports the mask's word count.
func (m *Mask) Words() int {
	return len(m.words)
}

// Set sets or clears bit i (0-based). i must be less than Words()*32; an
// out-of-range index is a programming error in the generated codec, not a
// peer-induced failure, so it panics rather than returning an error.
func (m *Mask) Set(i int, v bool) {
	word, bit := i/32, uint(i%32)
	if word < 0 || word >= len(m.words) {
		panic(fmt.Sprintf("bitmask: bit %d out of range for %d words", i, len(m.words)))
	}
	if v {
		m.words[word] |= 1 << bit
	} else {
		m.words[word] &^= 1 << bit
	}
}

// Get reads bit i (0-based).
func (m *Mask) Get(i int) bool {
	word, bit := i/32, uint(i%32)
	if word < 0 || word >= len(m.words) {
		panic(fmt.Sprintf("bitmask: bit %d out of range for %d words", i, len(m.words)))
	}
	return m.words[word]&(1<<bit) != 0
}

// Reset zeroes every bit without changing the word count.
func (m *Mask) Reset() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// Write emits exactly Words() little-endian u32s, in word order.
func (m *Mask) Write(w *wire.StreamWriter) {
	for _, word := range m.words {
		w.WriteU32(word)
	}
}

// Read consumes exactly Words() u32s, overwriting the mask's contents.
func (m *Mask) Read(r *wire.StreamReader) error {
	for i := range m.words {
		word, err := r.ReadU32()
		if err != nil {
			return err
		}
		m.words[i] = word
	}
	return nil
}

// WordsForFields returns ceil(n/32), the number of mask words a message
// with n fields requires.
func WordsForFields(n int) int {
	return (n + 31) / 32
}
