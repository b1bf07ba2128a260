package swd

import "errors"

// ErrEmptyBuffer is returned when a bit is requested from a buffer that could
// not be refilled.
var ErrEmptyBuffer = errors.New("swd: bit buffer is empty")

// BitSource produces bits in stream order.
type BitSource interface {
	Next() (Bit, error)
}

// BitBuffer is a FIFO of sampled bits. Bits are appended at the back from
// the source and removed from the front; they are never reordered.
type BitBuffer struct {
	src  BitSource
	bits []Bit
}

// NewBitBuffer creates an empty buffer fed by src.
func NewBitBuffer(src BitSource) *BitBuffer {
	return &BitBuffer{src: src}
}

// Len reports the number of buffered bits.
func (b *BitBuffer) Len() int {
	return len(b.bits)
}

// At returns the i-th buffered bit. The caller must have ensured i < Len().
func (b *BitBuffer) At(i int) Bit {
	return b.bits[i]
}

// Ensure pulls bits from the source until at least n are buffered.
func (b *BitBuffer) Ensure(n int) error {
	for len(b.bits) < n {
		bit, err := b.src.Next()
		if err != nil {
			return err
		}
		b.bits = append(b.bits, bit)
	}
	return nil
}

// PopFront removes and returns the oldest bit. It does not refill the
// buffer.
func (b *BitBuffer) PopFront() (Bit, error) {
	if len(b.bits) == 0 {
		return Bit{}, ErrEmptyBuffer
	}
	bit := b.bits[0]
	b.bits = b.bits[1:]
	return bit, nil
}

// Consume removes the first k bits and returns them in a fresh slice.
func (b *BitBuffer) Consume(k int) []Bit {
	if k > len(b.bits) {
		k = len(b.bits)
	}
	out := make([]Bit, k)
	copy(out, b.bits[:k])
	b.bits = b.bits[k:]
	return out
}
