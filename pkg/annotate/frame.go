package annotate

import "github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"

// Span is the inclusive sample window a frame covers.
type Span struct {
	Start int64
	End   int64
}

// Frame is one labelled region of the waveform.
type Frame interface {
	Bounds() Span
}

func (s Span) Bounds() Span { return s }

// RequestFrame covers the eight request bits.
type RequestFrame struct {
	Span
	RequestByte uint8
	AccessPort  bool
	Read        bool
	Addr        uint8
	Register    swd.Register
}

// TurnaroundFrame covers a single turnaround bit.
type TurnaroundFrame struct {
	Span
}

// AckFrame covers the three ACK bits.
type AckFrame struct {
	Span
	Ack swd.Ack
}

// DataFrame covers the 32 data bits of an OK transfer.
type DataFrame struct {
	Span
	Value    uint32
	Register swd.Register
}

// ParityFrame covers the data parity bit.
type ParityFrame struct {
	Span
	Value uint8
	OK    bool
}

// TrailingFrame covers the idle bits that followed an operation.
type TrailingFrame struct {
	Span
	Count int
}

// LineResetFrame covers a whole line reset.
type LineResetFrame struct {
	Span
	Bits int
}

func span(bits []swd.Bit) Span {
	return Span{Start: bits[0].StartSample(), End: bits[len(bits)-1].EndSample()}
}
