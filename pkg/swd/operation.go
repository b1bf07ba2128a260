package swd

import (
	"fmt"
	"math/bits"
)

// Bit counts of the fixed-shape parts of an operation.
const (
	RequestAckBits = 8 + 1 + 3               // request, turnaround, ACK
	ReadBits       = RequestAckBits + 32 + 1 // + data, parity
	WriteBits      = ReadBits + 1            // + turnaround before the data phase

	// LineResetMinBits is the number of consecutive high bits that make a
	// line reset.
	LineResetMinBits = 50
)

// Ack is the 3-bit acknowledge returned by the target.
type Ack uint8

const (
	AckOK    Ack = 1
	AckWait  Ack = 2
	AckFault Ack = 4
)

func (a Ack) String() string {
	switch a {
	case AckOK:
		return "OK"
	case AckWait:
		return "WAIT"
	case AckFault:
		return "FAULT"
	}
	return "<disc>"
}

// Known reports whether a is one of OK, WAIT or FAULT.
func (a Ack) Known() bool {
	return a == AckOK || a == AckWait || a == AckFault
}

// Operation is one SWD transaction, ADIv5 §5.3.
type Operation struct {
	AccessPort bool
	Read       bool
	Addr       uint8 // A[3:2]: 0x0, 0x4, 0x8 or 0xC
	ParityRead uint8

	RequestByte uint8

	Ack Ack

	// Data and the parity fields are only meaningful when HasData is true.
	Data         uint32
	DataParity   uint8
	DataParityOK bool

	Register Register

	// Bits holds every bit of the operation including trailing padding.
	Bits []Bit
}

func (*Operation) isEvent() {}

// HasData reports whether the operation carried a data phase.
func (o *Operation) HasData() bool {
	return o.Ack == AckOK
}

// DataIndex is the index in Bits of the first data bit.
func (o *Operation) DataIndex() int {
	if o.Read {
		return RequestAckBits
	}
	return RequestAckBits + 1
}

// Length is the number of bits in the fixed-shape part of the operation.
func (o *Operation) Length() int {
	switch {
	case !o.HasData():
		return RequestAckBits
	case o.Read:
		return ReadBits
	default:
		return WriteBits
	}
}

// TrailingBits returns the low padding bits that followed the operation.
func (o *Operation) TrailingBits() []Bit {
	if n := o.Length(); len(o.Bits) > n {
		return o.Bits[n:]
	}
	return nil
}

// Start is the first sample of the operation's display window.
func (o *Operation) Start() int64 {
	if len(o.Bits) == 0 {
		return 0
	}
	return o.Bits[0].StartSample()
}

// End is the last sample of the operation's display window.
func (o *Operation) End() int64 {
	if len(o.Bits) == 0 {
		return 0
	}
	return o.Bits[len(o.Bits)-1].EndSample()
}

func (o *Operation) String() string {
	port := "DP"
	if o.AccessPort {
		port = "AP"
	}
	dir := "W"
	if o.Read {
		dir = "R"
	}
	s := fmt.Sprintf("%s %s 0x%X %s ack=%s", port, dir, o.Addr, o.Register, o.Ack)
	if o.HasData() {
		s += fmt.Sprintf(" data=0x%08X", o.Data)
	}
	return s
}

// Markers returns one timing marker per bit: turnaround bits are marked
// between their edges, host-driven bits at the falling edge and
// target-driven bits at the rising sample.
func (o *Operation) Markers() []Marker {
	markers := make([]Marker, 0, len(o.Bits))
	for i, b := range o.Bits {
		switch {
		case i == 8 || (i == 12 && !o.Read):
			markers = append(markers, Marker{
				Sample: (b.Rising + b.Falling) / 2,
				Kind:   MarkerTurnaround,
				Index:  i,
			})
		case i < 8 || (i > 12 && !o.Read):
			markers = append(markers, Marker{
				Sample: b.Falling,
				Kind:   markerFor(b.StateFalling),
				Index:  i,
			})
		default:
			markers = append(markers, Marker{
				Sample: b.Rising,
				Kind:   markerFor(b.StateRising),
				Index:  i,
			})
		}
	}
	return markers
}

// LineReset is a run of at least 50 high bits.
type LineReset struct {
	Bits []Bit
}

func (*LineReset) isEvent() {}

// Start is the first sample of the reset's display window.
func (r *LineReset) Start() int64 {
	if len(r.Bits) == 0 {
		return 0
	}
	return r.Bits[0].StartSample()
}

// End is the last sample of the reset's display window.
func (r *LineReset) End() int64 {
	if len(r.Bits) == 0 {
		return 0
	}
	return r.Bits[len(r.Bits)-1].EndSample()
}

func parity32(v uint32) uint8 {
	return uint8(bits.OnesCount32(v) & 1)
}
