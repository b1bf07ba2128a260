package swd

import (
	"errors"
	"fmt"
	"io"
)

// Sampler turns SWCLK/SWDIO edges into Bits. The data cursor is always
// synchronised to the clock cursor's position before it is read.
type Sampler struct {
	clk EdgeStream
	dio EdgeStream
}

// NewSampler positions the cursors for sampling. If the clock starts high it
// is advanced to its first falling edge.
func NewSampler(clk, dio EdgeStream) (*Sampler, error) {
	s := &Sampler{clk: clk, dio: dio}
	if clk.Level() == High {
		if err := s.advanceClock(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Position reports the data line's current sample index.
func (s *Sampler) Position() int64 {
	return s.dio.Position()
}

// Next samples one full clock cycle. It returns io.EOF when the capture ends
// before the cycle completes.
func (s *Sampler) Next() (Bit, error) {
	var b Bit

	if s.clk.Level() != Low {
		return b, fmt.Errorf("swd: sampler: clock is high at sample %d", s.clk.Position())
	}

	b.LowStart = s.clk.Position()

	// read one sample ahead of the rising edge
	rise, err := s.clk.NextEdge()
	if err != nil {
		return b, err
	}
	if err := s.clk.AdvanceTo(rise - 1); err != nil {
		return b, err
	}
	if err := s.dio.AdvanceTo(s.clk.Position()); err != nil {
		return b, err
	}
	b.Rising = s.clk.Position()
	b.StateRising = s.dio.Level()

	if err := s.advanceClock(); err != nil {
		return b, err
	}

	// falling edge
	if err := s.advanceClock(); err != nil {
		return b, err
	}
	b.Falling = s.clk.Position()
	b.StateFalling = s.dio.Level()

	end, err := s.clk.NextEdge()
	switch {
	case err == nil:
		b.LowEnd = end
	case errors.Is(err, io.EOF):
		b.LowEnd = b.Falling
	default:
		return b, err
	}

	return b, nil
}

func (s *Sampler) advanceClock() error {
	if err := s.clk.AdvanceToNextEdge(); err != nil {
		return err
	}
	return s.dio.AdvanceTo(s.clk.Position())
}
