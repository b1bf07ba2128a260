package swd

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Stats counts what a decoding session has seen so far.
type Stats struct {
	Operations    int
	Acks          map[Ack]int
	LineResets    int
	DiscardedBits int
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for resync and session messages.
func WithLogger(l log.FieldLogger) Option {
	return func(d *Decoder) { d.log = l }
}

// WithDiscardHandler registers a callback for every bit dropped while
// resynchronising.
func WithDiscardHandler(fn func(Bit)) Option {
	return func(d *Decoder) { d.onDiscard = fn }
}

// Decoder drives a Parser over the whole stream and forwards everything it
// recognizes to a Sink.
type Decoder struct {
	parser    *Parser
	sink      Sink
	log       log.FieldLogger
	onDiscard func(Bit)
	stats     Stats
}

// NewDecoder creates a decoder for the parser's session.
func NewDecoder(p *Parser, sink Sink, opts ...Option) *Decoder {
	d := &Decoder{
		parser: p,
		sink:   sink,
		log:    log.StandardLogger(),
		stats:  Stats{Acks: make(map[Ack]int)},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Stats returns a snapshot of the session counters.
func (d *Decoder) Stats() Stats {
	s := d.stats
	s.Acks = make(map[Ack]int, len(d.stats.Acks))
	for k, v := range d.stats.Acks {
		s.Acks[k] = v
	}
	return s
}

// Run decodes until the edge streams are exhausted or ctx is cancelled. At
// the end of the capture any bits that did not form an operation or line
// reset are dropped and Run returns nil.
func (d *Decoder) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := d.step(); err != nil {
			if errors.Is(err, io.EOF) {
				d.log.WithFields(log.Fields{
					"operations": d.stats.Operations,
					"resets":     d.stats.LineResets,
					"discarded":  d.stats.DiscardedBits,
					"pending":    d.parser.Buffered(),
				}).Debug("end of capture")
				return nil
			}
			return err
		}

		d.sink.Progress(d.parser.Position())
	}
}

func (d *Decoder) step() error {
	op, err := d.parser.TryOperation()
	if err != nil {
		return err
	}
	if op != nil {
		return d.emitOperation(op)
	}

	reset, err := d.parser.TryLineReset()
	if err != nil {
		return err
	}
	if reset != nil {
		d.stats.LineResets++
		d.log.WithFields(log.Fields{
			"sample": reset.Start(),
			"bits":   len(reset.Bits),
		}).Debug("line reset")
		if err := d.sink.LineReset(reset); err != nil {
			return fmt.Errorf("swd: sink: %w", err)
		}
		return nil
	}

	bit, err := d.parser.PopFrontBit()
	if err != nil {
		return err
	}
	d.stats.DiscardedBits++
	if d.onDiscard != nil {
		d.onDiscard(bit)
	}
	d.log.WithField("sample", bit.Rising).Trace("discarded bit")
	return nil
}

func (d *Decoder) emitOperation(op *Operation) error {
	d.stats.Operations++
	d.stats.Acks[op.Ack]++

	if op.Register == RegDPSELECT && !op.Read {
		d.log.WithFields(log.Fields{
			"sample": op.Start(),
			"select": fmt.Sprintf("0x%08X", op.Data),
		}).Debug("SELECT written")
	}

	if err := d.sink.Operation(op); err != nil {
		return fmt.Errorf("swd: sink: %w", err)
	}
	for _, m := range op.Markers() {
		if err := d.sink.Marker(m); err != nil {
			return fmt.Errorf("swd: sink: %w", err)
		}
	}
	return nil
}
