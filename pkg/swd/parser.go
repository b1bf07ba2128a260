package swd

// Parser buffers the bits of an SWD stream and recognizes operations and
// line resets at the head of the buffer. It owns the session state: the bit
// buffer and the last value written to DP SELECT.
type Parser struct {
	sampler   *Sampler
	buf       *BitBuffer
	selectReg uint32
}

// NewParser starts a decoding session over the clock and data streams. It
// returns io.EOF when the clock starts high and never falls.
func NewParser(clk, dio EdgeStream) (*Parser, error) {
	s, err := NewSampler(clk, dio)
	if err != nil {
		return nil, err
	}
	return &Parser{
		sampler: s,
		buf:     NewBitBuffer(s),
	}, nil
}

// SelectRegister returns the remembered DP SELECT value.
func (p *Parser) SelectRegister() uint32 {
	return p.selectReg
}

// Buffered reports how many sampled bits are waiting to be decided.
func (p *Parser) Buffered() int {
	return p.buf.Len()
}

// Position reports the data line's current sample index.
func (p *Parser) Position() int64 {
	return p.sampler.Position()
}

// PopFrontBit discards the oldest buffered bit and returns it.
func (p *Parser) PopFrontBit() (Bit, error) {
	return p.buf.PopFront()
}

// TryOperation checks whether the buffer starts with a valid operation. On a
// match the operation's bits are consumed. A mismatch returns (nil, nil) and
// leaves the buffer untouched; errors come only from the edge streams.
func (p *Parser) TryOperation() (*Operation, error) {
	if err := p.buf.Ensure(RequestAckBits); err != nil {
		return nil, err
	}

	op := &Operation{}
	for i := 0; i < 8; i++ {
		op.RequestByte >>= 1
		if p.buf.At(i).IsHigh(true) {
			op.RequestByte |= 0x80
		}
	}

	// start, stop and park
	if op.RequestByte&0xC1 != 0x81 {
		return nil, nil
	}

	op.AccessPort = op.RequestByte&0x02 != 0
	op.Read = op.RequestByte&0x04 != 0
	op.Addr = (op.RequestByte & 0x18) >> 1
	if op.RequestByte&0x20 != 0 {
		op.ParityRead = 1
	}

	var check uint8
	for i := 1; i <= 4; i++ {
		if p.buf.At(i).IsHigh(true) {
			check++
		}
	}
	if op.ParityRead != check&1 {
		return nil, nil
	}

	op.Register = ResolveRegister(op.AccessPort, op.Read, op.Addr, p.selectReg)

	for i := 0; i < 3; i++ {
		if p.buf.At(9 + i).IsHigh(true) {
			op.Ack |= 1 << i
		}
	}

	switch op.Ack {
	case AckWait, AckFault:
		op.Bits = p.buf.Consume(RequestAckBits)
		return op, nil
	case AckOK:
	default:
		return nil, nil
	}

	// reads are sampled as the host sees them, writes as the host drives them
	rising := op.Read
	if err := p.buf.Ensure(op.Length()); err != nil {
		return nil, err
	}

	start := op.DataIndex()
	for i := 0; i < 32; i++ {
		if p.buf.At(start + i).IsHigh(rising) {
			op.Data |= 1 << i
		}
	}
	if p.buf.At(start + 32).IsHigh(rising) {
		op.DataParity = 1
	}
	op.DataParityOK = op.DataParity == parity32(op.Data)
	if !op.DataParityOK {
		return nil, nil
	}

	// trailing low bits belong to this operation; the next high bit is
	// probably the start bit of whatever follows
	n := op.Length()
	for {
		if err := p.buf.Ensure(n + 1); err != nil {
			return nil, err
		}
		if p.buf.At(n).IsHigh(rising) {
			break
		}
		n++
	}

	if op.Register == RegDPSELECT && !op.Read {
		p.selectReg = op.Data
	}

	op.Bits = p.buf.Consume(n)
	return op, nil
}

// TryLineReset checks whether the buffer starts with at least 50 high bits.
// On a match every consecutive high bit is consumed and the terminating low
// bit stays buffered. A mismatch returns (nil, nil) without consuming.
func (p *Parser) TryLineReset() (*LineReset, error) {
	n := 0
	for {
		if err := p.buf.Ensure(n + 1); err != nil {
			return nil, err
		}
		if !p.buf.At(n).IsHigh(true) {
			break
		}
		n++
	}
	if n < LineResetMinBits {
		return nil, nil
	}
	return &LineReset{Bits: p.buf.Consume(n)}, nil
}
