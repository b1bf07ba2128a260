package annotate

import "github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"

// OperationFrames splits op into request, turnaround, ACK and, for OK
// transfers, data and parity frames. Trailing bits get one frame of their
// own.
func OperationFrames(op *swd.Operation) []Frame {
	if len(op.Bits) < swd.RequestAckBits {
		return nil
	}
	b := op.Bits

	frames := []Frame{
		&RequestFrame{
			Span:        span(b[0:8]),
			RequestByte: op.RequestByte,
			AccessPort:  op.AccessPort,
			Read:        op.Read,
			Addr:        op.Addr,
			Register:    op.Register,
		},
		&TurnaroundFrame{Span: span(b[8:9])},
		&AckFrame{Span: span(b[9:12]), Ack: op.Ack},
	}
	if !op.HasData() || len(b) < op.Length() {
		return appendTrailing(frames, op)
	}

	i := op.DataIndex()
	if !op.Read {
		frames = append(frames, &TurnaroundFrame{Span: span(b[12:13])})
	}
	frames = append(frames,
		&DataFrame{Span: span(b[i : i+32]), Value: op.Data, Register: op.Register},
		&ParityFrame{Span: span(b[i+32 : i+33]), Value: op.DataParity, OK: op.DataParityOK},
	)
	return appendTrailing(frames, op)
}

func appendTrailing(frames []Frame, op *swd.Operation) []Frame {
	if trail := op.TrailingBits(); len(trail) > 0 {
		frames = append(frames, &TrailingFrame{Span: span(trail), Count: len(trail)})
	}
	return frames
}

// LineResetFrames returns the single frame covering r.
func LineResetFrames(r *swd.LineReset) []Frame {
	if len(r.Bits) == 0 {
		return nil
	}
	return []Frame{&LineResetFrame{Span: span(r.Bits), Bits: len(r.Bits)}}
}
