// Package swd decodes a Serial Wire Debug stream (SWCLK + SWDIO edges) into
// operations and line resets as described in section 5.3 of the ARM Debug
// Interface v5 Architecture Specification.
//
// # Overview
//
// The package is layered bottom-up:
//   - EdgeStream: a cursor over one line's transitions (see package capture)
//   - Sampler: one Bit per clock cycle, sampled near the rising edge and at
//     the falling edge
//   - BitBuffer: FIFO of sampled bits
//   - Parser: TryOperation / TryLineReset at the head of the buffer, plus the
//     remembered DP SELECT value used for AP bank resolution
//   - Decoder: the resynchronising loop that feeds a Sink
//
// # Usage
//
//	p, err := swd.NewParser(clk, dio)
//	if err != nil {
//		return err
//	}
//	var c swd.Collector
//	if err := swd.NewDecoder(p, &c).Run(ctx); err != nil {
//		return err
//	}
//	for _, op := range c.Operations() {
//		fmt.Println(op)
//	}
//
// # Resynchronisation
//
// When neither an operation nor a line reset can be matched at the head of
// the buffer, exactly one bit is discarded and matching is retried. Framing,
// parity and unknown ACK values are never reported as errors; the only
// errors come from the edge streams. io.EOF ends a session cleanly.
package swd
