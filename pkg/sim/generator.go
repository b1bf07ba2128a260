package sim

import (
	"fmt"
	"math/bits"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// Config controls the waveform timing.
type Config struct {
	HalfPeriod int64 // samples per clock phase (default: 4, minimum 2)
	StartIdle  int   // idle low cycles emitted before anything else (default: 2)
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		HalfPeriod: 4,
		StartIdle:  2,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.HalfPeriod < 2 {
		return fmt.Errorf("sim: half period %d is shorter than 2 samples", c.HalfPeriod)
	}
	if c.StartIdle < 0 {
		return fmt.Errorf("sim: negative start idle %d", c.StartIdle)
	}
	return nil
}

// Transaction is one host request and the target's answer.
type Transaction struct {
	AccessPort bool
	Read       bool
	Addr       uint8   // 0x0, 0x4, 0x8 or 0xC
	Data       uint32  // written by the host or returned by the target
	Ack        swd.Ack // zero means OK
	Trailing   int     // idle low cycles after the transaction

	// CorruptParity inverts the data parity bit.
	CorruptParity bool
}

// RequestByte returns the request as sent on the wire, LSB first: start,
// APnDP, RnW, A[2:3], parity, stop, park.
func (t Transaction) RequestByte() uint8 {
	req := uint8(0x81)
	if t.AccessPort {
		req |= 0x02
	}
	if t.Read {
		req |= 0x04
	}
	req |= (t.Addr & 0x0C) << 1
	if parity8(req&0x1E) != 0 {
		req |= 0x20
	}
	return req
}

type cycle struct {
	rising  bool // SWDIO one sample before the rising edge
	falling bool // SWDIO at the falling edge
}

// Generator builds SWCLK/SWDIO waveforms one clock cycle at a time. Each
// cycle is HalfPeriod samples low then HalfPeriod samples high; SWDIO moves
// one sample after the cycle starts.
type Generator struct {
	cfg    Config
	cycles []cycle
	reset  bool // the last thing appended was a line reset
}

// NewGenerator creates a generator. A nil cfg uses DefaultConfig.
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{cfg: *cfg}
	g.Idle(cfg.StartIdle)
	return g, nil
}

// Len reports the number of generated cycles.
func (g *Generator) Len() int {
	return len(g.cycles)
}

// HalfPeriod returns the configured clock phase length in samples.
func (g *Generator) HalfPeriod() int64 {
	return g.cfg.HalfPeriod
}

// Bits appends cycles with stable data.
func (g *Generator) Bits(values ...bool) {
	for _, v := range values {
		g.cycles = append(g.cycles, cycle{rising: v, falling: v})
	}
	if len(values) > 0 {
		g.reset = false
	}
}

// Cycle appends one cycle whose data changes between the rising sample and
// the falling edge.
func (g *Generator) Cycle(rising, falling bool) {
	g.cycles = append(g.cycles, cycle{rising: rising, falling: falling})
	g.reset = false
}

// Idle appends n low cycles.
func (g *Generator) Idle(n int) {
	for i := 0; i < n; i++ {
		g.Bits(false)
	}
}

// LineReset appends n high cycles. n <= 0 uses the minimum of 50.
func (g *Generator) LineReset(n int) {
	if n <= 0 {
		n = swd.LineResetMinBits
	}
	for i := 0; i < n; i++ {
		g.Bits(true)
	}
	g.reset = true
}

// Transaction appends the cycles of one request: the request byte, a
// turnaround, the ACK and, for OK, the data phase.
func (g *Generator) Transaction(t Transaction) error {
	switch t.Addr {
	case 0x0, 0x4, 0x8, 0xC:
	default:
		return fmt.Errorf("sim: invalid address 0x%X", t.Addr)
	}
	ack := t.Ack
	if ack == 0 {
		ack = swd.AckOK
	}
	if ack > 7 {
		return fmt.Errorf("sim: ack %d does not fit in 3 bits", ack)
	}
	if t.Trailing < 0 {
		return fmt.Errorf("sim: negative trailing count %d", t.Trailing)
	}

	g.word(uint32(t.RequestByte()), 8)
	g.Bits(false) // turnaround
	g.word(uint32(ack), 3)

	if ack == swd.AckOK {
		parity := parity32(t.Data)
		if t.CorruptParity {
			parity ^= 1
		}
		if !t.Read {
			g.Bits(false) // turnaround back to the host
		}
		g.word(t.Data, 32)
		g.Bits(parity != 0)
		if t.Read {
			g.Bits(false)
		}
	}

	g.Idle(t.Trailing)
	return nil
}

func (g *Generator) word(v uint32, n int) {
	for i := 0; i < n; i++ {
		g.Bits(v&(1<<i) != 0)
	}
}

// Channels renders the waveform. One closing cycle is appended so that the
// final item is delimited: low after a line reset, high otherwise.
func (g *Generator) Channels() (*capture.Channel, *capture.Channel, error) {
	cycles := g.closed()

	h := g.cfg.HalfPeriod
	clkEdges := make([]int64, 0, 2*len(cycles))
	var dioEdges []int64
	level := false
	for i, c := range cycles {
		lowStart := int64(i) * 2 * h
		rise := lowStart + h
		clkEdges = append(clkEdges, rise, rise+h)

		if c.rising != level {
			dioEdges = append(dioEdges, lowStart+1)
			level = c.rising
		}
		if c.falling != level {
			dioEdges = append(dioEdges, rise+1)
			level = c.falling
		}
	}

	clk, err := capture.NewChannel("SWCLK", swd.Low, clkEdges)
	if err != nil {
		return nil, nil, err
	}
	dio, err := capture.NewChannel("SWDIO", swd.Low, dioEdges)
	if err != nil {
		return nil, nil, err
	}
	return clk, dio, nil
}

func (g *Generator) closed() []cycle {
	n := len(g.cycles)
	if n == 0 {
		return nil
	}
	end := !g.reset
	return append(g.cycles[:n:n], cycle{rising: end, falling: end})
}

func parity8(v uint8) uint8 {
	return uint8(bits.OnesCount8(v) & 1)
}

func parity32(v uint32) uint8 {
	return uint8(bits.OnesCount32(v) & 1)
}
