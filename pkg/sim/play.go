package sim

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/script"
)

// Play appends every command of a scenario script.
func (g *Generator) Play(s *script.Script) error {
	for _, c := range s.Commands {
		switch {
		case c.Reset != nil:
			n := 0
			if c.Reset.Cycles != nil {
				n = int(*c.Reset.Cycles)
			}
			g.LineReset(n)

		case c.Idle != nil:
			g.Idle(int(c.Idle.Cycles))

		case c.Bits != nil:
			vals, err := c.Bits.Values()
			if err != nil {
				return fmt.Errorf("sim: line %d: %w", c.Pos.Line, err)
			}
			g.Bits(vals...)

		case c.Transfer != nil:
			tr := c.Transfer
			addr, _, err := tr.Target()
			if err != nil {
				return fmt.Errorf("sim: line %d: %w", c.Pos.Line, err)
			}
			err = g.Transaction(Transaction{
				AccessPort:    tr.AccessPort(),
				Read:          tr.Read(),
				Addr:          addr,
				Data:          tr.Value(),
				Ack:           tr.Ack(),
				Trailing:      tr.Trailing(),
				CorruptParity: tr.CorruptParity(),
			})
			if err != nil {
				return fmt.Errorf("sim: line %d: %w", c.Pos.Line, err)
			}
		}
	}
	log.WithField("cycles", g.Len()).Debug("scenario played")
	return nil
}

// Feed streams the rendered waveform into a pair of live channels,
// chunkCycles clock cycles at a time, then closes them. It returns early if
// ctx is cancelled.
func (g *Generator) Feed(ctx context.Context, clk, dio *capture.LiveChannel, chunkCycles int) error {
	defer clk.Close()
	defer dio.Close()

	c, d, err := g.Channels()
	if err != nil {
		return err
	}
	if chunkCycles < 1 {
		chunkCycles = 1
	}

	span := 2 * g.cfg.HalfPeriod * int64(chunkCycles)
	clkEdges, dioEdges := c.Edges(), d.Edges()
	for upTo := span; ; upTo += span {
		if err := ctx.Err(); err != nil {
			return err
		}

		var ce, de []int64
		ce, clkEdges = splitEdges(clkEdges, upTo)
		de, dioEdges = splitEdges(dioEdges, upTo)
		if err := clk.Extend(upTo, ce...); err != nil {
			return err
		}
		if err := dio.Extend(upTo, de...); err != nil {
			return err
		}
		if len(clkEdges) == 0 && len(dioEdges) == 0 {
			return nil
		}
	}
}

func splitEdges(edges []int64, upTo int64) (head, rest []int64) {
	i := 0
	for i < len(edges) && edges[i] <= upTo {
		i++
	}
	return edges[:i], edges[i:]
}
