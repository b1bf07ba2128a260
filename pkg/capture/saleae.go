package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/soypat/saleae"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

const saleaeMagic = "<SALEAE>"

// ErrNotSaleae is returned for files without the Saleae binary export header.
var ErrNotSaleae = errors.New("capture: not a Saleae binary export")

// SaleaeTrace is one digital channel from a Saleae Logic binary export.
// Times are in seconds.
type SaleaeTrace struct {
	Initial     swd.BitState
	Begin       float64
	End         float64
	Transitions []float64
}

// saleaeHeader and saleaeDigital are the on-disk layout WriteSaleae emits.
type saleaeHeader struct {
	Magic   [8]byte
	Version int32
	Type    int32
}

type saleaeDigital struct {
	Initial        uint32
	Begin          float64
	End            float64
	NumTransitions uint64
}

// ReadSaleae reads a digital channel exported by Saleae Logic 2 in binary
// format.
func ReadSaleae(r io.Reader) (*SaleaeTrace, error) {
	br := bufio.NewReader(r)
	if magic, err := br.Peek(len(saleaeMagic)); err != nil || string(magic) != saleaeMagic {
		return nil, ErrNotSaleae
	}

	df, err := saleae.ReadDigitalFile(br)
	if err != nil {
		return nil, fmt.Errorf("capture: saleae: %w", err)
	}
	return traceFromDigital(df), nil
}

func traceFromDigital(df *saleae.DigitalFile) *SaleaeTrace {
	t := &SaleaeTrace{
		Begin:       df.Header.Begin,
		End:         df.Header.End,
		Transitions: make([]float64, len(df.Data)),
	}
	copy(t.Transitions, df.Data)
	if df.Header.InitialState != 0 {
		t.Initial = swd.High
	}
	return t
}

// ReadSaleaeFile opens and reads one digital channel export.
func ReadSaleaeFile(filename string) (*SaleaeTrace, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("capture: failed to open file: %w", err)
	}
	defer file.Close()
	return ReadSaleae(file)
}

// WriteSaleae writes t as a version 0 digital binary export, the layout
// ReadSaleae accepts.
func WriteSaleae(w io.Writer, t *SaleaeTrace) error {
	bw := bufio.NewWriter(w)
	hdr := saleaeHeader{Version: 0, Type: 0}
	copy(hdr.Magic[:], saleaeMagic)
	d := saleaeDigital{
		Begin:          t.Begin,
		End:            t.End,
		NumTransitions: uint64(len(t.Transitions)),
	}
	if t.Initial == swd.High {
		d.Initial = 1
	}
	for _, v := range []any{hdr, d, t.Transitions} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("capture: saleae write: %w", err)
		}
	}
	return bw.Flush()
}

// Channel converts the trace to sample indices at the given rate, measured
// from origin seconds. Transitions that land on the same sample cancel.
func (t *SaleaeTrace) Channel(name string, origin, sampleRate float64) (*Channel, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("capture: invalid sample rate %g", sampleRate)
	}
	initial := t.Initial
	var edges []int64
	for _, at := range t.Transitions {
		s := int64(math.Round((at - origin) * sampleRate))
		switch {
		case s <= 0:
			if initial == swd.High {
				initial = swd.Low
			} else {
				initial = swd.High
			}
		case len(edges) > 0 && edges[len(edges)-1] == s:
			edges = edges[:len(edges)-1]
		case len(edges) > 0 && edges[len(edges)-1] > s:
			return nil, fmt.Errorf("%w: %s transition at %gs", ErrNonMonotonic, name, at)
		default:
			edges = append(edges, s)
		}
	}
	return NewChannel(name, initial, edges)
}

// SaleaePair converts a clock and data export to channels sharing one time
// origin, the earlier of the two begin times.
func SaleaePair(clk, dio *SaleaeTrace, sampleRate float64) (*Channel, *Channel, error) {
	origin := math.Min(clk.Begin, dio.Begin)
	c, err := clk.Channel("SWCLK", origin, sampleRate)
	if err != nil {
		return nil, nil, err
	}
	d, err := dio.Channel("SWDIO", origin, sampleRate)
	if err != nil {
		return nil, nil, err
	}
	return c, d, nil
}
