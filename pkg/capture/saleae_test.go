package capture

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

func TestSaleaeRoundTrip(t *testing.T) {
	in := &SaleaeTrace{
		Initial:     swd.High,
		Begin:       0.5,
		End:         0.6,
		Transitions: []float64{0.51, 0.52, 0.53},
	}
	var buf bytes.Buffer
	if err := WriteSaleae(&buf, in); err != nil {
		t.Fatalf("WriteSaleae: %v", err)
	}
	out, err := ReadSaleae(&buf)
	if err != nil {
		t.Fatalf("ReadSaleae: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSaleaeRejectsOtherFiles(t *testing.T) {
	_, err := ReadSaleae(bytes.NewReader([]byte("not a saleae export at all")))
	if !errors.Is(err, ErrNotSaleae) {
		t.Fatalf("ReadSaleae = %v, want ErrNotSaleae", err)
	}
}

func TestSaleaePairSharesOrigin(t *testing.T) {
	clk := &SaleaeTrace{
		Initial:     swd.Low,
		Begin:       1.0,
		Transitions: []float64{1.001, 1.002, 1.003},
	}
	dio := &SaleaeTrace{
		Initial: swd.Low,
		Begin:   0.999,
		// the last two land on the same sample and cancel
		Transitions: []float64{1.0015, 1.0030, 1.00301},
	}

	c, d, err := SaleaePair(clk, dio, 10000)
	if err != nil {
		t.Fatalf("SaleaePair: %v", err)
	}
	if diff := cmp.Diff([]int64{20, 30, 40}, c.Edges()); diff != "" {
		t.Errorf("clk edges mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{25}, d.Edges()); diff != "" {
		t.Errorf("dio edges mismatch (-want +got):\n%s", diff)
	}

	if _, _, err := SaleaePair(clk, dio, 0); err == nil {
		t.Error("zero sample rate accepted")
	}
}

func TestReadSaleaeTruncated(t *testing.T) {
	in := &SaleaeTrace{Begin: 0, End: 1, Transitions: []float64{0.1, 0.2, 0.3, 0.4}}
	var buf bytes.Buffer
	if err := WriteSaleae(&buf, in); err != nil {
		t.Fatalf("WriteSaleae: %v", err)
	}
	// drop the last transition
	short := buf.Bytes()[:buf.Len()-8]
	_, err := ReadSaleae(bytes.NewReader(short))
	if err == nil {
		t.Fatal("truncated export read without error")
	}
	if errors.Is(err, ErrNotSaleae) {
		t.Fatalf("truncated export reported as %v", err)
	}
}

func TestSaleaeDecodesInitialLevel(t *testing.T) {
	for _, initial := range []swd.BitState{swd.Low, swd.High} {
		var buf bytes.Buffer
		if err := WriteSaleae(&buf, &SaleaeTrace{Initial: initial, End: 1, Transitions: []float64{0.5}}); err != nil {
			t.Fatalf("WriteSaleae: %v", err)
		}
		tr, err := ReadSaleae(&buf)
		if err != nil {
			t.Fatalf("ReadSaleae: %v", err)
		}
		c, err := tr.Channel("SWDIO", 0, 100)
		if err != nil {
			t.Fatalf("Channel: %v", err)
		}
		if c.Initial() != initial || len(c.Edges()) != 1 || c.Edges()[0] != 50 {
			t.Errorf("initial %s: got level %s edges %v", initial, c.Initial(), c.Edges())
		}
	}
}
