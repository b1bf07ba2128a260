package capture

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

func TestLiveChannelFollowsProducer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l := NewLiveChannel(ctx, "clk", swd.Low)
	go func() {
		for _, e := range []int64{10, 20, 30} {
			if err := l.Extend(e, e); err != nil {
				t.Errorf("Extend(%d): %v", e, err)
				return
			}
		}
		l.Close()
	}()

	var got []int64
	for {
		if err := l.AdvanceToNextEdge(); err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("AdvanceToNextEdge: %v", err)
			}
			break
		}
		got = append(got, l.Position())
	}
	if len(got) != 3 || got[0] != 10 || got[2] != 30 {
		t.Fatalf("edges = %v, want [10 20 30]", got)
	}
	if l.Level() != swd.High {
		t.Fatalf("level after three toggles = %s, want 1", l.Level())
	}
}

func TestLiveChannelAdvanceToWaitsForCoverage(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l := NewLiveChannel(ctx, "dio", swd.Low)
	done := make(chan error, 1)
	go func() { done <- l.AdvanceTo(50) }()

	if err := l.Extend(40, 15); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	select {
	case err := <-done:
		t.Fatalf("AdvanceTo(50) returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	if err := l.Extend(60); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("AdvanceTo(50): %v", err)
	}
	if l.Level() != swd.High || l.Position() != 50 {
		t.Fatalf("state = %s@%d, want 1@50", l.Level(), l.Position())
	}
}

func TestLiveChannelRejectsStaleEdges(t *testing.T) {
	l := NewLiveChannel(context.Background(), "clk", swd.Low)
	if err := l.Extend(100); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if err := l.Extend(120, 90); !errors.Is(err, ErrNonMonotonic) {
		t.Fatalf("Extend with covered edge = %v, want ErrNonMonotonic", err)
	}
	l.Close()
	if err := l.Extend(200); err == nil {
		t.Fatal("Extend after Close succeeded")
	}
}

func TestLiveChannelCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLiveChannel(ctx, "clk", swd.Low)

	done := make(chan error, 1)
	go func() {
		_, err := l.NextEdge()
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("NextEdge after cancel = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("NextEdge did not return after cancel")
	}
}
