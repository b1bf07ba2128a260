package capture

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// LiveChannel is an edge stream fed by a producer while it is being read.
// Readers block until the producer has covered the samples they ask about,
// the channel is closed, or the context is cancelled.
type LiveChannel struct {
	Name string

	ctx context.Context

	mu      sync.Mutex
	wake    chan struct{}
	pending []int64
	known   int64 // no edges at or before this sample remain unreported
	last    int64
	closed  bool

	level swd.BitState
	pos   int64
}

// NewLiveChannel creates an empty live channel with the given level at
// sample 0.
func NewLiveChannel(ctx context.Context, name string, initial swd.BitState) *LiveChannel {
	return &LiveChannel{
		Name:  name,
		ctx:   ctx,
		wake:  make(chan struct{}),
		level: initial,
	}
}

// Extend appends edges and declares that every edge up to sample upTo is now
// known. Edges must be strictly increasing and later than anything
// previously declared.
func (l *LiveChannel) Extend(upTo int64, edges ...int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("capture: %s: extend after close", l.Name)
	}
	prev := l.known
	if l.last > prev {
		prev = l.last
	}
	for _, e := range edges {
		if e <= prev {
			return fmt.Errorf("%w: %s edge at %d, already covered up to %d", ErrNonMonotonic, l.Name, e, prev)
		}
		prev = e
	}

	l.pending = append(l.pending, edges...)
	if len(edges) > 0 {
		l.last = edges[len(edges)-1]
	}
	if upTo < l.last {
		upTo = l.last
	}
	if upTo > l.known {
		l.known = upTo
	}
	l.notify()
	return nil
}

// Close marks the end of the capture. Blocked readers get io.EOF once the
// remaining edges are drained.
func (l *LiveChannel) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		l.notify()
	}
}

func (l *LiveChannel) notify() {
	close(l.wake)
	l.wake = make(chan struct{})
}

// wait blocks with l.mu held until ready reports true or the channel closes.
func (l *LiveChannel) wait(ready func() bool) error {
	for !ready() && !l.closed {
		wake := l.wake
		l.mu.Unlock()
		select {
		case <-wake:
		case <-l.ctx.Done():
			l.mu.Lock()
			return l.ctx.Err()
		}
		l.mu.Lock()
	}
	return nil
}

func (l *LiveChannel) Level() swd.BitState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *LiveChannel) Position() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pos
}

func (l *LiveChannel) NextEdge() (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.wait(func() bool { return len(l.pending) > 0 }); err != nil {
		return 0, err
	}
	if len(l.pending) == 0 {
		return 0, io.EOF
	}
	return l.pending[0], nil
}

func (l *LiveChannel) AdvanceToNextEdge() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.wait(func() bool { return len(l.pending) > 0 }); err != nil {
		return err
	}
	if len(l.pending) == 0 {
		return io.EOF
	}
	l.pos = l.pending[0]
	l.pop()
	return nil
}

func (l *LiveChannel) AdvanceTo(sample int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if sample < l.pos {
		return fmt.Errorf("%w: %s at %d, asked for %d", ErrBackwards, l.Name, l.pos, sample)
	}
	if err := l.wait(func() bool { return l.known >= sample }); err != nil {
		return err
	}
	for len(l.pending) > 0 && l.pending[0] <= sample {
		l.pop()
	}
	l.pos = sample
	return nil
}

func (l *LiveChannel) pop() {
	l.pending = l.pending[1:]
	if l.level == swd.High {
		l.level = swd.Low
	} else {
		l.level = swd.High
	}
}
