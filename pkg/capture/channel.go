package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

var (
	// ErrNonMonotonic is returned for edge lists that are not strictly
	// increasing.
	ErrNonMonotonic = errors.New("capture: edges must be strictly increasing")
	// ErrBackwards is returned when a cursor is asked to move back in time.
	ErrBackwards = errors.New("capture: cannot move cursor backwards")
)

// Channel is a recorded line: an initial level plus the sample indices at
// which the level toggles. It implements swd.EdgeStream.
type Channel struct {
	Name string

	initial swd.BitState
	edges   []int64

	level swd.BitState
	pos   int64
	next  int // index of the first edge after pos
}

// NewChannel creates a channel starting at sample 0 with the given level.
// Edges at sample 0 or earlier are folded into the initial level.
func NewChannel(name string, initial swd.BitState, edges []int64) (*Channel, error) {
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, fmt.Errorf("%w: %s edge %d at %d follows %d", ErrNonMonotonic, name, i, edges[i], edges[i-1])
		}
	}
	c := &Channel{
		Name:    name,
		initial: initial,
		edges:   append([]int64(nil), edges...),
		level:   initial,
	}
	for c.next < len(c.edges) && c.edges[c.next] <= 0 {
		c.toggle()
	}
	c.initial = c.level
	return c, nil
}

// Initial returns the level at sample 0.
func (c *Channel) Initial() swd.BitState {
	return c.initial
}

// Edges returns the toggle positions.
func (c *Channel) Edges() []int64 {
	return c.edges
}

// End returns the sample of the last edge, or 0 for a constant line.
func (c *Channel) End() int64 {
	if len(c.edges) == 0 {
		return 0
	}
	return c.edges[len(c.edges)-1]
}

// Rewind moves the cursor back to sample 0.
func (c *Channel) Rewind() {
	c.level = c.initial
	c.pos = 0
	c.next = 0
	for c.next < len(c.edges) && c.edges[c.next] <= 0 {
		c.next++
	}
}

func (c *Channel) Level() swd.BitState { return c.level }

func (c *Channel) Position() int64 { return c.pos }

func (c *Channel) NextEdge() (int64, error) {
	if c.next >= len(c.edges) {
		return 0, io.EOF
	}
	return c.edges[c.next], nil
}

func (c *Channel) AdvanceToNextEdge() error {
	if c.next >= len(c.edges) {
		return io.EOF
	}
	c.pos = c.edges[c.next]
	c.toggle()
	return nil
}

func (c *Channel) AdvanceTo(sample int64) error {
	if sample < c.pos {
		return fmt.Errorf("%w: %s at %d, asked for %d", ErrBackwards, c.Name, c.pos, sample)
	}
	for c.next < len(c.edges) && c.edges[c.next] <= sample {
		c.toggle()
	}
	c.pos = sample
	return nil
}

func (c *Channel) toggle() {
	if c.level == swd.High {
		c.level = swd.Low
	} else {
		c.level = swd.High
	}
	c.next++
}
