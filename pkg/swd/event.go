package swd

// MarkerKind tags a per-bit timing marker.
type MarkerKind uint8

const (
	MarkerZero MarkerKind = iota
	MarkerOne
	MarkerTurnaround
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerZero:
		return "0"
	case MarkerOne:
		return "1"
	case MarkerTurnaround:
		return "X"
	}
	return "?"
}

func markerFor(s BitState) MarkerKind {
	if s == High {
		return MarkerOne
	}
	return MarkerZero
}

// Marker pins one bit of an operation to the sample its value was read at.
type Marker struct {
	Sample int64
	Kind   MarkerKind
	Index  int // bit index within the operation
}

func (Marker) isEvent() {}

// Event is one decoded item in stream order: *Operation, *LineReset or
// Marker.
type Event interface {
	isEvent()
}

// Sink receives decoded items in stream order. Markers for an operation
// follow the operation itself.
type Sink interface {
	Operation(op *Operation) error
	LineReset(r *LineReset) error
	Marker(m Marker) error
	// Progress reports the current stream position after each decoding
	// step. Values never decrease.
	Progress(sample int64)
}

// Collector is a Sink that keeps every event in memory.
type Collector struct {
	Events   []Event
	Position int64
}

func (c *Collector) Operation(op *Operation) error {
	c.Events = append(c.Events, op)
	return nil
}

func (c *Collector) LineReset(r *LineReset) error {
	c.Events = append(c.Events, r)
	return nil
}

func (c *Collector) Marker(m Marker) error {
	c.Events = append(c.Events, m)
	return nil
}

func (c *Collector) Progress(sample int64) {
	c.Position = sample
}

// Operations returns the collected operations in order.
func (c *Collector) Operations() []*Operation {
	var ops []*Operation
	for _, e := range c.Events {
		if op, ok := e.(*Operation); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

// LineResets returns the collected line resets in order.
func (c *Collector) LineResets() []*LineReset {
	var resets []*LineReset
	for _, e := range c.Events {
		if r, ok := e.(*LineReset); ok {
			resets = append(resets, r)
		}
	}
	return resets
}
