package swd

// BitState is the logic level of a line at a given sample.
type BitState uint8

const (
	Low BitState = iota
	High
)

func (s BitState) String() string {
	if s == High {
		return "high"
	}
	return "low"
}

// EdgeStream is a cursor over the transitions of a single line. Positions are
// absolute sample indices and only ever move forward.
//
// Implementations block when the next edge is not yet known and report
// io.EOF (possibly wrapped) once the input is exhausted.
type EdgeStream interface {
	// Level reports the line level at the current position.
	Level() BitState
	// Position reports the current sample index.
	Position() int64
	// NextEdge reports the sample index of the next transition without
	// moving the cursor.
	NextEdge() (int64, error)
	// AdvanceToNextEdge moves the cursor onto the next transition.
	AdvanceToNextEdge() error
	// AdvanceTo moves the cursor to an absolute sample, applying every
	// transition up to and including it.
	AdvanceTo(sample int64) error
}
