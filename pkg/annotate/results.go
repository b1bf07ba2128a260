package annotate

import "github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"

// Unit is one committed operation or line reset with its frames and
// markers.
type Unit struct {
	Operation *swd.Operation
	Reset     *swd.LineReset
	Frames    []Frame
	Markers   []swd.Marker
}

// Results is a swd.Sink that turns decoded events into frames.
type Results struct {
	units    []*Unit
	position int64
}

var _ swd.Sink = (*Results)(nil)

func (r *Results) Operation(op *swd.Operation) error {
	r.units = append(r.units, &Unit{Operation: op, Frames: OperationFrames(op)})
	return nil
}

func (r *Results) LineReset(lr *swd.LineReset) error {
	r.units = append(r.units, &Unit{Reset: lr, Frames: LineResetFrames(lr)})
	return nil
}

// Marker attaches m to the most recent operation.
func (r *Results) Marker(m swd.Marker) error {
	if n := len(r.units); n > 0 {
		u := r.units[n-1]
		u.Markers = append(u.Markers, m)
	}
	return nil
}

func (r *Results) Progress(sample int64) {
	if sample > r.position {
		r.position = sample
	}
}

// Position is the furthest sample the decoder reported.
func (r *Results) Position() int64 {
	return r.position
}

// Units returns the committed units in stream order.
func (r *Results) Units() []*Unit {
	return r.units
}

// Frames returns every frame in stream order.
func (r *Results) Frames() []Frame {
	var frames []Frame
	for _, u := range r.units {
		frames = append(frames, u.Frames...)
	}
	return frames
}

// Markers returns every marker in stream order.
func (r *Results) Markers() []swd.Marker {
	var markers []swd.Marker
	for _, u := range r.units {
		markers = append(markers, u.Markers...)
	}
	return markers
}
