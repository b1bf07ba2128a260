package annotate

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// Timebase converts sample indices to seconds relative to a trigger.
type Timebase struct {
	Trigger int64
	Rate    float64 // samples per second, 0 when unknown
}

// Seconds returns the time of sample relative to the trigger. ok is false
// when no sample rate is known.
func (tb Timebase) Seconds(sample int64) (float64, bool) {
	if tb.Rate <= 0 {
		return 0, false
	}
	return float64(sample-tb.Trigger) / tb.Rate, true
}

// Format renders the time of sample, falling back to the sample offset
// when the rate is unknown.
func (tb Timebase) Format(sample int64) string {
	if s, ok := tb.Seconds(sample); ok {
		return strconv.FormatFloat(s, 'f', 9, 64)
	}
	return strconv.FormatInt(sample-tb.Trigger, 10)
}

// Record is one exported operation or line reset.
type Record struct {
	Sample    int64    `json:"sample"`
	Seconds   *float64 `json:"seconds,omitempty"`
	Type      string   `json:"type"`
	Direction string   `json:"direction,omitempty"`
	Port      string   `json:"port,omitempty"`
	Register  string   `json:"register,omitempty"`
	Request   uint8    `json:"request,omitempty"`
	Ack       string   `json:"ack,omitempty"`
	Data      *uint32  `json:"data,omitempty"`
	Details   string   `json:"details,omitempty"`
	ResetBits int      `json:"reset_bits,omitempty"`
}

const (
	RecordOperation = "operation"
	RecordLineReset = "line_reset"
)

// Records folds frames back into one record per operation or line reset.
func Records(frames []Frame, tb Timebase, base DisplayBase) []Record {
	var (
		out []Record
		cur *Record
	)
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}
	stamp := func(r *Record, sample int64) {
		r.Sample = sample
		if s, ok := tb.Seconds(sample); ok {
			r.Seconds = &s
		}
	}

	for _, f := range frames {
		switch f := f.(type) {
		case *LineResetFrame:
			flush()
			r := Record{Type: RecordLineReset, ResetBits: f.Bits}
			stamp(&r, f.Start)
			out = append(out, r)
		case *RequestFrame:
			flush()
			cur = &Record{
				Type:      RecordOperation,
				Direction: "write",
				Port:      "DebugPort",
				Register:  f.Register.String(),
				Request:   f.RequestByte,
			}
			if f.Read {
				cur.Direction = "read"
			}
			if f.AccessPort {
				cur.Port = "AccessPort"
			}
			stamp(cur, f.Start)
		case *AckFrame:
			if cur != nil {
				cur.Ack = f.Ack.String()
			}
		case *DataFrame:
			if cur != nil {
				v := f.Value
				cur.Data = &v
				cur.Details = DescribeRegister(f.Register, f.Value, base)
			}
		}
	}
	flush()
	return out
}

var textHeader = []string{"Time", "Type", "R/W", "AP/DP", "Register", "Request byte", "ACK", "WData", "WData details"}

// WriteText writes frames as tab-separated records with a header row.
func WriteText(w io.Writer, frames []Frame, tb Timebase, base DisplayBase) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(textHeader); err != nil {
		return err
	}
	for _, r := range Records(frames, tb, base) {
		row := make([]string, len(textHeader))
		row[0] = tb.Format(r.Sample)
		if r.Type == RecordLineReset {
			row[1] = "Line reset"
		} else {
			row[1] = "Operation"
			row[2] = r.Direction
			row[3] = r.Port
			row[4] = r.Register
			row[5] = FormatNumber(uint64(r.Request), base, 8)
			row[6] = r.Ack
			if r.Data != nil {
				row[7] = FormatNumber(uint64(*r.Data), base, 32)
			}
			row[8] = r.Details
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes frames as an indented JSON array of records.
func WriteJSON(w io.Writer, frames []Frame, tb Timebase) error {
	records := Records(frames, tb, Hexadecimal)
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
