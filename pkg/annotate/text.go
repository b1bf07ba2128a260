package annotate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// DisplayBase selects how numbers are rendered in bubble text and exports.
type DisplayBase uint8

const (
	Hexadecimal DisplayBase = iota
	Decimal
	Binary
	ASCII
)

var baseNames = map[DisplayBase]string{
	Hexadecimal: "hex",
	Decimal:     "dec",
	Binary:      "bin",
	ASCII:       "ascii",
}

func (b DisplayBase) String() string {
	if n, ok := baseNames[b]; ok {
		return n
	}
	return fmt.Sprintf("DisplayBase(%d)", b)
}

// ParseDisplayBase accepts "hex", "dec", "bin" or "ascii", case-insensitive.
func ParseDisplayBase(s string) (DisplayBase, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for b, name := range baseNames {
		if n == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown display base %q", s)
}

// FormatNumber renders the low bits of v in base. Hex and binary output is
// zero-padded to the field width.
func FormatNumber(v uint64, base DisplayBase, bits int) string {
	if bits > 0 && bits < 64 {
		v &= 1<<uint(bits) - 1
	}
	switch base {
	case Decimal:
		return strconv.FormatUint(v, 10)
	case Binary:
		return fmt.Sprintf("0b%0*b", bits, v)
	case ASCII:
		return formatASCII(v, bits)
	default:
		return fmt.Sprintf("0x%0*X", (bits+3)/4, v)
	}
}

// formatASCII prints one character per byte, most significant first.
// Unprintable bytes fall back to hex escapes.
func formatASCII(v uint64, bits int) string {
	n := (bits + 7) / 8
	if n == 0 {
		n = 1
	}
	var sb strings.Builder
	sb.WriteByte('\'')
	for i := n - 1; i >= 0; i-- {
		c := byte(v >> (8 * uint(i)))
		if c >= 0x20 && c < 0x7F {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\x%02X", c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// BubbleText returns the labels for f, longest first. A viewer shows the
// first one that fits.
func BubbleText(f Frame, base DisplayBase) []string {
	var text []string
	switch f := f.(type) {
	case *RequestFrame:
		port, rw := "DebugPort", "Write"
		short, dir := "DP", "W"
		if f.AccessPort {
			port, short = "AccessPort", "AP"
		}
		if f.Read {
			rw, dir = "Read", "R"
		}
		reg := f.Register.String()
		text = []string{
			fmt.Sprintf("Request %s %s %s", port, rw, reg),
			fmt.Sprintf("request %s %s %s", short, dir, reg),
			FormatNumber(uint64(f.RequestByte), base, 8),
			"req",
			"rq",
		}
	case *TurnaroundFrame:
		text = []string{"Turnaround", "turn", "trn", "T"}
	case *AckFrame:
		switch f.Ack {
		case swd.AckOK, swd.AckWait, swd.AckFault:
			text = []string{"ACK " + f.Ack.String(), f.Ack.String()}
		default:
			text = []string{"ACK <unknown> probably disconnected", "ACK <unknown>", "disc"}
		}
		text = append(text, "ACK")
	case *DataFrame:
		data := FormatNumber(uint64(f.Value), base, 32)
		reg := f.Register.String()
		if desc := DescribeRegister(f.Register, f.Value, base); desc != "" {
			text = append(text, fmt.Sprintf("WData %s reg %s bits %s", data, reg, desc))
		}
		text = append(text, fmt.Sprintf("WData %s reg %s", data, reg), "WData "+data, "WData")
	case *ParityFrame:
		status := "NOT OK"
		if f.OK {
			status = "ok"
		}
		text = []string{"Data parity " + status, strconv.Itoa(int(f.Value)), "Parity", "prty"}
	case *TrailingFrame:
		text = []string{"Trailing bits", "Trail"}
	case *LineResetFrame:
		text = []string{fmt.Sprintf("Line Reset %d bits", f.Bits), "Line Reset", "reset", "rst"}
	}
	sort.SliceStable(text, func(i, j int) bool { return len(text[i]) > len(text[j]) })
	return text
}
