package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed scenario: a list of commands played in order.
type Script struct {
	Commands []*Command `@@*`
}

// Command is one line of a script.
type Command struct {
	Pos lexer.Position

	Reset    *Reset    `  @@`
	Idle     *Idle     `| @@`
	Bits     *Bits     `| @@`
	Transfer *Transfer `| @@`
}

// Reset emits a line reset. Cycles defaults to 50 when omitted.
type Reset struct {
	Keyword string `@"reset"`
	Cycles  *Value `@Number?`
}

// Idle emits low idle cycles.
type Idle struct {
	Keyword string `@"idle"`
	Cycles  Value  `@Number`
}

// Bits emits raw bits. Each group is a run of 0 and 1 digits.
type Bits struct {
	Keyword string   `@"bits"`
	Groups  []string `@Number+`
}

// Values expands the groups into individual bits.
func (b *Bits) Values() ([]bool, error) {
	var out []bool
	for _, g := range b.Groups {
		for _, c := range g {
			switch c {
			case '0':
				out = append(out, false)
			case '1':
				out = append(out, true)
			default:
				return nil, fmt.Errorf("bits: %q is not a run of 0 and 1", g)
			}
		}
	}
	return out, nil
}

// Transfer is one read or write request.
//
//	read  dp|ap <addr|register> [value] [ack ok|wait|fault] [trail N] [badparity]
//	write dp|ap <addr|register> [value] [ack ok|wait|fault] [trail N] [badparity]
type Transfer struct {
	Direction string    `@( "read" | "write" )`
	Port      string    `@( "dp" | "ap" )`
	Addr      *Value    `( @Number`
	Register  string    `| @Ident )`
	Data      *Value    `@Number?`
	Options   []*Option `@@*`
}

// Option is a transfer modifier.
type Option struct {
	Ack       string `  "ack" @( "ok" | "wait" | "fault" )`
	Trail     *Value `| "trail" @Number`
	BadParity bool   `| @"badparity"`
}

// Read reports whether t is a read request.
func (t *Transfer) Read() bool {
	return strings.EqualFold(t.Direction, "read")
}

// AccessPort reports whether t targets the AP.
func (t *Transfer) AccessPort() bool {
	return strings.EqualFold(t.Port, "ap")
}

// Value is an unsigned literal in decimal, 0x hex or 0b binary. Underscores
// may separate digit groups.
type Value uint64

func (v *Value) Capture(values []string) error {
	n, err := ParseNumber(values[0])
	if err != nil {
		return err
	}
	*v = Value(n)
	return nil
}

// ParseNumber parses a script literal. Leading zeros on decimal literals do
// not mean octal.
func ParseNumber(s string) (uint64, error) {
	lit := strings.ReplaceAll(s, "_", "")
	base := 10
	switch {
	case len(lit) > 2 && (lit[:2] == "0x" || lit[:2] == "0X"):
		base, lit = 16, lit[2:]
	case len(lit) > 2 && (lit[:2] == "0b" || lit[:2] == "0B"):
		base, lit = 2, lit[2:]
	}
	n, err := strconv.ParseUint(lit, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}
