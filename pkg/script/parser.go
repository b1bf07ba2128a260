package script

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// Parser reads scenario scripts.
type Parser struct {
	parser *participle.Parser[Script]
}

// NewParser creates a new script parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Script](
		participle.Lexer(ScriptLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.CaseInsensitive("Ident"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses and checks a script from a reader
func (p *Parser) Parse(r io.Reader) (*Script, error) {
	s, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseString parses and checks a script from a string
func (p *Parser) ParseString(input string) (*Script, error) {
	s, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseFile parses and checks a script from a file path
func (p *Parser) ParseFile(filename string) (*Script, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// maxCycles bounds the cycle counts of reset, idle and trail.
const maxCycles = 1 << 16

// Validate checks values the grammar cannot: bit groups, addresses, register
// names and data widths.
func (s *Script) Validate() error {
	for _, c := range s.Commands {
		var err error
		switch {
		case c.Bits != nil:
			_, err = c.Bits.Values()
		case c.Reset != nil:
			switch {
			case c.Reset.Cycles == nil:
			case *c.Reset.Cycles == 0:
				err = fmt.Errorf("reset needs at least one cycle")
			case *c.Reset.Cycles > maxCycles:
				err = fmt.Errorf("reset %d is too long", uint64(*c.Reset.Cycles))
			}
		case c.Idle != nil:
			if c.Idle.Cycles > maxCycles {
				err = fmt.Errorf("idle %d is too long", uint64(c.Idle.Cycles))
			}
		case c.Transfer != nil:
			err = c.Transfer.validate()
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", c.Pos.Line, err)
		}
	}
	return nil
}

func (t *Transfer) validate() error {
	if _, _, err := t.Target(); err != nil {
		return err
	}
	if t.Data != nil && *t.Data > 0xFFFFFFFF {
		return fmt.Errorf("value 0x%X does not fit in 32 bits", uint64(*t.Data))
	}
	for _, o := range t.Options {
		if o.Trail != nil && *o.Trail > maxCycles {
			return fmt.Errorf("trail %d is too long", uint64(*o.Trail))
		}
	}
	return nil
}

// Target returns the A[3:2] address put on the wire and, when the transfer
// names a register, that register.
func (t *Transfer) Target() (uint8, swd.Register, error) {
	if t.Addr != nil {
		switch a := uint64(*t.Addr); a {
		case 0x0, 0x4, 0x8, 0xC:
			return uint8(a), swd.RegUndefined, nil
		default:
			return 0, swd.RegUndefined, fmt.Errorf("address 0x%X is not one of 0x0, 0x4, 0x8, 0xC", a)
		}
	}

	reg, ok := swd.LookupRegister(t.Port + "." + t.Register)
	if !ok {
		return 0, swd.RegUndefined, fmt.Errorf("no %s register named %q", strings.ToUpper(t.Port), t.Register)
	}
	return reg.Addr(), reg, nil
}

// Value is the data word, zero when omitted.
func (t *Transfer) Value() uint32 {
	if t.Data == nil {
		return 0
	}
	return uint32(*t.Data)
}

// Ack is the acknowledge the target answers with, OK by default.
func (t *Transfer) Ack() swd.Ack {
	ack := swd.AckOK
	for _, o := range t.Options {
		switch strings.ToLower(o.Ack) {
		case "wait":
			ack = swd.AckWait
		case "fault":
			ack = swd.AckFault
		case "ok":
			ack = swd.AckOK
		}
	}
	return ack
}

// Trailing is the number of idle low cycles after the transfer.
func (t *Transfer) Trailing() int {
	n := 0
	for _, o := range t.Options {
		if o.Trail != nil {
			n = int(*o.Trail)
		}
	}
	return n
}

// CorruptParity reports whether the data parity bit should be inverted.
func (t *Transfer) CorruptParity() bool {
	for _, o := range t.Options {
		if o.BadParity {
			return true
		}
	}
	return false
}
