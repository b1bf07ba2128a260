package capture

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	log "github.com/sirupsen/logrus"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// vcdLexer tokenizes IEEE 1364 value change dumps. Section keywords the
// grammar needs to tell apart get their own token types ahead of the generic
// Keyword rule.
var vcdLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "EndDefs", Pattern: `\$enddefinitions\b`},
	{Name: "End", Pattern: `\$end\b`},
	{Name: "Dump", Pattern: `\$dump(vars|all|on|off)\b`},
	{Name: "Var", Pattern: `\$var\b`},
	{Name: "Keyword", Pattern: `\$[a-zA-Z_]+`},
	{Name: "Time", Pattern: `#[0-9]+`},
	{Name: "Word", Pattern: `[^\s]+`},
})

type vcdFile struct {
	Header []*vcdDecl  `@@*`
	Body   []*vcdEntry `EndDefs End @@*`
}

type vcdDecl struct {
	Var     *vcdVar     `  Var @@ End`
	Section *vcdSection `| @@`
}

// vcdSection covers $date, $version, $timescale, $scope, $upscope and
// $comment.
type vcdSection struct {
	Keyword string   `@Keyword`
	Text    []string `@( Word | Time )* End`
}

type vcdVar struct {
	Type      string   `@Word`
	Size      string   `@Word`
	ID        string   `@Word`
	Reference string   `@Word`
	Index     []string `@Word*`
}

type vcdEntry struct {
	Time    *string     `  @Time`
	Dump    *vcdDump    `| @@`
	Comment *vcdSection `| @@`
	Change  *string     `| @Word`
}

type vcdDump struct {
	Kind    string   `@Dump`
	Changes []string `@Word* End`
}

var vcdParser = participle.MustBuild[vcdFile](
	participle.Lexer(vcdLexer),
	participle.Elide("Whitespace"),
)

// Signal describes one variable declared in a VCD file.
type Signal struct {
	ID    string
	Name  string
	Scope string
	Width int
}

// FullName returns the dotted scope path and name.
func (s Signal) FullName() string {
	if s.Scope == "" {
		return s.Name
	}
	return s.Scope + "." + s.Name
}

type vcdTrace struct {
	sig     Signal
	initial swd.BitState
	level   swd.BitState
	edges   []int64
}

func (t *vcdTrace) set(at int64, v swd.BitState) {
	switch {
	case v == t.level:
	case len(t.edges) > 0 && t.edges[len(t.edges)-1] == at:
		t.edges = t.edges[:len(t.edges)-1]
		t.level = v
	case at <= 0:
		t.initial = v
		t.level = v
	default:
		t.edges = append(t.edges, at)
		t.level = v
	}
}

// VCD is a parsed value change dump. Timestamps are used as sample indices.
type VCD struct {
	Timescale string

	traces []*vcdTrace
	byID   map[string]*vcdTrace
}

// ReadVCD parses a value change dump. Only 1-bit scalar signals can be turned
// into channels; x and z values read as low.
func ReadVCD(r io.Reader) (*VCD, error) {
	f, err := vcdParser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("capture: vcd parse error: %w", err)
	}
	return buildVCD(f)
}

// ReadVCDFile opens and parses a VCD file.
func ReadVCDFile(filename string) (*VCD, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("capture: failed to open file: %w", err)
	}
	defer file.Close()
	return ReadVCD(file)
}

func buildVCD(f *vcdFile) (*VCD, error) {
	v := &VCD{byID: make(map[string]*vcdTrace)}

	var scopes []string
	for _, decl := range f.Header {
		if decl.Var != nil {
			width, err := strconv.Atoi(decl.Var.Size)
			if err != nil {
				return nil, fmt.Errorf("capture: vcd: bad width %q for %s", decl.Var.Size, decl.Var.Reference)
			}
			tr := &vcdTrace{sig: Signal{
				ID:    decl.Var.ID,
				Name:  decl.Var.Reference,
				Scope: strings.Join(scopes, "."),
				Width: width,
			}}
			v.traces = append(v.traces, tr)
			if _, dup := v.byID[tr.sig.ID]; !dup {
				v.byID[tr.sig.ID] = tr
			}
			continue
		}

		s := decl.Section
		switch s.Keyword {
		case "$timescale":
			v.Timescale = strings.Join(s.Text, " ")
		case "$scope":
			if len(s.Text) > 0 {
				scopes = append(scopes, s.Text[len(s.Text)-1])
			}
		case "$upscope":
			if len(scopes) > 0 {
				scopes = scopes[:len(scopes)-1]
			}
		}
	}

	var (
		now    int64
		vector bool
	)
	apply := func(word string) {
		if vector {
			// id of a vector change, ignored
			vector = false
			return
		}
		switch word[0] {
		case 'b', 'B', 'r', 'R':
			vector = true
			return
		}
		tr, ok := v.byID[word[1:]]
		if !ok || tr.sig.Width != 1 {
			return
		}
		level := swd.Low
		if word[0] == '1' {
			level = swd.High
		}
		tr.set(now, level)
	}

	for _, e := range f.Body {
		switch {
		case e.Time != nil:
			t, err := strconv.ParseInt(strings.TrimPrefix(*e.Time, "#"), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("capture: vcd: bad timestamp %q", *e.Time)
			}
			if t < now {
				return nil, fmt.Errorf("%w: vcd timestamp %d after %d", ErrNonMonotonic, t, now)
			}
			now = t
		case e.Dump != nil:
			for _, w := range e.Dump.Changes {
				apply(w)
			}
		case e.Change != nil:
			apply(*e.Change)
		}
	}

	log.WithFields(log.Fields{
		"signals":   len(v.traces),
		"timescale": v.Timescale,
		"end":       now,
	}).Debug("vcd loaded")
	return v, nil
}

// Signals lists the declared variables in file order.
func (v *VCD) Signals() []Signal {
	out := make([]Signal, len(v.traces))
	for i, tr := range v.traces {
		out[i] = tr.sig
	}
	return out
}

// Channel returns the recorded edges of a 1-bit signal, looked up by short
// name, dotted full name or identifier code. Names are case-insensitive.
func (v *VCD) Channel(name string) (*Channel, error) {
	var match *vcdTrace
	for _, tr := range v.traces {
		if strings.EqualFold(tr.sig.Name, name) || strings.EqualFold(tr.sig.FullName(), name) {
			if match != nil && match.sig.ID != tr.sig.ID {
				return nil, fmt.Errorf("capture: vcd: signal name %q is ambiguous", name)
			}
			match = tr
		}
	}
	if match == nil {
		match = v.byID[name]
	}
	if match == nil {
		return nil, fmt.Errorf("capture: vcd: no signal named %q", name)
	}
	if match.sig.Width != 1 {
		return nil, fmt.Errorf("capture: vcd: signal %q is %d bits wide", name, match.sig.Width)
	}
	// traces sharing an id share the same trace
	match = v.byID[match.sig.ID]
	return NewChannel(match.sig.Name, match.initial, match.edges)
}
