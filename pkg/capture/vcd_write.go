package capture

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

// WriteVCD dumps channels as 1-bit wires in a single "swd" scope. Each
// sample index becomes one timescale unit.
func WriteVCD(w io.Writer, timescale string, chans ...*Channel) error {
	if timescale == "" {
		timescale = "1 ns"
	}
	bw := bufio.NewWriter(w)

	ids := make([]string, len(chans))
	fmt.Fprintf(bw, "$version OpenTraceSWD $end\n")
	fmt.Fprintf(bw, "$timescale %s $end\n", timescale)
	fmt.Fprintf(bw, "$scope module swd $end\n")
	for i, c := range chans {
		ids[i] = vcdID(i)
		fmt.Fprintf(bw, "$var wire 1 %s %s $end\n", ids[i], c.Name)
	}
	fmt.Fprintf(bw, "$upscope $end\n")
	fmt.Fprintf(bw, "$enddefinitions $end\n")

	fmt.Fprintf(bw, "#0\n$dumpvars\n")
	for i, c := range chans {
		fmt.Fprintf(bw, "%s%s\n", vcdValue(c.Initial()), ids[i])
	}
	fmt.Fprintf(bw, "$end\n")

	type change struct {
		at    int64
		ch    int
		level swd.BitState
	}
	var changes []change
	for i, c := range chans {
		level := c.Initial()
		for _, e := range c.Edges() {
			if e <= 0 {
				continue
			}
			if level == swd.High {
				level = swd.Low
			} else {
				level = swd.High
			}
			changes = append(changes, change{at: e, ch: i, level: level})
		}
	}
	sort.SliceStable(changes, func(a, b int) bool { return changes[a].at < changes[b].at })

	now := int64(0)
	for _, ch := range changes {
		if ch.at != now {
			fmt.Fprintf(bw, "#%d\n", ch.at)
			now = ch.at
		}
		fmt.Fprintf(bw, "%s%s\n", vcdValue(ch.level), ids[ch.ch])
	}
	return bw.Flush()
}

func vcdValue(s swd.BitState) string {
	if s == swd.High {
		return "1"
	}
	return "0"
}

// vcdID returns the printable identifier code for the n-th variable.
func vcdID(n int) string {
	const first, span = '!', '~' - '!' + 1
	id := []byte{byte(first + n%span)}
	for n /= span; n > 0; n /= span {
		id = append(id, byte(first+n%span))
	}
	return string(id)
}
