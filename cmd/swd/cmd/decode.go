package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSWD/internal/config"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/annotate"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

var (
	decodeFormat  string
	decodeClk     string
	decodeDio     string
	decodeRate    float64
	decodeBase    string
	decodeOutput  string
	decodeTrigger int64
)

var decodeCmd = &cobra.Command{
	Use:   "decode <capture...>",
	Short: "Decode SWD traffic from a capture",
	Long: `Decode SWCLK/SWDIO traffic from a logic analyzer capture.

A VCD capture is a single file holding both signals; --clk and --dio name
them. Saleae Logic 2 binary exports hold one channel each, so two files are
given in SWCLK, SWDIO order together with the sample rate.

Examples:
  swd decode capture.vcd
  swd decode --clk top.swclk --dio top.swdio -o tsv capture.vcd
  swd decode --format saleae --rate 25e6 digital_0.bin digital_1.bin
  swd decode --config swd.yaml -o json capture.vcd`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	decodeCmd.Flags().StringVarP(&decodeFormat, "format", "f", "", "capture format (vcd, saleae)")
	decodeCmd.Flags().StringVar(&decodeClk, "clk", "", "SWCLK signal name")
	decodeCmd.Flags().StringVar(&decodeDio, "dio", "", "SWDIO signal name")
	decodeCmd.Flags().Float64Var(&decodeRate, "rate", 0, "sample rate in Hz")
	decodeCmd.Flags().StringVar(&decodeBase, "base", "", "number display base (hex, dec, bin, ascii)")
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "text", "output format (text, tsv, json)")
	decodeCmd.Flags().Int64Var(&decodeTrigger, "trigger", 0, "sample index used as time zero")
}

func runDecode(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	if decodeFormat != "" {
		s.Format = decodeFormat
	}
	if decodeClk != "" {
		s.Clk = decodeClk
	}
	if decodeDio != "" {
		s.Dio = decodeDio
	}
	if decodeRate != 0 {
		s.SampleRate = decodeRate
	}
	if decodeBase != "" {
		s.DisplayBase = decodeBase
	}
	if err := s.Validate(); err != nil {
		return err
	}
	base, err := annotate.ParseDisplayBase(s.DisplayBase)
	if err != nil {
		return err
	}

	clk, dio, err := openCapture(s, args)
	if err != nil {
		return err
	}

	res, stats, err := decodeChannels(cmd, clk, dio)
	if err != nil {
		return err
	}

	tb := annotate.Timebase{Trigger: decodeTrigger, Rate: s.SampleRate}
	switch strings.ToLower(decodeOutput) {
	case "text":
		printUnits(res.Units(), tb, base)
	case "tsv":
		err = annotate.WriteText(os.Stdout, res.Frames(), tb, base)
	case "json":
		err = annotate.WriteJSON(os.Stdout, res.Frames(), tb)
	default:
		return fmt.Errorf("unknown output format %q (want text, tsv or json)", decodeOutput)
	}
	if err != nil {
		return err
	}

	logStats(stats)
	return nil
}

func openCapture(s *config.Settings, args []string) (*capture.Channel, *capture.Channel, error) {
	switch s.Format {
	case config.FormatSaleae:
		if len(args) != 2 {
			return nil, nil, fmt.Errorf("saleae captures need two files: SWCLK then SWDIO")
		}
		clkTrace, err := capture.ReadSaleaeFile(args[0])
		if err != nil {
			return nil, nil, err
		}
		dioTrace, err := capture.ReadSaleaeFile(args[1])
		if err != nil {
			return nil, nil, err
		}
		return capture.SaleaePair(clkTrace, dioTrace, s.SampleRate)

	default:
		if len(args) != 1 {
			return nil, nil, fmt.Errorf("vcd captures are a single file")
		}
		v, err := capture.ReadVCDFile(args[0])
		if err != nil {
			return nil, nil, err
		}
		clk, err := v.Channel(s.Clk)
		if err != nil {
			return nil, nil, err
		}
		dio, err := v.Channel(s.Dio)
		if err != nil {
			return nil, nil, err
		}
		return clk, dio, nil
	}
}

func decodeChannels(cmd *cobra.Command, clk, dio swd.EdgeStream) (*annotate.Results, swd.Stats, error) {
	p, err := swd.NewParser(clk, dio)
	if errors.Is(err, io.EOF) {
		// no clock edge at all: nothing to decode
		log.Warn("capture has no SWCLK activity")
		return &annotate.Results{}, swd.Stats{Acks: map[swd.Ack]int{}}, nil
	}
	if err != nil {
		return nil, swd.Stats{}, err
	}
	res := &annotate.Results{}
	d := swd.NewDecoder(p, res, swd.WithLogger(log.StandardLogger()))
	if err := d.Run(cmd.Context()); err != nil {
		return nil, swd.Stats{}, err
	}
	return res, d.Stats(), nil
}

func printUnits(units []*annotate.Unit, tb annotate.Timebase, base annotate.DisplayBase) {
	for _, u := range units {
		if u.Reset != nil {
			fmt.Printf("%-14s Line reset, %d bits\n", tb.Format(u.Reset.Start()), len(u.Reset.Bits))
			continue
		}
		op := u.Operation
		rw := "W"
		if op.Read {
			rw = "R"
		}
		line := fmt.Sprintf("%-14s %s %-12s ACK %-6s", tb.Format(op.Start()), rw, op.Register, op.Ack)
		if op.HasData() {
			line += " " + annotate.FormatNumber(uint64(op.Data), base, 32)
			if !op.DataParityOK {
				line += " (parity error)"
			}
			if desc := annotate.DescribeRegister(op.Register, op.Data, base); desc != "" {
				line += "  " + desc
			}
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
}

func logStats(st swd.Stats) {
	log.WithFields(log.Fields{
		"operations":     st.Operations,
		"ok":             st.Acks[swd.AckOK],
		"wait":           st.Acks[swd.AckWait],
		"fault":          st.Acks[swd.AckFault],
		"line_resets":    st.LineResets,
		"discarded_bits": st.DiscardedBits,
	}).Info("decode finished")
}
