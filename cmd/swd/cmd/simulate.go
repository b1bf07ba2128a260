package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/annotate"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/capture"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/script"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/sim"
	"github.com/OpenTraceLab/OpenTraceSWD/pkg/swd"
)

var (
	simOutput     string
	simDecode     bool
	simLive       bool
	simChunk      int
	simHalfPeriod int64
	simTimescale  string
	simBase       string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <script>",
	Short: "Render a scenario script as an SWD waveform",
	Long: `Play a scenario script through the waveform generator and write the result
as a VCD capture, or decode it straight away.

A script has one command per line:
  reset [N]                     line reset of N high bits (default 50)
  idle N                        N low cycles
  bits 1 0 1 ...                raw host-driven bits
  read|write dp|ap <addr|reg> [value] [ack ok|wait|fault] [trail N] [badparity]

Examples:
  swd simulate -o out.vcd scenario.swd
  swd simulate --decode scenario.swd
  swd simulate --decode --live --chunk 16 scenario.swd`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().StringVarP(&simOutput, "output", "o", "", "VCD output file (default stdout)")
	simulateCmd.Flags().BoolVar(&simDecode, "decode", false, "decode the waveform instead of writing it")
	simulateCmd.Flags().BoolVar(&simLive, "live", false, "with --decode, stream the waveform through live channels")
	simulateCmd.Flags().IntVar(&simChunk, "chunk", 32, "clock cycles per live chunk")
	simulateCmd.Flags().Int64Var(&simHalfPeriod, "half-period", sim.DefaultConfig().HalfPeriod, "samples per clock half period")
	simulateCmd.Flags().StringVar(&simTimescale, "timescale", "1 ns", "VCD timescale of one sample")
	simulateCmd.Flags().StringVar(&simBase, "base", "hex", "number display base for --decode")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	p, err := script.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	s, err := p.ParseFile(args[0])
	if err != nil {
		return err
	}

	cfg := sim.DefaultConfig()
	cfg.HalfPeriod = simHalfPeriod
	g, err := sim.NewGenerator(cfg)
	if err != nil {
		return err
	}
	if err := g.Play(s); err != nil {
		return err
	}
	log.WithFields(log.Fields{"script": args[0], "cycles": g.Len()}).Info("scenario rendered")

	if !simDecode {
		return writeWaveform(g)
	}

	base, err := annotate.ParseDisplayBase(simBase)
	if err != nil {
		return err
	}

	var (
		res   *annotate.Results
		stats swd.Stats
	)
	if simLive {
		res, stats, err = decodeLive(cmd, g)
	} else {
		var clk, dio *capture.Channel
		clk, dio, err = g.Channels()
		if err != nil {
			return err
		}
		res, stats, err = decodeChannels(cmd, clk, dio)
	}
	if err != nil {
		return err
	}
	printUnits(res.Units(), annotate.Timebase{}, base)
	logStats(stats)
	return nil
}

func writeWaveform(g *sim.Generator) error {
	clk, dio, err := g.Channels()
	if err != nil {
		return err
	}
	if simOutput == "" {
		return capture.WriteVCD(os.Stdout, simTimescale, clk, dio)
	}
	f, err := os.Create(simOutput)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", simOutput, err)
	}
	if err := capture.WriteVCD(f, simTimescale, clk, dio); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// decodeLive runs the generator and the decoder concurrently over a pair
// of live channels.
func decodeLive(cmd *cobra.Command, g *sim.Generator) (*annotate.Results, swd.Stats, error) {
	ctx := cmd.Context()
	clk := capture.NewLiveChannel(ctx, "SWCLK", swd.Low)
	dio := capture.NewLiveChannel(ctx, "SWDIO", swd.Low)

	feedErr := make(chan error, 1)
	go func() { feedErr <- g.Feed(ctx, clk, dio, simChunk) }()

	res, stats, err := decodeChannels(cmd, clk, dio)
	if ferr := <-feedErr; err == nil {
		err = ferr
	}
	return res, stats, err
}
