package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSWD/internal/config"
)

var (
	// Global flags
	verbose    bool
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "swd",
	Short: "Serial Wire Debug protocol decoder",
	Long: `Decode ARM Serial Wire Debug (SWD) traffic from logic analyzer captures
into operations, line resets and register accesses.

Examples:
  swd decode capture.vcd                              # Decode a VCD capture
  swd decode --format saleae --rate 50e6 clk.bin dio.bin
  swd simulate --decode scenario.swd                  # Play a scenario and decode it
  swd idcode 0x2BA01477                               # Break down a DP IDCODE`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warning, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (YAML)")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	if verbose && level < log.DebugLevel {
		level = log.DebugLevel
	}
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	return nil
}

// loadSettings reads --config, or returns the defaults when it is unset.
func loadSettings() (*config.Settings, error) {
	if configPath == "" {
		return config.DefaultSettings(), nil
	}
	s, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log.WithField("path", configPath).Debug("settings loaded")
	return s, nil
}
