package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Capture formats understood by the decoder.
const (
	FormatVCD    = "vcd"
	FormatSaleae = "saleae"
)

// ErrSameChannel is returned when SWCLK and SWDIO name the same input.
var ErrSameChannel = errors.New("config: please select different inputs for SWCLK and SWDIO")

// Settings selects the capture inputs and how decoded values are shown.
type Settings struct {
	// Channel names in a VCD capture, or file paths of Saleae exports
	Clk string `yaml:"clk"`
	Dio string `yaml:"dio"`

	Format string `yaml:"format"` // vcd or saleae

	// Samples per second. Required for Saleae exports; for VCD it turns
	// sample indices into seconds in exported time stamps. Zero keeps
	// time stamps in samples.
	SampleRate float64 `yaml:"sample_rate"`

	DisplayBase string `yaml:"display_base"` // hex, dec, bin or ascii
}

// DefaultSettings returns Settings with sensible defaults for most captures.
func DefaultSettings() *Settings {
	return &Settings{
		Clk:         "SWCLK",
		Dio:         "SWDIO",
		Format:      FormatVCD,
		SampleRate:  0,
		DisplayBase: "hex",
	}
}

// Validate checks the settings for errors and normalizes case.
func (s *Settings) Validate() error {
	if s.Clk == "" || s.Dio == "" {
		return fmt.Errorf("config: both clk and dio must be set")
	}
	if strings.EqualFold(s.Clk, s.Dio) {
		return ErrSameChannel
	}

	s.Format = strings.ToLower(s.Format)
	switch s.Format {
	case FormatVCD:
	case FormatSaleae:
		if s.SampleRate <= 0 {
			return fmt.Errorf("config: saleae captures need a positive sample_rate")
		}
	default:
		return fmt.Errorf("config: unknown format %q (want vcd or saleae)", s.Format)
	}
	if s.SampleRate < 0 {
		return fmt.Errorf("config: negative sample_rate %g", s.SampleRate)
	}

	s.DisplayBase = strings.ToLower(s.DisplayBase)
	switch s.DisplayBase {
	case "hex", "dec", "bin", "ascii":
	default:
		return fmt.Errorf("config: unknown display_base %q", s.DisplayBase)
	}
	return nil
}

// Load reads settings from a YAML file. Keys missing from the file keep
// their default values.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes settings as YAML.
func (s *Settings) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}

// Marshal renders the settings as YAML.
func (s *Settings) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("config: failed to encode settings: %w", err)
	}
	return data, nil
}
