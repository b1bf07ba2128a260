package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Settings)
		ok     bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"same channel", func(s *Settings) { s.Dio = "swclk" }, false},
		{"missing clk", func(s *Settings) { s.Clk = "" }, false},
		{"saleae without rate", func(s *Settings) { s.Format = "saleae" }, false},
		{"saleae with rate", func(s *Settings) { s.Format = "SALEAE"; s.SampleRate = 12e6 }, true},
		{"unknown format", func(s *Settings) { s.Format = "csv" }, false},
		{"negative rate", func(s *Settings) { s.SampleRate = -1 }, false},
		{"ascii base", func(s *Settings) { s.DisplayBase = "ASCII" }, true},
		{"octal base", func(s *Settings) { s.DisplayBase = "oct" }, false},
	}
	for _, tc := range cases {
		s := DefaultSettings()
		tc.modify(s)
		err := s.Validate()
		if (err == nil) != tc.ok {
			t.Fatalf("%s: Validate() = %v, want ok=%v", tc.name, err, tc.ok)
		}
	}

	s := DefaultSettings()
	s.Dio = s.Clk
	if err := s.Validate(); !errors.Is(err, ErrSameChannel) {
		t.Fatalf("same channel error = %v, want ErrSameChannel", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swd.yaml")

	want := &Settings{
		Clk:         "clk.bin",
		Dio:         "dio.bin",
		Format:      FormatSaleae,
		SampleRate:  24e6,
		DisplayBase: "dec",
	}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("display_base: bin\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Clk != "SWCLK" || s.Format != FormatVCD || s.DisplayBase != "bin" {
		t.Fatalf("Load = %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("clk: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of malformed YAML succeeded")
	}
}
