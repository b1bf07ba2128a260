package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSWD/pkg/sim"
)

const scenario = `# power-up sequence
reset
idle 2
read dp IDCODE 0x2BA01477
write dp SELECT 0xF0
read ap IDR 0x24770011
read ap 0xC ack wait
`

// resetFlags puts every package-level flag back to its default so that
// tests do not leak into each other.
func resetFlags() {
	verbose = false
	logLevel = "info"
	configPath = ""

	decodeFormat = ""
	decodeClk = ""
	decodeDio = ""
	decodeRate = 0
	decodeBase = ""
	decodeOutput = "text"
	decodeTrigger = 0

	simOutput = ""
	simDecode = false
	simLive = false
	simChunk = 32
	simHalfPeriod = sim.DefaultConfig().HalfPeriod
	simTimescale = "1 ns"
	simBase = "hex"

	idcodeAP = false
	idcodeJSON = false
	settingsForce = false
}

// run executes the root command with args and returns what it printed on
// stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Read in background to prevent pipe buffer from blocking on Windows
	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	resetFlags()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	// Restore stdout and wait for reader
	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func checkOutput(t *testing.T, output string, err error, wantErr bool, wantContain []string) {
	t.Helper()
	if wantErr {
		if err == nil {
			t.Errorf("Expected error but got none")
		}
		return
	}
	if err != nil {
		t.Errorf("Unexpected error: %v\nOutput: %s", err, output)
		return
	}
	for _, want := range wantContain {
		if !strings.Contains(output, want) {
			t.Errorf("Output missing expected string: %q\nGot:\n%s", want, output)
		}
	}
}

// TestInfoCommandsE2E tests registers and idcode end-to-end
func TestInfoCommandsE2E(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "register map",
			args:        []string{"registers"},
			wantContain: []string{"Port", "IDCODE", "CTRL_STAT", "SELECT", "RAZ_WI", "unmapped", "IDR"},
		},
		{
			name: "dp idcode",
			args: []string{"idcode", "0x2BA01477"},
			wantContain: []string{
				"DP IDCODE 0x2BA01477",
				"SW-DP",
				"ARM Ltd.",
				"Part number:  0xBA",
				"DPv1",
			},
		},
		{
			name:        "ap idr",
			args:        []string{"idcode", "--ap", "0x24770011"},
			wantContain: []string{"AP IDR 0x24770011", "AHB-AP", "MEM-AP", "AHB3"},
		},
		{
			name:        "json",
			args:        []string{"idcode", "--json", "0x0BC11477"},
			wantContain: []string{`"name": "MINDP"`, `"min_dp": true`, `"part_no": 188`},
		},
		{
			name:    "bad value",
			args:    []string{"idcode", "0xZZ"},
			wantErr: true,
		},
		{
			name:    "missing value",
			args:    []string{"idcode"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			checkOutput(t, output, err, tt.wantErr, tt.wantContain)
		})
	}
}

// TestSimulateE2E tests simulate --decode with and without live channels
func TestSimulateE2E(t *testing.T) {
	script := writeFile(t, "power-up.swd", scenario)
	bad := writeFile(t, "bad.swd", "read dp 0x2\n")

	decoded := []string{
		"Line reset, 50 bits",
		"R DP IDCODE",
		"0x2BA01477",
		"designer ARM Ltd.",
		"W DP SELECT",
		"APBANKSEL=0xF",
		"R AP IDR",
		"CLASS=MEM-AP",
		"ACK WAIT",
	}

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "decode",
			args:        []string{"simulate", "--decode", script},
			wantContain: decoded,
		},
		{
			name:        "decode live",
			args:        []string{"simulate", "--decode", "--live", "--chunk", "5", script},
			wantContain: decoded,
		},
		{
			name:        "vcd to stdout",
			args:        []string{"simulate", script},
			wantContain: []string{"$timescale 1 ns $end", "SWCLK", "SWDIO", "$enddefinitions $end"},
		},
		{
			name:    "invalid script",
			args:    []string{"simulate", bad},
			wantErr: true,
		},
		{
			name:    "missing script",
			args:    []string{"simulate", "/nonexistent/scenario.swd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			checkOutput(t, output, err, tt.wantErr, tt.wantContain)
		})
	}
}

// TestDecodeE2E renders a scenario to VCD and decodes the file
func TestDecodeE2E(t *testing.T) {
	script := writeFile(t, "power-up.swd", scenario)
	vcd := filepath.Join(t.TempDir(), "power-up.vcd")
	if out, err := run(t, "simulate", "-o", vcd, script); err != nil {
		t.Fatalf("simulate: %v\nOutput: %s", err, out)
	}
	sameChannel := writeFile(t, "same.yaml", "clk: SWDIO\ndio: swdio\n")
	decimal := writeFile(t, "dec.yaml", "display_base: dec\n")

	tests := []struct {
		name        string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "text",
			args:        []string{"decode", vcd},
			wantContain: []string{"Line reset, 50 bits", "R DP IDCODE", "0x2BA01477", "W DP SELECT"},
		},
		{
			name: "tsv",
			args: []string{"decode", "-o", "tsv", vcd},
			wantContain: []string{
				"Time\tType\tR/W\tAP/DP\tRegister\tRequest byte\tACK\tWData\tWData details",
				"Line reset",
				"Operation\tread\tDebugPort\tDP IDCODE\t0xA5\tOK\t0x2BA01477",
				"Operation\twrite\tDebugPort\tDP SELECT\t0xB1\tOK\t0x000000F0",
				"AccessPort\tAP IDR",
				"WAIT",
			},
		},
		{
			name:        "json with rate",
			args:        []string{"decode", "-o", "json", "--rate", "1e9", vcd},
			wantContain: []string{`"type": "line_reset"`, `"type": "operation"`, `"register": "AP IDR"`, `"seconds"`},
		},
		{
			name:        "decimal from config",
			args:        []string{"decode", "--config", decimal, vcd},
			wantContain: []string{"731911287"},
		},
		{
			name:        "explicit channels",
			args:        []string{"decode", "--clk", "swd.SWCLK", "--dio", "swdio", vcd},
			wantContain: []string{"R DP IDCODE"},
		},
		{
			name:    "unknown channel",
			args:    []string{"decode", "--clk", "TCK", vcd},
			wantErr: true,
		},
		{
			name:    "same channel",
			args:    []string{"decode", "--config", sameChannel, vcd},
			wantErr: true,
		},
		{
			name:    "saleae without rate",
			args:    []string{"decode", "--format", "saleae", vcd, vcd},
			wantErr: true,
		},
		{
			name:    "unknown output",
			args:    []string{"decode", "-o", "xml", vcd},
			wantErr: true,
		},
		{
			name:    "missing file",
			args:    []string{"decode", "/nonexistent/capture.vcd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := run(t, tt.args...)
			checkOutput(t, output, err, tt.wantErr, tt.wantContain)
		})
	}
}

const idleVCD = `$timescale 1 ns $end
$scope module swd $end
$var wire 1 ! SWCLK $end
$var wire 1 " SWDIO $end
$upscope $end
$enddefinitions $end
#0
$dumpvars
1!
1"
$end
#1000
`

// TestDecodeIdleCaptureE2E decodes a capture whose clock never toggles
func TestDecodeIdleCaptureE2E(t *testing.T) {
	vcd := writeFile(t, "idle.vcd", idleVCD)
	for _, output := range []string{"text", "tsv", "json"} {
		t.Run(output, func(t *testing.T) {
			out, err := run(t, "decode", "-o", output, vcd)
			if err != nil {
				t.Fatalf("decode of an idle capture: %v\nOutput: %s", err, out)
			}
			switch output {
			case "text":
				if strings.TrimSpace(out) != "" {
					t.Errorf("text output = %q, want nothing", out)
				}
			case "tsv":
				if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 1 {
					t.Errorf("tsv has %d lines, want only the header:\n%s", len(lines), out)
				}
			case "json":
				if strings.TrimSpace(out) != "[]" {
					t.Errorf("json output = %q, want []", out)
				}
			}
		})
	}
}

// TestSettingsE2E writes a settings file and reads it back
func TestSettingsE2E(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swd.yaml")

	output, err := run(t, "settings", "init", path)
	checkOutput(t, output, err, false, []string{"Wrote " + path})

	_, err = run(t, "settings", "init", path)
	checkOutput(t, "", err, true, nil)

	output, err = run(t, "settings", "init", "--force", path)
	checkOutput(t, output, err, false, []string{"Wrote"})

	output, err = run(t, "--config", path, "settings", "show")
	checkOutput(t, output, err, false, []string{"clk: SWCLK", "dio: SWDIO", "format: vcd", "display_base: hex"})
}
