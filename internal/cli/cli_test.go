package cli

import (
	"bytes"
	"strings"
	"testing"

	"candlegraph/internal/config"
)

func testOutput(jsonMode bool) (*Output, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &Output{writer: buf, jsonMode: jsonMode, colorEnabled: false}, buf
}

func TestSymbolFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/btcusdt.csv", "BTCUSDT"},
		{"/tmp/eth-1h.json", "ETH-1H"},
		{"NIFTY.CSV", "NIFTY"},
	}

	for _, tt := range tests {
		if got := symbolFromPath(tt.path); got != tt.want {
			t.Errorf("symbolFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWarmupRows(t *testing.T) {
	app := &App{Config: config.Default()}

	// Default Hawkeye length (200) is the longest lookback
	if got := warmupRows(app); got != 200 {
		t.Errorf("warmupRows = %d, want 200", got)
	}

	app.Config.Indicators.EMAPeriods = []int{34, 89, 300}
	if got := warmupRows(app); got != 300 {
		t.Errorf("warmupRows = %d, want 300", got)
	}
}

func TestTableRender(t *testing.T) {
	output, buf := testOutput(false)

	table := NewTable(output, "SIDE", "PRICE")
	table.AddRow("enter_long", "101.50")
	table.AddRow("exit_long", "105.20")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header, separator, and 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "SIDE") {
		t.Errorf("header = %q", lines[0])
	}
	// Columns are aligned: PRICE starts at the same offset in every row
	offset := strings.Index(lines[0], "PRICE")
	if !strings.HasPrefix(lines[2][offset:], "101.50") {
		t.Errorf("row misaligned: %q", lines[2])
	}
}

func TestOutputJSON(t *testing.T) {
	output, buf := testOutput(true)

	if !output.IsJSON() {
		t.Fatal("IsJSON should be true")
	}
	if err := output.JSON(map[string]int{"rows": 3}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"rows": 3`) {
		t.Errorf("JSON output = %q", buf.String())
	}
}

func TestStripANSI(t *testing.T) {
	colored := "\x1b[32mgreen\x1b[0m"
	if got := stripANSI(colored); got != "green" {
		t.Errorf("stripANSI = %q, want green", got)
	}
}
