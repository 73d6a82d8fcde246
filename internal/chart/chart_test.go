package chart

import (
	"bytes"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"candlegraph/internal/analysis"
	"candlegraph/internal/config"
	"candlegraph/internal/dataset"
	"candlegraph/internal/models"
)

func testFrame(t *testing.T, n int) *dataset.Frame {
	t.Helper()

	candles := make([]models.Candle, n)
	base := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		price := 100 + 5*math.Sin(float64(i)/4)
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			Open:      price - 0.2,
			High:      price + 1,
			Low:       price - 1,
			Close:     price + 0.2,
			Volume:    1500,
		}
	}
	frame := dataset.NewFrame(candles)

	rsi := make([]float64, n)
	sar := make([]float64, n)
	for i := range rsi {
		rsi[i] = 50 + 20*math.Sin(float64(i)/4)
		sar[i] = 95
	}
	if err := frame.AddColumn(analysis.ColRSI, rsi); err != nil {
		t.Fatal(err)
	}
	if err := frame.AddColumn(analysis.ColSAR, sar); err != nil {
		t.Fatal(err)
	}

	colors := make([]string, n)
	for i := range colors {
		colors[i] = "gray"
	}
	if err := frame.AddTags(analysis.ColVolumeColor, colors); err != nil {
		t.Fatal(err)
	}

	entries := make([]bool, n)
	entries[n/2] = true
	if err := frame.AddFlags(analysis.ColEnterLong, entries); err != nil {
		t.Fatal(err)
	}

	return frame
}

func newTestRenderer() *Renderer {
	return NewRenderer(config.Default().Chart, zerolog.Nop())
}

func TestRenderProducesHTML(t *testing.T) {
	frame := testFrame(t, 30)

	var buf bytes.Buffer
	if err := newTestRenderer().Render(&buf, "BTCUSDT", frame); err != nil {
		t.Fatalf("Render: %v", err)
	}

	html := buf.String()
	if len(html) == 0 {
		t.Fatal("rendered page is empty")
	}
	for _, want := range []string{"candles", "rsi", "volume", "enter_long", "BTCUSDT"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(html, "NaN") {
		t.Error("rendered page contains NaN, gaps should render as \"-\"")
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := newTestRenderer().Render(&buf, "BTCUSDT", dataset.NewFrame(nil)); err == nil {
		t.Error("expected error for an empty frame")
	}
}

func TestStoreWritesFile(t *testing.T) {
	frame := testFrame(t, 30)

	cfg := config.Default().Chart
	cfg.OutputDir = t.TempDir()
	renderer := NewRenderer(cfg, zerolog.Nop())

	path, err := renderer.Store("BTCUSDT", Filename("BTCUSDT", models.Timeframe1h), frame)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("stored chart file is empty")
	}
	if !strings.HasSuffix(path, "BTCUSDT-1h-candlestick.html") {
		t.Errorf("unexpected chart path %s", path)
	}
}

func TestLineSeriesGaps(t *testing.T) {
	data := lineSeries([]float64{math.NaN(), 1.5})

	if data[0].Value != gap {
		t.Errorf("data[0].Value = %v, want %q", data[0].Value, gap)
	}
	if data[1].Value != 1.5 {
		t.Errorf("data[1].Value = %v, want 1.5", data[1].Value)
	}
}
