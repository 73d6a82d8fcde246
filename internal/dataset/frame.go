// Package dataset provides loading and slicing of OHLCV time series and the
// column frame the analysis stages append to.
package dataset

import (
	"math"
	"time"

	"candlegraph/internal/errors"
	"candlegraph/internal/models"
)

// Frame is a single tabular time series: candles indexed by timestamp plus
// named columns appended by the analysis stages. Indicator columns hold
// float64 values (NaN during warmup), signal and pattern columns hold bools,
// tag columns hold strings.
type Frame struct {
	Candles []models.Candle

	columns map[string][]float64
	flags   map[string][]bool
	tags    map[string][]string
	order   []string
}

// NewFrame creates a frame over the given candles.
func NewFrame(candles []models.Candle) *Frame {
	return &Frame{
		Candles: candles,
		columns: make(map[string][]float64),
		flags:   make(map[string][]bool),
		tags:    make(map[string][]string),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Candles)
}

// AddColumn appends a float64 column. The column must match the frame length.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != f.Len() {
		return errors.NewValidationError(name, len(values), "column length does not match frame")
	}
	if _, exists := f.columns[name]; !exists {
		f.order = append(f.order, name)
	}
	f.columns[name] = values
	return nil
}

// Column returns a float64 column by name.
func (f *Frame) Column(name string) ([]float64, bool) {
	c, ok := f.columns[name]
	return c, ok
}

// AddFlags appends a boolean column.
func (f *Frame) AddFlags(name string, values []bool) error {
	if len(values) != f.Len() {
		return errors.NewValidationError(name, len(values), "column length does not match frame")
	}
	if _, exists := f.flags[name]; !exists {
		f.order = append(f.order, name)
	}
	f.flags[name] = values
	return nil
}

// Flags returns a boolean column by name.
func (f *Frame) Flags(name string) ([]bool, bool) {
	c, ok := f.flags[name]
	return c, ok
}

// AddTags appends a string column.
func (f *Frame) AddTags(name string, values []string) error {
	if len(values) != f.Len() {
		return errors.NewValidationError(name, len(values), "column length does not match frame")
	}
	if _, exists := f.tags[name]; !exists {
		f.order = append(f.order, name)
	}
	f.tags[name] = values
	return nil
}

// Tags returns a string column by name.
func (f *Frame) Tags(name string) ([]string, bool) {
	c, ok := f.tags[name]
	return c, ok
}

// ColumnNames returns all column names in derivation order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// ForwardFill replaces NaN entries in a float64 column with the last
// non-NaN value seen before them. Leading NaNs are left as-is.
func (f *Frame) ForwardFill(name string) {
	col, ok := f.columns[name]
	if !ok {
		return
	}
	last := math.NaN()
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = last
		} else {
			last = v
		}
	}
}

// Timestamps returns the timestamp of every row.
func (f *Frame) Timestamps() []time.Time {
	out := make([]time.Time, f.Len())
	for i, c := range f.Candles {
		out[i] = c.Timestamp
	}
	return out
}

// Slice returns a new frame holding the rows whose timestamps fall within
// [from, to]. Zero times leave the corresponding bound open. prepare extra
// rows before the start are included as indicator warmup history when
// available. Columns are not carried over: slicing happens before analysis.
func (f *Frame) Slice(from, to time.Time, prepare int) *Frame {
	start := 0
	if !from.IsZero() {
		for start < len(f.Candles) && f.Candles[start].Timestamp.Before(from) {
			start++
		}
	}
	if prepare > 0 {
		start -= prepare
		if start < 0 {
			start = 0
		}
	}

	end := len(f.Candles)
	if !to.IsZero() {
		for end > start && f.Candles[end-1].Timestamp.After(to) {
			end--
		}
	}

	return NewFrame(f.Candles[start:end])
}

// Signals collects all triggered entry/exit signals in row order.
func (f *Frame) Signals() []models.Signal {
	var out []models.Signal
	sides := []models.SignalSide{
		models.SignalEnterLong,
		models.SignalEnterShort,
		models.SignalExitLong,
		models.SignalExitShort,
	}
	exitTags, _ := f.Tags("exit_tag")
	for i, c := range f.Candles {
		for _, side := range sides {
			col, ok := f.flags[string(side)]
			if !ok || !col[i] {
				continue
			}
			sig := models.Signal{
				Side:      side,
				Index:     i,
				Timestamp: c.Timestamp,
				Price:     c.Close,
			}
			if exitTags != nil && (side == models.SignalExitLong || side == models.SignalExitShort) {
				sig.Tag = exitTags[i]
			}
			out = append(out, sig)
		}
	}
	return out
}
