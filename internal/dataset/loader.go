package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"candlegraph/internal/errors"
	"candlegraph/internal/models"
)

// csvCandle is the CSV row shape for OHLCV input files.
type csvCandle struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume int64   `csv:"volume"`
}

// jsonCandle is the JSON row shape for OHLCV input files.
type jsonCandle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// ParseDate parses a date column value using the accepted layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Load reads an OHLCV file into a frame. CSV and JSON files are supported,
// selected by extension. Rows are sorted by timestamp ascending.
func Load(path string) (*Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".json":
		return loadJSON(path)
	default:
		return nil, errors.NewDataError(path, 0, "expected a .csv or .json file", errors.ErrUnsupportedFormat)
	}
}

func loadCSV(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataError(path, 0, "opening file", err)
	}
	defer file.Close()

	if err := checkCSVHeader(path); err != nil {
		return nil, err
	}

	var rows []*csvCandle
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.NewDataError(path, 0, "parsing CSV", errors.Wrap(errors.ErrMalformedRow, err.Error()))
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		ts, err := ParseDate(row.Date)
		if err != nil {
			return nil, errors.NewDataError(path, i+1, "parsing date column", errors.Wrap(errors.ErrMalformedRow, err.Error()))
		}
		c := models.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		}
		if err := validateCandle(c); err != nil {
			return nil, errors.NewDataError(path, i+1, err.Error(), errors.ErrMalformedRow)
		}
		candles = append(candles, c)
	}

	return frameFromCandles(path, candles)
}

func loadJSON(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDataError(path, 0, "opening file", err)
	}

	var rows []jsonCandle
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.NewDataError(path, 0, "parsing JSON", errors.Wrap(errors.ErrMalformedRow, err.Error()))
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		if row.Date == "" {
			return nil, errors.NewDataError(path, i+1, "date field missing", errors.ErrMissingColumn)
		}
		ts, err := ParseDate(row.Date)
		if err != nil {
			return nil, errors.NewDataError(path, i+1, "parsing date field", errors.Wrap(errors.ErrMalformedRow, err.Error()))
		}
		c := models.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		}
		if err := validateCandle(c); err != nil {
			return nil, errors.NewDataError(path, i+1, err.Error(), errors.ErrMalformedRow)
		}
		candles = append(candles, c)
	}

	return frameFromCandles(path, candles)
}

// requiredColumns are the CSV headers an input file must carry.
var requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// checkCSVHeader validates that all required columns are present before
// unmarshalling, so a missing column is reported by name instead of as a
// zero-valued row.
func checkCSVHeader(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.NewDataError(path, 0, "opening file", err)
	}
	defer file.Close()

	buf := make([]byte, 4096)
	n, _ := file.Read(buf)
	header := string(buf[:n])
	if idx := strings.IndexAny(header, "\r\n"); idx >= 0 {
		header = header[:idx]
	}

	present := make(map[string]bool)
	for _, name := range strings.Split(header, ",") {
		present[strings.ToLower(strings.TrimSpace(name))] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return errors.NewDataError(path, 0, fmt.Sprintf("column %q not found in header", col), errors.ErrMissingColumn)
		}
	}
	return nil
}

func validateCandle(c models.Candle) error {
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return fmt.Errorf("non-positive price")
	}
	if c.High < c.Low {
		return fmt.Errorf("high %.4f below low %.4f", c.High, c.Low)
	}
	if c.Volume < 0 {
		return fmt.Errorf("negative volume")
	}
	return nil
}

func frameFromCandles(path string, candles []models.Candle) (*Frame, error) {
	if len(candles) == 0 {
		return nil, errors.NewDataError(path, 0, "no rows", errors.ErrEmptyDataset)
	}
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return NewFrame(candles), nil
}
