package cli

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatPrice formats a price with decimal places suited to its magnitude.
func FormatPrice(price float64) string {
	if math.IsNaN(price) {
		return "-"
	}
	if math.Abs(price) >= 10 {
		return fmt.Sprintf("%.2f", price)
	}
	return fmt.Sprintf("%.4f", price)
}

// FormatValue formats an indicator value, printing NaN warmup rows as a dash.
func FormatValue(value float64) string {
	if math.IsNaN(value) {
		return "-"
	}
	return fmt.Sprintf("%.2f", value)
}

// FormatVolume formats volume in compact form.
func FormatVolume(volume int64) string {
	switch {
	case volume >= 1_000_000_000:
		return fmt.Sprintf("%.2f B", float64(volume)/1_000_000_000)
	case volume >= 1_000_000:
		return fmt.Sprintf("%.2f M", float64(volume)/1_000_000)
	case volume >= 1_000:
		return fmt.Sprintf("%.2f K", float64(volume)/1_000)
	}
	return fmt.Sprintf("%d", volume)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatChange formats a price change with its percentage.
func FormatChange(change, changePct float64) string {
	sign := ""
	if change > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f (%s%.2f%%)", sign, change, sign, changePct)
}

// FormatTimestamp formats a candle timestamp in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

// FormatDate formats a date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// FormatOHLC formats OHLC data on one line.
func FormatOHLC(open, high, low, close float64) string {
	return fmt.Sprintf("O: %s  H: %s  L: %s  C: %s",
		FormatPrice(open), FormatPrice(high), FormatPrice(low), FormatPrice(close))
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}

// TruncateString truncates a string to max length with ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// PadRight pads a string to the right.
func PadRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// PadLeft pads a string to the left.
func PadLeft(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return strings.Repeat(" ", length-len(s)) + s
}
