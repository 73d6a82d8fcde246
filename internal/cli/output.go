// Package cli provides the command-line interface for the charting pipeline.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted output for the CLI.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

var (
	greenText  = color.New(color.FgGreen).SprintfFunc()
	redText    = color.New(color.FgRed).SprintfFunc()
	yellowText = color.New(color.FgYellow).SprintfFunc()
	cyanText   = color.New(color.FgCyan).SprintfFunc()
	boldText   = color.New(color.Bold).SprintfFunc()
	dimText    = color.New(color.Faint).SprintfFunc()
)

// NewOutput creates a new Output instance.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: !jsonMode && isTerminal(),
	}
}

// isTerminal checks if stdout is a terminal.
func isTerminal() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// IsJSON returns true if JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON outputs data as JSON.
func (o *Output) JSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Println prints a message with newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success prints a success message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.colored(greenText, format, args...)
}

// Error prints an error message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.colored(redText, format, args...)
}

// Warning prints a warning message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.colored(yellowText, format, args...)
}

// Info prints an info message in cyan.
func (o *Output) Info(format string, args ...interface{}) {
	o.colored(cyanText, format, args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.colored(boldText, format, args...)
}

// Dim prints a dimmed message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.colored(dimText, format, args...)
}

func (o *Output) colored(paint func(string, ...interface{}) string, format string, args ...interface{}) {
	if o.colorEnabled {
		fmt.Fprintln(o.writer, paint(format, args...))
	} else {
		fmt.Fprintf(o.writer, format+"\n", args...)
	}
}

// Green returns green colored text.
func (o *Output) Green(text string) string {
	if o.colorEnabled {
		return greenText("%s", text)
	}
	return text
}

// Red returns red colored text.
func (o *Output) Red(text string) string {
	if o.colorEnabled {
		return redText("%s", text)
	}
	return text
}

// Yellow returns yellow colored text.
func (o *Output) Yellow(text string) string {
	if o.colorEnabled {
		return yellowText("%s", text)
	}
	return text
}

// Cyan returns cyan colored text.
func (o *Output) Cyan(text string) string {
	if o.colorEnabled {
		return cyanText("%s", text)
	}
	return text
}

// DimText returns dimmed text.
func (o *Output) DimText(text string) string {
	if o.colorEnabled {
		return dimText("%s", text)
	}
	return text
}

// Side returns a signal side colored by direction: entries and long exits
// green, shorts red.
func (o *Output) Side(side string) string {
	switch side {
	case "enter_long", "exit_short":
		return o.Green(side)
	case "enter_short", "exit_long":
		return o.Red(side)
	}
	return side
}

// Table represents a simple aligned table for output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a new table.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		output:  output,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(stripANSI(h))
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				if n := len(stripANSI(cell)); n > widths[i] {
					widths[i] = n
				}
			}
		}
	}

	t.printRow(t.headers, widths, true)
	t.printSeparator(widths)
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, isHeader bool) {
	var parts []string
	for i, cell := range cells {
		if i < len(widths) {
			padding := widths[i] - len(stripANSI(cell))
			if padding < 0 {
				padding = 0
			}
			padded := cell + strings.Repeat(" ", padding)
			if isHeader && t.output.colorEnabled {
				padded = boldText("%s", padded)
			}
			parts = append(parts, padded)
		}
	}
	t.output.Println(strings.Join(parts, "  "))
}

func (t *Table) printSeparator(widths []int) {
	var parts []string
	for _, w := range widths {
		parts = append(parts, strings.Repeat("─", w))
	}
	sep := strings.Join(parts, "──")
	if t.output.colorEnabled {
		sep = dimText("%s", sep)
	}
	t.output.Println(sep)
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI escape codes from a string.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
