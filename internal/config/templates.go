package config

import (
	"os"
	"path/filepath"
)

const configTemplate = `# candlegraph configuration

[data]
# Name of the timestamp column in input CSV files.
date_column = "date"
# Timeframe assumed when none is given on the command line.
default_timeframe = "1h"

[indicators]
rsi_period = 14
adx_period = 14
sar_acceleration = 0.02
sar_maximum = 0.2
ema_periods = [34, 89, 200]
bb_window = 20
bb_std_dev = 2.0
hawkeye_length = 200
hawkeye_ma_length = 20
hawkeye_divisor = 3.6
pivot_left = 10
pivot_right = 2

[signals]
# ADX must exceed this for any entry.
adx_threshold = 25.0
# RSI above this allows short entries, at or below rsi_long_entry allows longs.
rsi_short_entry = 60.0
rsi_long_entry = 40.0

[chart]
theme = "dark"
output_dir = "./plot"
up_color = "#3D9970"
down_color = "#FF4136"
width = "1400px"
height = "500px"

[logging]
level = "info"
file = true
`

// createTemplateConfig writes a starter config.toml into configDir.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return os.WriteFile(path, []byte(configTemplate), 0644)
}
