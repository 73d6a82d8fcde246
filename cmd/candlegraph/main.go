package main

import (
	"fmt"
	"os"
	"path/filepath"

	"candlegraph/internal/cli"
	"candlegraph/internal/config"
	"candlegraph/internal/logging"
)

func main() {
	configDir := configDirArg(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = false
	logCfg.File = cfg.Logging.File
	if configDir != "" {
		logCfg.FilePath = filepath.Join(configDir, "logs", "candlegraph.log")
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configDirArg extracts the --config flag before cobra parses it, so the
// configuration is loaded ahead of command construction.
func configDirArg(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
