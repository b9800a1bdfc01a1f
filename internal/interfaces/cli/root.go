// Package cli holds the cobra commands of the storefront binaries.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/infrastructure/config"
	"github.com/merrysway/storefront/internal/infrastructure/logger"
)

// RootOptions holds global flags shared by all commands
type RootOptions struct {
	ConfigFile string
	LogLevel   string
}

// ValidLogLevels defines the accepted --log-level values
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

func addRootFlags(cmd *cobra.Command, opts *RootOptions, defaultLevel string) {
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "path to config.toml (default: search ./ and /app)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", defaultLevel, "log level (debug|info|warn|error)")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if !isValidLogLevel(opts.LogLevel) {
			return fmt.Errorf("invalid log level %q: must be one of %v", opts.LogLevel, ValidLogLevels)
		}
		return nil
	}
}

// load reads the configuration and builds a console logger for CLI use
func (o *RootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(o.ConfigFile)
	if err != nil {
		return nil, nil, err
	}
	logCfg := logger.CLIConfig()
	logCfg.Level = o.LogLevel
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func isValidLogLevel(level string) bool {
	for _, l := range ValidLogLevels {
		if l == level {
			return true
		}
	}
	return false
}
