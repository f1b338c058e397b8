// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/statement-import/internal/config"
	"fjacquet/statement-import/internal/container"
	"fjacquet/statement-import/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	JSON       bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired dependencies
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-import",
		Short: "Import bank statements into a categorized transaction ledger.",
		Long: `statement-import reads bank statements (CSV, Excel, PDF, OFX), maps their
columns, normalizes dates and amounts, suggests a category for each row and
flags likely duplicates of transactions already in the ledger.

Imports are two-phase: "stage" produces a reviewable preview and "confirm"
commits the selected rows to the ledger.`,
		SilenceUsage:      true,
		PersistentPreRunE: initApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close resources: %v", err)
			}
			AppContainer = nil
		},
	}

	initOnce sync.Once
)

// Init registers the persistent flags of the root command
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.statement-import, .statement-import or .)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override the configured log level")
		Cmd.PersistentFlags().BoolVar(&SharedFlags.JSON, "json", false, "Print results as JSON")
	})
}

func initApp(cmd *cobra.Command, args []string) error {
	if AppContainer != nil {
		return nil
	}

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		if _, err := logrus.ParseLevel(SharedFlags.LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %s", SharedFlags.LogLevel)
		}
		cfg.Log.Level = SharedFlags.LogLevel
	}
	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainer(cfg, container.WithLogger(logging.NewLogrusAdapterFromLogger(Log)))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	return nil
}

// GetContainer returns the application container, or nil before the
// root command has run its pre-run hook.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogrusAdapter returns the shared logger behind the logging interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}
