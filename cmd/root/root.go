// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/fintrack/internal/config"
	"fjacquet/fintrack/internal/container"
	"fjacquet/fintrack/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalFlags are the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// Flags holds the persistent flag values
	Flags = GlobalFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "fintrack",
		Short: "Categorize bank transactions with learned rules and a text classifier.",
		Long: `fintrack assigns categories to transaction descriptions. It tries a
TF-IDF classifier trained on labeled transactions first, then fuzzy rules
learned from user corrections, then a configured default category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to fintrack!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfigFromFile(Flags.ConfigFile)
			if err != nil {
				return err
			}
			if Flags.LogLevel != "" {
				cfg.Log.Level = Flags.LogLevel
			}
			if Flags.LogFormat != "" {
				cfg.Log.Format = Flags.LogFormat
			}
			AppConfig = cfg

			Log = config.ConfigureLoggingFromConfig(cfg)
			logging.SetDefaultLogger(Log)
			return nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&Flags.ConfigFile, "config", "c", "", "Config file (default: ./config.yaml or ~/.fintrack/config.yaml)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text, json)")
}

// NewContainer wires the application from AppConfig. Callers must Close it.
func NewContainer() (*container.Container, error) {
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainerWithLogger(AppConfig, logging.NewLogrusAdapterFromLogger(Log))
}
