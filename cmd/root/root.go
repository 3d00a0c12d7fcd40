// Package root contains the root command for the application
package root

import (
	"fjacquet/budget-analyzer/internal/config"
	"fjacquet/budget-analyzer/internal/container"

	"github.com/spf13/cobra"
)

// ContainerFactory builds the dependency container of a command run. Tests
// replace it to run commands against a fake source.
var ContainerFactory = container.NewContainer

var (
	// ConfigFile is the explicit configuration file, if any.
	ConfigFile string
	// LogLevel overrides the configured log level when set.
	LogLevel string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "budget-analyzer",
		Short: "Analyze YNAB spending against budgets, forecast and recommend allocations.",
		Long: `budget-analyzer reads transactions and category budgets from YNAB and reports
which categories are over or under budget. It can also forecast next month's
spending from recent history and recommend a budget allocation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Config file (default: config.yaml in $HOME/.budget-analyzer, .budget-analyzer or .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// LoadContainer loads the configuration, applies command-line overrides and
// wires the dependencies.
func LoadContainer() (*container.Container, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return nil, err
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return ContainerFactory(cfg)
}
