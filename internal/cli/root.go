package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	app      *App
	logLevel string
)

// NewRootCommand builds the full command tree rooted at "mccore".
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mccore",
		Short:         "A command-line Minecraft launcher core",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := NewApp(logLevel)
			if err != nil {
				return fmt.Errorf("initializing: %w", err)
			}
			app = a
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	viper.SetEnvPrefix("MCCORE")
	viper.AutomaticEnv()

	root.AddCommand(newAccountCommand())
	root.AddCommand(newInstanceCommand())
	root.AddCommand(newVersionCommand())
	root.AddCommand(newConfigCommand())
	root.AddCommand(newPlayCommand())

	return root
}
