package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"svcctl/internal/app"
	"svcctl/internal/services"
)

// cfgFile points at an explicit configuration file. When empty the user and
// project configuration directories are layered over the defaults.
var cfgFile string

// logLevel overrides logging.level from the configuration.
var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "svcctl",
	Short: "Resolve, inspect and tear down a dependency-ordered service registry",
	Long: `svcctl loads a manifest of services with declared creation and
destruction dependencies into a fixed-capacity registry. Services are created
lazily in dependency order and destroyed dependents-first.

Use 'svcctl run' to resolve services and print the lifecycle trace,
'svcctl inspect' to look at the slot table and 'svcctl mcp' to expose the
registry to AI assistants over stdio.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. failed constructors)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "svcctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

// newApplication builds the application shared by all subcommands.
func newApplication(cmd *cobra.Command, manifestPath string) (*app.Application, error) {
	cfg := app.NewConfig(cfgFile, manifestPath, logLevel)
	cfg.Version = rootCmd.Version
	cfg.Output = cmd.OutOrStdout()
	return app.NewApplication(cfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func toIDs(values []int) []services.ID {
	ids := make([]services.ID, len(values))
	for i, v := range values {
		ids[i] = services.ID(v)
	}
	return ids
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default layers ~/.config/svcctl and ./.svcctl)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}
