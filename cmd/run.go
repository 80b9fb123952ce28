package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	runManifest string
	runResolve  []int
)

// runCmd resolves services, tears the registry down and prints the trace.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Create services from a manifest, destroy them and print the trace",
	Long: `Loads the manifest, resolves the selected services (all of them by
default), destroys every live service and prints the order in which
constructors and destructors ran.

Services marked failOnCreate end in the exception state. Their failures are
reported and the command exits non-zero after teardown.`,
	Example: `  svcctl run -f services.yaml
  svcctl run -f services.yaml --resolve 1,4`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd, runManifest)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(commandContext(cmd), toIDs(runResolve))
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runManifest, "manifest", "f", "services.yaml", "Service manifest to load")
	runCmd.Flags().IntSliceVar(&runResolve, "resolve", nil, "Service IDs to resolve (default all)")
}
