package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"svcctl/internal/app"
)

var (
	inspectManifest    string
	inspectResolve     []int
	inspectResolveAll  bool
	inspectInteractive bool
	inspectCopy        bool
)

// inspectCmd renders the registry slot table.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the registry slot table",
	Long: `Loads the manifest and renders one row per registered service with its
status, liveness and dependency edges.

By default nothing is created. Use --resolve to create specific services or
--all to create every service before rendering. --interactive opens a
terminal UI where services can be resolved one at a time.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd, inspectManifest)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return application.Inspect(commandContext(cmd), app.InspectOptions{
		Resolve:     toIDs(inspectResolve),
		Resolved:    inspectResolveAll,
		Interactive: inspectInteractive,
		Copy:        inspectCopy,
	})
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectManifest, "manifest", "f", "services.yaml", "Service manifest to load")
	inspectCmd.Flags().IntSliceVar(&inspectResolve, "resolve", nil, "Service IDs to resolve before rendering")
	inspectCmd.Flags().BoolVar(&inspectResolveAll, "all", false, "Resolve every service before rendering")
	inspectCmd.Flags().BoolVarP(&inspectInteractive, "interactive", "i", false, "Open the interactive slot table")
	inspectCmd.Flags().BoolVar(&inspectCopy, "copy", false, "Copy the plain-text table to the clipboard")

	inspectCmd.MarkFlagsMutuallyExclusive("interactive", "copy")
}
