package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	mcpManifest    string
	mcpMetricsAddr string
)

// mcpCmd serves the registry tools to an MCP client over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve registry tools over MCP stdio",
	Long: `Starts an MCP server on stdin/stdout exposing the registry_list,
registry_status, registry_resolve and registry_destroy_all tools.

All live services are destroyed when the client disconnects. When metrics are
enabled in the configuration, or --metrics-addr is given, Prometheus metrics
and health endpoints are served on that address.`,
	Example: `  svcctl mcp -f services.yaml
  svcctl mcp -f services.yaml --metrics-addr 127.0.0.1:9090`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd, mcpManifest)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.ServeMCP(commandContext(cmd), mcpMetricsAddr)
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVarP(&mcpManifest, "manifest", "f", "services.yaml", "Service manifest to load")
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "Serve /metrics, /healthz and /readyz on this address")
}
