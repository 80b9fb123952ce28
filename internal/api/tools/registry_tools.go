package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"svcctl/internal/registry"
	"svcctl/internal/services"
	"svcctl/pkg/logging"
)

// Registry is the registry surface the tools operate on.
type Registry interface {
	Snapshot() []registry.SlotInfo
	Status(id services.ID) (registry.Status, error)
	Get(ctx context.Context, id services.ID) (services.Service, error)
	DestroyAll(ctx context.Context) error
}

// RegistryTools provides MCP tools for inspecting and driving a service registry
type RegistryTools struct {
	reg Registry
}

// NewRegistryTools creates registry tools over reg
func NewRegistryTools(reg Registry) *RegistryTools {
	return &RegistryTools{reg: reg}
}

// GetTools returns all registry tools
func (rt *RegistryTools) GetTools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("registry_list",
			mcp.WithDescription("List all registered services with their lifecycle status and dependencies"),
		),
		mcp.NewTool("registry_status",
			mcp.WithDescription("Get the lifecycle status of a specific service"),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Service ID"),
			),
		),
		mcp.NewTool("registry_resolve",
			mcp.WithDescription("Resolve a service, creating it and its create dependencies if needed"),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Service ID to resolve"),
			),
		),
		mcp.NewTool("registry_destroy_all",
			mcp.WithDescription("Destroy every live service, dependents first"),
		),
	}
}

// ServerTools pairs every tool with its handler.
func (rt *RegistryTools) ServerTools() []server.ServerTool {
	handlers := map[string]server.ToolHandlerFunc{
		"registry_list":        rt.HandleList,
		"registry_status":      rt.HandleStatus,
		"registry_resolve":     rt.HandleResolve,
		"registry_destroy_all": rt.HandleDestroyAll,
	}

	var out []server.ServerTool
	for _, tool := range rt.GetTools() {
		out = append(out, server.ServerTool{Tool: tool, Handler: handlers[tool.Name]})
	}
	return out
}

// Register adds all registry tools to s.
func (rt *RegistryTools) Register(s *server.MCPServer) {
	tools := rt.ServerTools()
	logging.Debug("MCPTools", "Adding %d tools in batch", len(tools))
	s.AddTools(tools...)
}

// HandleList handles the registry_list tool call
func (rt *RegistryTools) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slots := rt.reg.Snapshot()
	result := map[string]interface{}{
		"services": slots,
		"total":    len(slots),
	}
	return jsonResult(result)
}

// HandleStatus handles the registry_status tool call
func (rt *RegistryTools) HandleStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := services.ID(n)

	for _, slot := range rt.reg.Snapshot() {
		if slot.ID == id {
			return jsonResult(slot)
		}
	}

	// Unregistered but valid IDs still have a status.
	st, err := rt.reg.Status(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get service status: %v", err)), nil
	}
	return jsonResult(map[string]interface{}{
		"id":         id,
		"status":     st,
		"registered": false,
	})
}

// HandleResolve handles the registry_resolve tool call
func (rt *RegistryTools) HandleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id := services.ID(n)

	svc, err := rt.reg.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resolve service %d (%s): %v", id, registry.Kind(err), err)), nil
	}
	if svc == nil {
		return mcp.NewToolResultError(fmt.Sprintf("Service %d failed earlier and is not retried", id)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Successfully resolved service %d", id)), nil
}

// HandleDestroyAll handles the registry_destroy_all tool call
func (rt *RegistryTools) HandleDestroyAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := rt.reg.DestroyAll(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to destroy services: %v", err)), nil
	}
	return mcp.NewToolResultText("Successfully destroyed all services"), nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(resultJSON)),
		},
	}, nil
}
