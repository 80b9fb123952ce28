// Package tools provides MCP tools that expose a service registry to MCP
// clients.
//
// Tools:
//
//   - registry_list: every registered service with status and dependencies
//   - registry_status: the status of one service by ID
//   - registry_resolve: create a service (and its create dependencies) on demand
//   - registry_destroy_all: tear everything down, dependents first
//
// Successful calls return JSON or a short confirmation; failures are
// returned as tool errors carrying the registry error kind.
//
// Example Usage:
//
//	{
//	  "method": "tools/call",
//	  "params": {
//	    "name": "registry_resolve",
//	    "arguments": {"id": 1}
//	  }
//	}
//
// Response:
//
//	Successfully resolved service 1
package tools
