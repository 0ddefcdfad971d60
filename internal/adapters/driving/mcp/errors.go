// Package mcp provides an MCP (Model Context Protocol) server adapter
// for vendorscout. It lets AI assistants plan events against the local
// vendor corpus.
package mcp

import "errors"

// ErrMissingPlannerService is returned when the planner service is not provided.
var ErrMissingPlannerService = errors.New("mcp: planner service is required")
