// Package mcp provides an MCP (Model Context Protocol) server adapter for DocVault.
// It enables AI assistants like Claude to search and ingest local documents.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
