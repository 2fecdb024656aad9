package mcp

import (
	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query answers semantic queries against the index.
	Query driving.QueryService

	// Ingest drives document ingestion.
	Ingest driving.Ingestor

	// Health probes the store and runtime.
	Health driving.HealthService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Ingest and Health are optional; their tools degrade gracefully
	return nil
}
