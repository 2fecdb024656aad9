package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docvault-cli/internal/core/ports/driving"
)

// QueryInput is the input schema for the query_documents tool.
type QueryInput struct {
	Query      string `json:"query" jsonschema:"the natural-language query to search for"`
	Collection string `json:"collection,omitempty" jsonschema:"collection to search (default: documents)"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// QueryOutput is the output schema for the query_documents tool.
type QueryOutput struct {
	Results []QueryResultOutput `json:"results"`
	Count   int                 `json:"count"`
}

// QueryResultOutput represents a single query match.
type QueryResultOutput struct {
	FileName  string  `json:"file_name,omitempty"`
	Text      string  `json:"text"`
	Relevance int     `json:"relevance"`
	Distance  float64 `json:"distance"`
	Section   string  `json:"section,omitempty"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path       string `json:"path" jsonschema:"filesystem path of the document to ingest"`
	Collection string `json:"collection,omitempty" jsonschema:"target collection (default: documents)"`
	UseOCR     bool   `json:"use_ocr,omitempty" jsonschema:"enable OCR fallback for scanned content"`
	Password   string `json:"password,omitempty" jsonschema:"password for encrypted documents"`
	Smart      bool   `json:"smart,omitempty" jsonschema:"use structure-aware chunking"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	Success    bool   `json:"success"`
	ChunkCount int    `json:"chunk_count"`
	FileName   string `json:"file_name,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ScanInput is the input schema for the scan_directory tool.
type ScanInput struct {
	Path string `json:"path" jsonschema:"directory to scan for supported documents"`
}

// ScanOutput is the output schema for the scan_directory tool.
type ScanOutput struct {
	Files     []ScanFileOutput `json:"files"`
	Count     int              `json:"count"`
	TotalSize int64            `json:"total_size"`
	Skipped   int              `json:"skipped"`
}

// ScanFileOutput represents one scannable file.
type ScanFileOutput struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Extension string `json:"extension"`
}

// HealthInput is the input schema for the check_health tool.
type HealthInput struct {
	Collection  string `json:"collection,omitempty" jsonschema:"collection to probe (default: documents)"`
	AutoRecover bool   `json:"auto_recover,omitempty" jsonschema:"rebuild the collection empty if corrupted"`
}

// HealthOutput is the output schema for the check_health tool.
type HealthOutput struct {
	Healthy          bool   `json:"healthy"`
	ChunkCount       int    `json:"chunk_count"`
	Recovered        bool   `json:"recovered"`
	RuntimeAvailable bool   `json:"runtime_available"`
	RuntimeVersion   string `json:"runtime_version,omitempty"`
	OCRAvailable     bool   `json:"ocr_available"`
	Error            string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_documents",
		Description: "Search ingested documents by meaning and return the most relevant passages",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a local document into the vault so it becomes searchable",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "scan_directory",
		Description: "List supported documents under a directory without ingesting them",
	}, s.handleScan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_health",
		Description: "Check vector store health and embedding runtime availability",
	}, s.handleHealth)
}

// handleQuery handles the query_documents tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	result, err := s.ports.Query.Query(ctx, input.Query, input.Collection, input.TopK)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Results: make([]QueryResultOutput, len(result.Matches)),
		Count:   len(result.Matches),
	}
	for i := range result.Matches {
		m := &result.Matches[i]
		out := QueryResultOutput{
			Text:      m.Text,
			Relevance: m.Relevance,
			Distance:  m.Distance,
		}
		if name, ok := m.Metadata["file_name"].(string); ok {
			out.FileName = name
		}
		if section, ok := m.Metadata["section"].(string); ok {
			out.Section = section
		}
		output.Results[i] = out
	}
	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingest == nil {
		return nil, IngestOutput{}, errors.New("ingestion is not configured")
	}

	result, err := s.ports.Ingest.ProcessDocument(ctx, input.Path, driving.IngestOptions{
		Collection: input.Collection,
		UseOCR:     input.UseOCR,
		Password:   input.Password,
		Smart:      input.Smart,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		Success:    result.Success,
		ChunkCount: result.ChunkCount,
		Error:      result.Error,
	}
	if result.Document != nil {
		output.FileName = result.Document.FileName
	}
	return nil, output, nil
}

// handleScan handles the scan_directory tool invocation.
func (s *Server) handleScan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScanInput,
) (*mcp.CallToolResult, ScanOutput, error) {
	if s.ports.Ingest == nil {
		return nil, ScanOutput{}, errors.New("ingestion is not configured")
	}

	report, err := s.ports.Ingest.ScanDirectory(ctx, input.Path)
	if err != nil {
		return nil, ScanOutput{}, err
	}

	output := ScanOutput{
		Files:     make([]ScanFileOutput, len(report.Files)),
		Count:     len(report.Files),
		TotalSize: report.TotalSize,
		Skipped:   report.Skipped,
	}
	for i, f := range report.Files {
		output.Files[i] = ScanFileOutput{
			Path:      f.Path,
			SizeBytes: f.SizeBytes,
			Extension: f.Extension,
		}
	}
	return nil, output, nil
}

// handleHealth handles the check_health tool invocation.
func (s *Server) handleHealth(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HealthInput,
) (*mcp.CallToolResult, HealthOutput, error) {
	if s.ports.Health == nil {
		return nil, HealthOutput{}, errors.New("health checks are not configured")
	}

	report := s.ports.Health.CheckHealth(ctx, input.Collection, input.AutoRecover)
	status := s.ports.Health.CheckRuntime(ctx)

	output := HealthOutput{
		Healthy:          report.Healthy,
		ChunkCount:       report.ChunkCount,
		Recovered:        report.Recovered,
		RuntimeAvailable: status.Available,
		RuntimeVersion:   status.Version,
		OCRAvailable:     status.OCRAvailable,
		Error:            report.Err,
	}
	return nil, output, nil
}
