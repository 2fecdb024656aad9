package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for DocVault resources.
	uriScheme = "docvault://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing collections.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collections",
		Name:        "collections",
		Description: "List of all collections in the vault",
		MIMEType:    "application/json",
	}, s.handleCollectionsResource)

	// Template for the documents of one collection.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collection}/documents",
		Name:        "collection-documents",
		Description: "Documents ingested into a specific collection",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for reconstructed document text.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "collections/{collection}/documents/{fileName}",
		Name:        "document-content",
		Description: "Reassembled text of one ingested document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)
}

// handleCollectionsResource returns the collection list with counts.
func (s *Server) handleCollectionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Query.CollectionStats(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}

	data, err := json.MarshalIndent(stats.AllCollections, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling collections: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentsResource returns the documents of one collection.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	collection, fileName := parseDocumentURI(req.Params.URI)
	if collection == "" || fileName != "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	groups, err := s.ports.Query.ListDocumentsBySource(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type docInfo struct {
		FileName   string `json:"file_name"`
		ChunkCount int    `json:"chunk_count"`
	}

	infos := make([]docInfo, len(groups))
	for i := range groups {
		infos[i] = docInfo{
			FileName:   groups[i].FileName,
			ChunkCount: groups[i].ChunkCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentContentResource reassembles one document's text from
// its stored chunks.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	collection, fileName := parseDocumentURI(req.Params.URI)
	if collection == "" || fileName == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	groups, err := s.ports.Query.ListDocumentsBySource(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	for i := range groups {
		if groups[i].FileName != fileName {
			continue
		}
		var sb strings.Builder
		for j := range groups[i].Chunks {
			if j > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(groups[i].Chunks[j].Text)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     sb.String(),
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// parseDocumentURI splits a URI like
// docvault://collections/{collection}/documents[/{fileName}] into its
// collection and optional file name. Both are empty when the URI does
// not match.
func parseDocumentURI(uri string) (collection, fileName string) {
	const prefix = uriScheme + "collections/"
	if !strings.HasPrefix(uri, prefix) {
		return "", ""
	}

	rest := strings.TrimPrefix(uri, prefix)
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 || parts[1] != "documents" {
		return "", ""
	}
	if len(parts) == 3 {
		return parts[0], parts[2]
	}
	return parts[0], ""
}
