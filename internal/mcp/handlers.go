package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/parakeep/parakeep/internal/vault"
)

// handleClassifyCapture classifies text against the current vault vocabulary.
func (s *Server) handleClassifyCapture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}

	hierarchy, err := s.scanner.GetHierarchy(false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("vault scan failed: %v", err)), nil
	}

	result, err := s.classifier.Classify(ctx, text, hierarchy)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// handleGetHierarchy returns the vault taxonomy as readable text.
func (s *Server) handleGetHierarchy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hierarchy, err := s.scanner.GetHierarchy(false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("vault scan failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatHierarchy(hierarchy)), nil
}

// handleRescanVault forces a fresh scan and returns the updated taxonomy.
func (s *Server) handleRescanVault(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hierarchy, err := s.scanner.Rescan()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rescan failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Rescan complete.\n\n" + formatHierarchy(hierarchy)), nil
}

// handleLookupArtifact resolves a capture identifier to its note path.
func (s *Server) handleLookupArtifact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("capture_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: capture_id"), nil
	}

	path, ok, err := s.store.Artifact(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("state lookup failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No note recorded for capture %q.", id)), nil
	}
	return mcp.NewToolResultText(path), nil
}

// formatHierarchy converts the taxonomy into indented text for agent
// consumption.
func formatHierarchy(h vault.Hierarchy) string {
	var sb strings.Builder
	domains := h.Domains()
	sb.WriteString(fmt.Sprintf("Vault taxonomy (%d domains):\n", len(domains)))

	for _, domain := range domains {
		sb.WriteString(fmt.Sprintf("\n%s\n", domain))
		byDomain := h[domain]
		sections := make([]string, 0, len(byDomain))
		for section := range byDomain {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		for _, section := range sections {
			sb.WriteString(fmt.Sprintf("  %s\n", section))
			for _, subject := range byDomain[section] {
				sb.WriteString(fmt.Sprintf("    %s\n", subject))
			}
		}
	}

	return sb.String()
}
