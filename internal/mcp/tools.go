package mcp

import "github.com/mark3labs/mcp-go/mcp"

// classifyCaptureTool defines the classify_capture MCP tool.
var classifyCaptureTool = mcp.NewTool("classify_capture",
	mcp.WithDescription("Classify a free-text capture into the vault taxonomy: domain, section, subject, and category, with a confidence score."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The capture text to classify"),
	),
)

// getHierarchyTool defines the get_hierarchy MCP tool.
var getHierarchyTool = mcp.NewTool("get_hierarchy",
	mcp.WithDescription("Get the vault's three-level folder taxonomy: domains, their sections, and the subjects under each."),
)

// rescanVaultTool defines the rescan_vault MCP tool.
var rescanVaultTool = mcp.NewTool("rescan_vault",
	mcp.WithDescription("Force a fresh filesystem scan of the vault, bypassing the cached vocabulary."),
)

// lookupArtifactTool defines the lookup_artifact MCP tool.
var lookupArtifactTool = mcp.NewTool("lookup_artifact",
	mcp.WithDescription("Look up the vault note created for a previously processed capture."),
	mcp.WithString("capture_id",
		mcp.Required(),
		mcp.Description("Identifier of the processed capture"),
	),
)
