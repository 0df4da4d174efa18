// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the library catalog for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/index"
	"github.com/starford/othala/internal/libservice"
)

// Server wraps the MCP server with library tools.
type Server struct {
	mcp *server.MCPServer
	svc *libservice.Service
}

// New creates a new MCP server with all library tools registered.
func New(svc *libservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_library",
		mcp.WithDescription("Full-text search through the library catalog. "+
			"Each word matches as a prefix against filename, title, summary, and keywords; "+
			"a blank query lists the most recently modified documents."),
		mcp.WithString("query", mcp.Description("Search query string (may be empty)")),
		mcp.WithString("from_date", mcp.Description("Only documents modified on or after this date (e.g. 2024-01-01)")),
		mcp.WithString("to_date", mcp.Description("Only documents modified on or before this date")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 50)")),
	), s.searchLibrary)

	s.mcp.AddTool(mcp.NewTool("recent_files",
		mcp.WithDescription("List library documents most recently opened by the user."),
		mcp.WithNumber("limit", mcp.Description("Max results (default 50)")),
	), s.recentFiles)

	s.mcp.AddTool(mcp.NewTool("inspect_document",
		mcp.WithDescription("Read a document's embedded metadata (title, summary, modified time, "+
			"snapshot count) straight from disk without touching the catalog."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the document file")),
	), s.inspectDocument)

	s.mcp.AddTool(mcp.NewTool("rebuild_library",
		mcp.WithDescription("Reconcile the catalog against the documents under a library root. "+
			"Returns the number of documents indexed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path to the library root directory")),
	), s.rebuildLibrary)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := index.SearchParams{
		Query:    req.GetString("query", ""),
		FromDate: req.GetString("from_date", ""),
		ToDate:   req.GetString("to_date", ""),
		Limit:    req.GetInt("limit", 0),
	}
	files, err := s.svc.SearchFiles(ctx, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(files, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) recentFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	files, err := s.svc.GetRecentFiles(ctx, req.GetInt("limit", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(files, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) inspectDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	meta, err := s.svc.InspectDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(meta, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) rebuildLibrary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	processed, err := s.svc.RebuildLibrary(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("processed %d documents", processed)), nil
}
