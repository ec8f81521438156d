// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido's review tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/review"
	"github.com/starford/raido/internal/storage"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *review.Service
}

// New creates a new MCP server with all Raido tools registered.
func New(store storage.Provider, svc *review.Service) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("generate_review",
		mcp.WithDescription("Generate a periodic review document from recently modified notes "+
			"and write it into the vault. Returns the output path and run details."),
		mcp.WithString("preset", mcp.Description("Optional period preset override: current_week, "+
			"current_month, last_7_days, or last_30_days")),
	), s.generateReview)

	s.mcp.AddTool(mcp.NewTool("summarize_note",
		mcp.WithDescription("Summarize a Markdown note and merge the result into its Summary "+
			"section in place."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.summarizeNote)

	s.mcp.AddTool(mcp.NewTool("list_recent_notes",
		mcp.WithDescription("List notes modified within the last N days, newest first."),
		mcp.WithString("folder", mcp.Description("Optional folder to restrict to (empty for the whole vault)")),
		mcp.WithNumber("days", mcp.Description("Lookback window in days (default 7)")),
	), s.listRecentNotes)

	s.mcp.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recently recorded review runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (default 10)")),
	), s.listRuns)

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

func (s *Server) generateReview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	svc := s.svc
	if p, err := req.RequireString("preset"); err == nil && p != "" {
		preset := models.Preset(p)
		if !preset.Valid() || preset == models.PresetCustom {
			return mcp.NewToolResultError(fmt.Sprintf("unknown preset: %s", p)), nil
		}
		svc = svc.WithPreset(preset)
	}

	res, err := svc.GenerateReview(ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) summarizeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := s.svc.SummarizeNote(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s\n\n%s", path, summary)), nil
}

func (s *Server) listRecentNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}
	days := 7
	if d, err := req.RequireFloat("days"); err == nil && d > 0 {
		days = int(d)
	}

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	var recent []models.NoteMetadata
	for _, m := range metas {
		if !m.Mtime.Before(cutoff) {
			recent = append(recent, m)
		}
	}
	if len(recent) == 0 {
		return mcp.NewToolResultText("no recently modified notes"), nil
	}

	var lines []string
	for _, m := range recent {
		lines = append(lines, fmt.Sprintf("%s\t%s", m.Path, m.Mtime.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 10
	if l, err := req.RequireFloat("limit"); err == nil && l > 0 {
		limit = int(l)
	}

	runs, err := s.svc.Runs(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("no recorded runs"), nil
	}
	out, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
