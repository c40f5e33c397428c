// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes notification tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sowilo/internal/api"
)

// Server wraps the MCP server with notification tools.
type Server struct {
	mcp *server.MCPServer
	svc *api.Service
}

// New creates a new MCP server with all notification tools registered.
func New(svc *api.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Sowilo",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notifications",
		mcp.WithDescription("List notifications, newest first."),
		mcp.WithString("limit", mcp.Description("Maximum number of notifications to return (default 20)")),
		mcp.WithBoolean("unread", mcp.Description("Only return unread notifications")),
	), s.listNotifications)

	s.mcp.AddTool(mcp.NewTool("search_notifications",
		mcp.WithDescription("Full-text search through notification subjects and previews."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotifications)

	s.mcp.AddTool(mcp.NewTool("read_notification",
		mcp.WithDescription("Read the full detail of a notification, including enabled actions."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Notification id")),
	), s.readNotification)

	s.mcp.AddTool(mcp.NewTool("mark_notification_read",
		mcp.WithDescription("Mark a notification as read."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Notification id")),
	), s.markNotificationRead)

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

func (s *Server) listNotifications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := 20
	if raw := req.GetString("limit", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid limit: %q", raw)), nil
		}
		limit = n
	}
	unread := req.GetBool("unread", false)

	items, _, err := s.svc.List(ctx, limit, 0, unread)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchNotifications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := make([]api.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = api.SearchResult{ID: hit.ID, Subject: hit.Subject, Snippet: hit.Snippet}
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNotification(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) markNotificationRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.MarkRead(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("marked read: %s", id)), nil
}
