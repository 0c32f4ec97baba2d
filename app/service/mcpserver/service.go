// Package mcpserver exposes the moderation pipeline as MCP tools over
// stdio, so agent runtimes can moderate messages through the same
// engine the HTTP API uses.
package mcpserver

import (
	"context"
	"convoease/app/config"
	"convoease/app/service/moderation"
	"convoease/app/service/rules"
	"convoease/app/service/session"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
)

const (
	serverName    = "convoease"
	serverVersion = "1.0.0"
)

type Service struct {
	cfg           *config.Config
	moderationSvc *moderation.Service
	sessionSvc    *session.Service
	rulesSvc      *rules.Service

	srv *server.MCPServer
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:           do.MustInvoke[*config.Config](di),
		moderationSvc: do.MustInvoke[*moderation.Service](di),
		sessionSvc:    do.MustInvoke[*session.Service](di),
		rulesSvc:      do.MustInvoke[*rules.Service](di),
	}

	s.srv = server.NewMCPServer(serverName, serverVersion)
	s.registerTools()

	return s, nil
}

func (s *Service) registerTools() {
	s.srv.AddTool(mcp.NewTool("moderate_message",
		mcp.WithDescription("Run a chat message through the moderation pipeline and record the verdict."),
		mcp.WithString("sender", mcp.Description("Display name of the message author.")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The message text to moderate.")),
	), s.handleModerateMessage)

	s.srv.AddTool(mcp.NewTool("session_stats",
		mcp.WithDescription("Return the session counters and approval rate."),
	), s.handleSessionStats)

	s.srv.AddTool(mcp.NewTool("update_rules",
		mcp.WithDescription("Replace the active moderation ruleset. One rule per line."),
		mcp.WithString("rules", mcp.Required(), mcp.Description("Rule text, one rule per line.")),
	), s.handleUpdateRules)

	s.srv.AddTool(mcp.NewTool("clear_session",
		mcp.WithDescription("Reset the transcript, flagged log and counters."),
	), s.handleClearSession)
}

func (s *Service) handleModerateMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sender := request.GetString("sender", "agent")

	entry, err := s.moderationSvc.Evaluate(ctx, sender, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("moderation failed: %s", err)), nil
	}

	return jsonToolResult(entry)
}

func (s *Service) handleSessionStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonToolResult(s.sessionSvc.Stats())
}

func (s *Service) handleUpdateRules(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rulesText, err := request.RequireString("rules")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.rulesSvc.Update(strings.Split(rulesText, "\n")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rules update failed: %s", err)), nil
	}

	return jsonToolResult(s.rulesSvc.Snapshot())
}

func (s *Service) handleClearSession(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.moderationSvc.Clear()

	return jsonToolResult(s.sessionSvc.Stats())
}

func jsonToolResult(value any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}

	return mcp.NewToolResultText(string(data)), nil
}

// Run serves MCP over stdio until the context is cancelled or stdin is
// closed by the client.
func (s *Service) Run(ctx context.Context) {
	slog.Info("MCP server listening on stdio")

	stdioServer := server.NewStdioServer(s.srv)

	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		slog.Error("MCP server stopped", "error", err)
	}
}
