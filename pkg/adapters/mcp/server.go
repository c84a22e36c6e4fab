// Package mcp exposes the conversation engine as an MCP server so
// agent hosts can drive support sessions through tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	concierge "github.com/aretw0/concierge"
)

// Server wraps the engine and exposes it over MCP.
type Server struct {
	engine    *concierge.Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(engine *concierge.Engine, logger *slog.Logger) *Server {
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("concierge-mcp", strings.TrimSpace(concierge.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("mcp server listening (sse)", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	submitTool := mcp.NewTool("submit_message",
		mcp.WithDescription("Send a user message into a support session and return the assistant's turn result. Suspends with requires_decision when a sensitive action awaits approval."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation session ID")),
		mcp.WithString("caller_id", mcp.Required(), mcp.Description("ID of the passenger sending the message")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The message text")),
		mcp.WithOutputSchema[concierge.TurnResult](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmitMessage))

	decisionTool := mcp.NewTool("submit_decision",
		mcp.WithDescription("Approve or reject the pending sensitive actions of a suspended session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation session ID")),
		mcp.WithString("caller_id", mcp.Required(), mcp.Description("ID of the passenger deciding")),
		mcp.WithBoolean("approved", mcp.Required(), mcp.Description("Whether the pending actions may run")),
		mcp.WithString("reason", mcp.Description("Optional reason, relayed to the assistant on rejection")),
		mcp.WithOutputSchema[concierge.TurnResult](),
	)
	s.mcpServer.AddTool(decisionTool, mcp.NewStructuredToolHandler(s.handleSubmitDecision))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the full conversation state of a session for inspection."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation session ID")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List the IDs of all stored sessions."),
	), s.handleListSessions)
}

func (s *Server) handleSubmitMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (concierge.TurnResult, error) {
	sessionID, _ := args["session_id"].(string)
	callerID, _ := args["caller_id"].(string)
	text, _ := args["text"].(string)

	result, err := s.engine.Submit(ctx, sessionID, callerID, text)
	if err != nil {
		return concierge.TurnResult{}, fmt.Errorf("submit failed: %w", err)
	}
	return *result, nil
}

func (s *Server) handleSubmitDecision(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (concierge.TurnResult, error) {
	sessionID, _ := args["session_id"].(string)
	callerID, _ := args["caller_id"].(string)
	approved, _ := args["approved"].(bool)
	reason, _ := args["reason"].(string)

	result, err := s.engine.SubmitDecision(ctx, sessionID, callerID, approved, reason)
	if err != nil {
		return concierge.TurnResult{}, fmt.Errorf("decision failed: %w", err)
	}
	return *result, nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	state, err := s.engine.GetSession(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get session failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(state)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.engine.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list sessions failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(ids)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
