package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/internal/logging"
	"github.com/aretw0/scorm/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SessionResponse describes a hosted session to the agent.
type SessionResponse struct {
	SessionID string   `json:"session_id" jsonschema_description:"Identifier to pass to the other tools"`
	Variant   string   `json:"variant" jsonschema_description:"Data model variant"`
	State     string   `json:"state" jsonschema_description:"Lifecycle state"`
	Methods   []string `json:"methods" jsonschema_description:"API methods accepted by the call tool"`
}

// CallResponse is the outcome of an API call.
type CallResponse struct {
	Result    string `json:"result" jsonschema_description:"Return value of the API method"`
	ErrorCode string `json:"errorCode" jsonschema_description:"Error register after the call, 0 when it succeeded"`
	ErrorText string `json:"errorText,omitempty" jsonschema_description:"Short message for a non-zero errorCode"`
}

// Server exposes hosted sessions as an MCP Server.
type Server struct {
	manager   *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(mgr *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		manager:   mgr,
		mcpServer: server.NewMCPServer("scorm-mcp", strings.TrimSpace(scorm.Version)),
		logger:    logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	createTool := mcp.NewTool("create_session",
		mcp.WithDescription("Start a learner session for a data model variant (scorm12, scorm2004, aicc)."),
		mcp.WithString("variant", mcp.Required(), mcp.Description("Variant name")),
		mcp.WithString("session_id", mcp.Description("Session identifier (optional, generated when omitted)")),
		mcp.WithString("data", mcp.Description("JSON object hydrating the data model before initialization (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(createTool, mcp.NewStructuredToolHandler(s.handleCreate))

	callTool := mcp.NewTool("call",
		mcp.WithDescription("Call a runtime API method, e.g. LMSSetValue or SetValue, on a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("method", mcp.Required(), mcp.Description("API method name")),
		mcp.WithString("args", mcp.Description(`JSON array of string arguments, e.g. ["cmi.core.lesson_status","passed"]`)),
		mcp.WithOutputSchema[CallResponse](),
	)
	s.mcpServer.AddTool(callTool, mcp.NewStructuredToolHandler(s.handleCall))

	s.mcpServer.AddTool(mcp.NewTool("get_data_model",
		mcp.WithDescription("Get the session's data model as JSON."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		sess, err := s.manager.Get(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(sess.ExportJSONString()), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("remove_session",
		mcp.WithDescription("Terminate the session if it is running and stop hosting it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		if err := s.manager.Remove(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText("removed " + id), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List hosted session identifiers."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.manager.List())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	variant, _ := args["variant"].(string)

	var opts []scorm.Option
	if id, ok := args["session_id"].(string); ok && id != "" {
		opts = append(opts, scorm.WithSessionID(id))
	}

	var data map[string]any
	if raw, ok := args["data"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return SessionResponse{}, fmt.Errorf("invalid data: %w", err)
		}
	}

	sess, err := s.manager.Create(ctx, variant, opts...)
	if err != nil {
		return SessionResponse{}, err
	}
	if data != nil {
		sess.LoadFromJSON(data, "")
	}
	methods, err := s.manager.Methods(sess.ID())
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponse{
		SessionID: sess.ID(),
		Variant:   sess.Variant().Name(),
		State:     sess.State().String(),
		Methods:   methods,
	}, nil
}

func (s *Server) handleCall(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CallResponse, error) {
	id, _ := args["session_id"].(string)
	method, _ := args["method"].(string)

	var callArgs []string
	if raw, ok := args["args"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &callArgs); err != nil {
			return CallResponse{}, fmt.Errorf("args must be a JSON array of strings: %w", err)
		}
	}

	res, err := s.manager.Call(ctx, id, method, callArgs...)
	if err != nil {
		s.logger.Warn("MCP call rejected", "session_id", id, "method", method, "err", err)
		return CallResponse{}, err
	}

	out := CallResponse{Result: res.Result, ErrorCode: res.ErrorCode}
	if res.ErrorCode != "0" {
		if sess, err := s.manager.Get(id); err == nil {
			out.ErrorText = sess.GetErrorString(res.ErrorCode)
		}
	}
	return out, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("scorm://variants", "Available data model variants",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, _ := json.Marshal(s.manager.Variants())
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "scorm://variants",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
