// Package mcp exposes the orchestration services as MCP tools. Handlers
// are thin: unwrap arguments, call a service, render text. All failures
// come back as tool results, never as protocol errors, so a bad call
// cannot take the session down.
package mcp

import (
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"kdenlive-mcp/internal/checkpoint"
	"kdenlive-mcp/internal/kdenlive"
	"kdenlive-mcp/internal/report"
	"kdenlive-mcp/internal/undo"
	"kdenlive-mcp/internal/workflow"
)

const instructions = `Kdenlive MCP gives you NLE control over a running Kdenlive instance via D-Bus.

COMPOSITE TOOLS (use these first):
  build_timeline        - full assembly from scene clips (import + sequence + transitions + audio)
  replace_scene         - swap one scene clip by number, keep position and duration
  add_transitions_batch - cross-dissolves between all adjacent clips on a track
  get_timeline_summary  - text table of all clips on the timeline

ATOMIC TOOLS: import_media, get_media_pool, get_track_list, replace_clip,
  add_transition, checkpoint_save, checkpoint_restore, undo, redo,
  undo_status, save_project, load_project.

RULES:
  - Kdenlive must be running (D-Bus runtime, not file-based)
  - Frames on input, timecodes on output
  - Prefer composite tools; they handle full workflows in one call
  - checkpoint_save before risky edits; checkpoint_restore to roll back

WHEN IN DOUBT: call get_timeline_summary to see current state.`

// Server registers the tool surface on an MCP server.
type Server struct {
	mcpServer *server.MCPServer
	workflows *workflow.Service
	ckpt      *checkpoint.Manager
	undo      *undo.Reporter
	insp      *report.Inspector
	client    kdenlive.Client
}

// NewServer wires the tool surface over the services.
func NewServer(workflows *workflow.Service, ckpt *checkpoint.Manager, rep *undo.Reporter, insp *report.Inspector, client kdenlive.Client) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"kdenlive",
			"1.0.0",
			server.WithToolCapabilities(true),
			server.WithInstructions(instructions),
		),
		workflows: workflows,
		ckpt:      ckpt,
		undo:      rep,
		insp:      insp,
		client:    client,
	}
	s.registerTools()
	return s
}

// GetMCPServer exposes the underlying server for transport mounting.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the server on stdin/stdout, the transport the original
// desktop setup uses.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// MountHTTPHandlers mounts SSE transport endpoints under /mcp.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}

// ----- argument unwrapping -----

func toolArgs(request mcp.CallToolRequest) (map[string]interface{}, bool) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	return args, ok
}

func argString(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return def
}

func argInt(args map[string]interface{}, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}

func argBool(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func argStrings(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// outcomeResult renders a workflow result. Errors become tool errors with
// the partial outcome log attached so the caller still sees what happened
// before the failure.
func outcomeResult(text string, err error) *mcp.CallToolResult {
	if err != nil {
		if text != "" {
			return mcp.NewToolResultError(fmt.Sprintf("%v\n\n%s", err, text))
		}
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}
