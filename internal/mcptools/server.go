// internal/mcptools/server.go
//
// MCP surface of the mystery.
// Responsibilities:
//   - Register the seven game tools on a go-sdk server.
//   - Serve that server over streamable HTTP (mounted at /mcp) or stdio.
//
// All tools share the one game session.

package mcptools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/robalobadob/blackwood-mystery/internal/config"
	"github.com/robalobadob/blackwood-mystery/internal/game"
)

const (
	serverName    = "blackwood-mystery"
	serverVersion = "1.0.0"
)

// NewServer builds an MCP server exposing the game tools.
func NewServer(cfg config.Config, s *game.Session) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	Register(srv, cfg, s)
	return srv
}

// Register adds every game tool to srv.
func Register(srv *mcp.Server, cfg config.Config, s *game.Session) {
	mcp.AddTool(srv, ValidateTool(), ValidateHandler(cfg))
	mcp.AddTool(srv, StartGameTool(), StartGameHandler(s))
	mcp.AddTool(srv, GoTool(), GoHandler(s))
	mcp.AddTool(srv, ExamineTool(), ExamineHandler(s))
	mcp.AddTool(srv, CollectTool(), CollectHandler(s))
	mcp.AddTool(srv, InterrogateTool(), InterrogateHandler(s))
	mcp.AddTool(srv, AccuseTool(), AccuseHandler(s))
}

// HTTPHandler serves srv over the streamable HTTP transport.
func HTTPHandler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return srv }, nil)
}

// ServeStdio runs srv on stdin/stdout until ctx is cancelled or the client disconnects.
func ServeStdio(ctx context.Context, srv *mcp.Server) error {
	return serveWithTransport(ctx, srv, &mcp.StdioTransport{})
}

func serveWithTransport(ctx context.Context, srv *mcp.Server, transport mcp.Transport) error {
	if srv == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	err := srv.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
