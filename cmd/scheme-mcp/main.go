// Command scheme-mcp exposes a running scheme-session as MCP tools,
// grounded verbatim on the teacher's mcp-logos/main.go (same
// send/formatResult shape, same socket dial-on-startup pattern).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"scheme/internal/wire"
)

var (
	conn   net.Conn
	connMu sync.Mutex
)

func send(req map[string]any) (map[string]any, error) {
	req["id"] = wire.NextID()
	connMu.Lock()
	defer connMu.Unlock()
	if err := wire.WriteMsg(conn, req); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	resp, err := wire.ReadMsg(conn)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return resp, nil
}

func formatResult(resp map[string]any) (*mcp.CallToolResult, error) {
	ok, _ := resp["ok"].(bool)
	if !ok {
		errMsg, _ := resp["error"].(string)
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return mcp.NewToolResultError(errMsg), nil
	}
	out, err := json.MarshalIndent(resp["value"], "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal value: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}

func handleEval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := send(map[string]any{"op": "eval", "expr": expr})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func handleDefine(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := send(map[string]any{"op": "define", "name": name, "expr": expr})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func handleTraces(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := map[string]any{"op": "traces"}
	if limit := request.GetFloat("limit", 0); limit > 0 {
		req["limit"] = limit
	}
	resp, err := send(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return formatResult(resp)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	sockPath := envOr("SCHEME_SOCK", "/tmp/scheme-session.sock")

	var err error
	conn, err = net.Dial("unix", sockPath)
	if err != nil {
		log.Fatalf("connect to %s: %v", sockPath, err)
	}
	defer conn.Close()
	log.Printf("connected to scheme-session: %s", sockPath)

	s := server.NewMCPServer(
		"scheme",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("scheme_eval",
			mcp.WithDescription("Evaluate a Scheme expression against the persistent top-level environment."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("S-expression to evaluate, e.g. (+ 1 2)"),
			),
		),
		handleEval,
	)

	s.AddTool(
		mcp.NewTool("scheme_define",
			mcp.WithDescription("Bind a name to an expression's value in the persistent top-level environment."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Name to define"),
			),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("S-expression for the name's value"),
			),
		),
		handleDefine,
	)

	s.AddTool(
		mcp.NewTool("scheme_traces",
			mcp.WithDescription("List recent top-level evaluations and their results or errors."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of traces to return (the most recent ones, oldest first)"),
			),
		),
		handleTraces,
	)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
