package agent

import (
	"context"
	"fmt"
	"log/slog"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
)

// McpAgent is present in original_source/agents/__init__.py but named only
// in spec.md's closed agent-type set (§3) without a dedicated description;
// it supplements the spec per SPEC_FULL.md section C.2. It bridges to one
// MCP server over stdio, listing available tools and folding that catalog
// into the prompt so the model can reference them by name.
//
// Grounded on hieuntg81-alfred-ai's internal/adapter/tool/mcp_bridge.go for
// the client/transport wiring.
type McpAgent struct {
	base
	client *mcpclient.Client
}

// NewMcpAgent starts a new MCP server process over stdio and
// discovers its tool catalog at construction time, matching the bridge's
// "connect once, reuse for the session" lifetime.
func NewMcpAgent(ctx context.Context, name, rolePrompt string, mem *memory.Memory, provider llms.Provider, command string, args ...string) (*McpAgent, error) {
	client, err := mcpclient.NewStdioMCPClient(command, nil, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp agent: failed to start server %q: %w", command, err)
	}
	if err := client.Start(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("mcp agent: failed to start client: %w", err)
	}

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "asklly-agents", Version: "1.0.0"}
	if _, err := client.Initialize(ctx, initReq); err != nil {
		client.Close()
		return nil, fmt.Errorf("mcp agent: initialize failed: %w", err)
	}

	return &McpAgent{base: newBase(name, TypeMCP, rolePrompt, mem, provider), client: client}, nil
}

func (a *McpAgent) Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error) {
	if catalog := a.toolCatalog(ctx); catalog != "" {
		query = fmt.Sprintf("%s\n\n--- available MCP tools ---\n%s", query, catalog)
	}
	return a.respond(ctx, query)
}

func (a *McpAgent) toolCatalog(ctx context.Context) string {
	result, err := a.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		slog.Warn("mcp agent: tool discovery failed", "error", err)
		return ""
	}
	catalog := ""
	for _, t := range result.Tools {
		catalog += fmt.Sprintf("- %s: %s\n", t.Name, t.Description)
	}
	return catalog
}

// Close releases the MCP server connection.
func (a *McpAgent) Close() error {
	return a.client.Close()
}
