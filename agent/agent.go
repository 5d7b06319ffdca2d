// Package agent implements the capability-set agent variants of spec
// section 4.3: casual, coder, file, planner, browser, mcp, and retrieval.
// All variants share {process, set_org, memory, type, agent_name,
// role_prompt}; the process signature differs for retrieval (query,
// bot_key, db) versus the rest (query, speech_handle), so Interaction
// dispatches on Type() rather than a single uniform method, per spec
// section 9's "model this as a sum type tagged by type" guidance.
package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/jeeva2334/asklly-agents-v1/databases"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
)

// Type is the closed set of agent variants from spec section 3.
type Type string

const (
	TypeCasual    Type = "casual"
	TypeCoder     Type = "coder"
	TypeFile      Type = "file"
	TypePlanner   Type = "planner"
	TypeBrowser   Type = "browser"
	TypeMCP       Type = "mcp"
	TypeRetrieval Type = "retrieval"
)

// Agent is the common surface every variant implements.
type Agent interface {
	Type() Type
	Name() string
	RolePrompt() string
	Memory() *memory.Memory
	SetOrg(org, uid string)
}

// StandardAgent covers every variant except retrieval: process(query, speech_handle).
type StandardAgent interface {
	Agent
	Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error)
}

// RetrievalAgent is the retrieval variant's process(query, bot_key, db) shape.
type RetrievalAgent interface {
	Agent
	Process(ctx context.Context, query, botKey string, db databases.DatabaseProvider) (answer, reasoning string, err error)
}

// base carries the state and push/provider-call discipline common to every
// standard agent variant (§4.3's "internal discipline" paragraph): push the
// user message before calling the provider, push the assistant message only
// on success, never push a partial output.
type base struct {
	name       string
	agentType  Type
	rolePrompt string
	mem        *memory.Memory
	provider   llms.Provider

	org string
	uid string
}

func newBase(name string, agentType Type, rolePrompt string, mem *memory.Memory, provider llms.Provider) base {
	return base{name: name, agentType: agentType, rolePrompt: rolePrompt, mem: mem, provider: provider}
}

func (b *base) Type() Type              { return b.agentType }
func (b *base) Name() string            { return b.name }
func (b *base) RolePrompt() string      { return b.rolePrompt }
func (b *base) Memory() *memory.Memory  { return b.mem }
func (b *base) SetOrg(org, uid string)  { b.org, b.uid = org, uid }

// respond pushes the user turn, calls the provider over the full history,
// and on success pushes the assistant turn. On a propagating
// (KindUnexpected) error, nothing assistant-side is pushed — the user
// turn stays in memory, matching "on failure, do not push the partial
// output" (the user message itself is not "output", so it is kept).
func (b *base) respond(ctx context.Context, query string) (answer, reasoning string, err error) {
	b.mem.Push(ctx, "user", query, "", "")

	history := toProviderHistory(b.mem.Get())
	raw, respErr := b.provider.Respond(ctx, history)
	if respErr != nil {
		return "", "", respErr
	}

	answer, reasoning = extractReasoning(raw)
	b.mem.Push(ctx, "assistant", answer, "", "")
	return answer, reasoning, nil
}

func toProviderHistory(messages []memory.Message) []llms.Message {
	out := make([]llms.Message, len(messages))
	for i, m := range messages {
		out[i] = llms.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

var reasoningPattern = regexp.MustCompile(`(?s)<reasoning>(.*?)</reasoning>`)

// extractReasoning splits a raw model response on the
// <reasoning>...</reasoning> delimiter convention of spec section 4.3.
// Responses without the envelope are returned unchanged with no reasoning.
func extractReasoning(raw string) (answer, reasoning string) {
	match := reasoningPattern.FindStringSubmatchIndex(raw)
	if match == nil {
		return strings.TrimSpace(raw), ""
	}
	reasoning = strings.TrimSpace(raw[match[2]:match[3]])
	answer = strings.TrimSpace(raw[:match[0]] + raw[match[1]:])
	return answer, reasoning
}
