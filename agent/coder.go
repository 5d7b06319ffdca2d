package agent

import (
	"context"

	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
)

// CoderAgent answers programming questions and produces code. It is a
// thin role-prompt specialization; tool execution (interpreters) is out
// of scope per spec section 1.
type CoderAgent struct {
	base
}

func NewCoderAgent(name, rolePrompt string, mem *memory.Memory, provider llms.Provider) *CoderAgent {
	return &CoderAgent{base: newBase(name, TypeCoder, rolePrompt, mem, provider)}
}

func (a *CoderAgent) Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error) {
	return a.respond(ctx, query)
}
