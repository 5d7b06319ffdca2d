package agent

import (
	"context"

	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
)

// CasualAgent handles small talk and anything no other specialist claims.
// It is the router's terminal fallback (spec section 4.2).
type CasualAgent struct {
	base
}

func NewCasualAgent(name, rolePrompt string, mem *memory.Memory, provider llms.Provider) *CasualAgent {
	return &CasualAgent{base: newBase(name, TypeCasual, rolePrompt, mem, provider)}
}

func (a *CasualAgent) Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error) {
	return a.respond(ctx, query)
}
