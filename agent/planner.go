package agent

import (
	"context"

	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
)

// PlannerAgent decomposes a goal into ordered steps. Like CasualAgent and
// CoderAgent it differs from them only in role prompt and registration
// examples; the decomposition itself is left to the model.
type PlannerAgent struct {
	base
}

func NewPlannerAgent(name, rolePrompt string, mem *memory.Memory, provider llms.Provider) *PlannerAgent {
	return &PlannerAgent{base: newBase(name, TypePlanner, rolePrompt, mem, provider)}
}

func (a *PlannerAgent) Process(ctx context.Context, query, speechHandle string) (answer, reasoning string, err error) {
	return a.respond(ctx, query)
}
