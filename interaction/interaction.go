// Package interaction drives one session's conversation engine: the
// set_query -> think state machine of spec section 4.5, mediating
// between the router, the selected agent, and the caller's polling of
// last_answer/is_generating.
package interaction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeeva2334/asklly-agents-v1/agent"
	"github.com/jeeva2334/asklly-agents-v1/browser"
	"github.com/jeeva2334/asklly-agents-v1/databases"
	"github.com/jeeva2334/asklly-agents-v1/router"
)

// Interaction is the per-session conversation driver described in spec
// section 4.5. Zero value is not usable; construct with New.
type Interaction struct {
	agents   []agent.Agent
	router   *router.Router
	browser  *browser.Browser
	languages []string

	mu             sync.Mutex
	isActive       bool
	currentAgent   agent.Agent
	lastQuery      string
	lastAnswer     string
	lastReasoning  string
	botKey         string
	db             databases.DatabaseProvider
	lastActivity   time.Time

	isGenerating atomic.Bool
}

// New builds an Interaction over a fixed agent pool and router, as
// constructed by the session manager for one session.
func New(agents []agent.Agent, rtr *router.Router, br *browser.Browser, languages []string) *Interaction {
	return &Interaction{
		agents:       agents,
		router:       rtr,
		browser:      br,
		languages:    languages,
		isActive:     true,
		lastActivity: time.Now(),
	}
}

// AiName returns the configured assistant name, taken from the casual
// agent's agent_name, or "jarvis" if none is registered — mirroring
// original_source/interaction.py's _find_ai_name.
func (it *Interaction) AiName() string {
	for _, a := range it.agents {
		if a.Type() == agent.TypeCasual {
			return a.Name()
		}
	}
	return "jarvis"
}

// SetQuery transitions IDLE->QUEUED: records the query, bot key, and db
// handle, and refreshes last_activity. It never invokes the model.
func (it *Interaction) SetQuery(query, botKey string, db databases.DatabaseProvider) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.isActive = true
	it.lastQuery = query
	it.botKey = botKey
	it.db = db
	it.lastActivity = time.Now()
}

// LastActivity returns the timestamp of the most recent SetQuery or Think.
func (it *Interaction) LastActivity() time.Time {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.lastActivity
}

// IsGenerating reports whether a Think call is currently in flight.
func (it *Interaction) IsGenerating() bool { return it.isGenerating.Load() }

// LastAnswer and LastReasoning return the most recently captured turn
// output. Callers poll these rather than awaiting Think.
func (it *Interaction) LastAnswer() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.lastAnswer
}

func (it *Interaction) LastReasoning() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.lastReasoning
}

// Think routes the queued query to an agent and drives it to produce an
// answer. It returns false (without error) if no query is queued or no
// agent could be selected; a second concurrent Think while one is already
// in flight is a caller error and is rejected.
func (it *Interaction) Think(ctx context.Context, uid, org string) (bool, error) {
	it.mu.Lock()
	query := it.lastQuery
	botKey := it.botKey
	db := it.db
	it.lastActivity = time.Now()
	it.mu.Unlock()

	if query == "" {
		return false, nil
	}
	if !it.isGenerating.CompareAndSwap(false, true) {
		return false, fmt.Errorf("interaction: think already in progress")
	}
	defer it.isGenerating.Store(false)

	selected, err := it.router.SelectAgent(ctx, query)
	if err != nil || selected == nil {
		return false, nil
	}
	selected.SetOrg(org, uid)

	it.mu.Lock()
	previous := it.currentAgent
	priorAnswer := it.lastAnswer
	it.mu.Unlock()

	// Cross-agent handoff rule: thread the prior answer into the newly
	// selected agent's memory before processing, so context survives an
	// agent switch.
	if previous != nil && previous != selected && priorAnswer != "" {
		selected.Memory().Push(ctx, "assistant", priorAnswer, "", "")
	}

	answer, reasoning, procErr := it.dispatch(ctx, selected, query, botKey, db)
	if procErr != nil {
		slog.Error("agent process failed", "agent", selected.Name(), "error", procErr)
		it.mu.Lock()
		it.currentAgent = selected
		it.mu.Unlock()
		return false, procErr
	}

	it.mu.Lock()
	it.currentAgent = selected
	it.lastAnswer = answer
	it.lastReasoning = reasoning
	it.mu.Unlock()

	return true, nil
}

// dispatch calls the selected agent's process method with the shape its
// type requires: retrieval takes (query, bot_key, db); every other
// variant takes (query, speech_handle).
func (it *Interaction) dispatch(ctx context.Context, selected agent.Agent, query, botKey string, db databases.DatabaseProvider) (string, string, error) {
	if selected.Type() == agent.TypeRetrieval {
		ra, ok := selected.(agent.RetrievalAgent)
		if !ok {
			return "", "", fmt.Errorf("interaction: agent %q is tagged retrieval but does not implement RetrievalAgent", selected.Name())
		}
		return ra.Process(ctx, query, botKey, db)
	}

	sa, ok := selected.(agent.StandardAgent)
	if !ok {
		return "", "", fmt.Errorf("interaction: agent %q does not implement StandardAgent", selected.Name())
	}
	return sa.Process(ctx, query, "")
}

// Close tears down the session's browser driver off the event loop. Safe
// to call multiple times (Browser.Quit is idempotent).
func (it *Interaction) Close() {
	if it.browser != nil {
		it.browser.Quit()
	}
	it.mu.Lock()
	it.isActive = false
	it.mu.Unlock()
}

// LoadLastSession loads nothing itself: memory.New already reloads each
// agent's prior buffer from the document store when the agent is built,
// so this only reads each non-planner agent's memory and returns —
// grounded on original_source/interaction.py's load_last_session.
func (it *Interaction) LoadLastSession() {
	for _, a := range it.agents {
		if a.Type() == agent.TypePlanner {
			continue
		}
		// memory.New already attempts recovery at construction; this is a
		// best-effort no-op hook kept for symmetry with the source's
		// explicit resume step, should a future memory reload API be added.
		_ = a.Memory().Get()
	}
}
