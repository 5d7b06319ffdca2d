// Package session implements the session manager of spec section 4.1:
// lifecycle of concurrent, isolated conversation instances, each owning a
// provider client, a browser driver, and a full agent set behind one
// Interaction.
//
// Grounded on original_source/session_manager.py's create_session/
// get_session/close_session/cleanup_inactive_sessions and the teacher's
// mutex-guarded-registry-mutations-only discipline.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeeva2334/asklly-agents-v1/agent"
	"github.com/jeeva2334/asklly-agents-v1/browser"
	"github.com/jeeva2334/asklly-agents-v1/config"
	"github.com/jeeva2334/asklly-agents-v1/databases"
	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/interaction"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
	"github.com/jeeva2334/asklly-agents-v1/metrics"
	"github.com/jeeva2334/asklly-agents-v1/pkg/embedders"
	"github.com/jeeva2334/asklly-agents-v1/router"
)

// ResourceAcquisitionError marks a session construction failure per spec
// section 7: fatal to that session only, never registered.
type ResourceAcquisitionError struct {
	Cause error
}

func (e *ResourceAcquisitionError) Error() string {
	return fmt.Sprintf("session: resource acquisition failed: %v", e.Cause)
}
func (e *ResourceAcquisitionError) Unwrap() error { return e.Cause }

// Deps bundles the shared, process-wide collaborators a Manager hands to
// every new session. Per spec section 9's "avoid module-initialized
// singletons for providers or models", the provider and browser are built
// fresh for each session from LLMConfig and BrowserOpts; the document
// store, database provider, embedder, and metrics are instances shared by
// every session.
type Deps struct {
	Config       *config.Config
	LLMConfig    *config.LLMProviderConfig
	Store        docstore.Store
	Database     databases.DatabaseProvider
	Embedder     embedders.EmbedderProvider
	Metrics      *metrics.Metrics
	BrowserOpts  browser.Options
}

// Manager is the process-wide session registry. The zero value is not
// usable; construct with New.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

// Session bundles one conversation's owned resources.
type Session struct {
	CID         string
	Interaction *interaction.Interaction
	Provider    llms.Provider
	Browser     *browser.Browser
	mcpAgent    *agent.McpAgent
}

// New builds an empty Manager bound to deps.
func New(deps Deps) *Manager {
	return &Manager{deps: deps, sessions: make(map[string]*Session)}
}

// CreateSession allocates a new Session. If cid is empty, a fresh id is
// minted. Construction is atomic: on any failure (browser acquisition in
// particular), already-acquired resources are released and no partial
// session is registered.
func (m *Manager) CreateSession(ctx context.Context, cid string) (string, error) {
	if cid == "" {
		cid = uuid.NewString()
	}

	registry := llms.NewRegistry()
	provider, err := registry.CreateFromConfig("primary", m.deps.LLMConfig)
	if err != nil {
		return "", &ResourceAcquisitionError{Cause: err}
	}

	br, err := browser.Acquire(m.deps.BrowserOpts)
	if err != nil {
		provider.Close()
		return "", &ResourceAcquisitionError{Cause: err}
	}

	languages := []string{"en"}
	if m.deps.Config != nil && len(m.deps.Config.Main.Languages) > 0 {
		languages = m.deps.Config.Main.Languages
	}

	agents, mcpAgent := m.buildAgents(ctx, cid, provider, br)
	rtr := router.New(m.deps.Embedder, languages)
	for _, reg := range defaultRegistrations(agents) {
		if err := rtr.Register(reg.agent, reg.description, reg.examples); err != nil {
			br.Quit()
			provider.Close()
			return "", &ResourceAcquisitionError{Cause: err}
		}
	}

	it := interaction.New(agents, rtr, br, languages)
	if m.deps.Config != nil && m.deps.Config.Main.RecoverLastSession {
		it.LoadLastSession()
	}

	sess := &Session{CID: cid, Interaction: it, Provider: provider, Browser: br, mcpAgent: mcpAgent}

	m.mu.Lock()
	m.sessions[cid] = sess
	m.mu.Unlock()

	if m.deps.Metrics != nil {
		m.deps.Metrics.SessionCreated()
	}
	slog.Info("session created", "cid", cid)
	return cid, nil
}

// GetSession is a constant-time registry lookup.
func (m *Manager) GetSession(cid string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[cid]
	return sess, ok
}

// CloseSession removes cid from the registry, then tears down its
// browser and provider off the lock. Idempotent: a second call is a
// no-op.
func (m *Manager) CloseSession(cid string) {
	if m.closeSession(cid) && m.deps.Metrics != nil {
		m.deps.Metrics.SessionClosed()
	}
}

// closeSession does CloseSession's work without touching metrics and
// reports whether cid was registered.
func (m *Manager) closeSession(cid string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[cid]
	if ok {
		delete(m.sessions, cid)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	sess.Interaction.Close()
	sess.Provider.Close()
	if sess.mcpAgent != nil {
		if err := sess.mcpAgent.Close(); err != nil {
			slog.Warn("mcp agent close failed", "cid", cid, "error", err)
		}
	}
	slog.Info("session closed", "cid", cid)
	return true
}

// CleanupInactiveSessions runs until ctx is cancelled, scanning the
// registry every timeout interval and closing sessions whose last
// activity is older than timeout. Crash-only: a panic recovered here is
// logged and the loop continues.
func (m *Manager) CleanupInactiveSessions(ctx context.Context, timeout time.Duration) {
	ticker := time.NewTicker(timeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reapOnce(timeout)
		}
	}
}

func (m *Manager) reapOnce(timeout time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("reaper panic recovered", "panic", r)
		}
	}()

	m.mu.Lock()
	var stale []string
	now := time.Now()
	for cid, sess := range m.sessions {
		if now.Sub(sess.Interaction.LastActivity()) > timeout {
			stale = append(stale, cid)
		}
	}
	m.mu.Unlock()

	for _, cid := range stale {
		if !m.closeSession(cid) {
			continue
		}
		if m.deps.Metrics != nil {
			m.deps.Metrics.SessionReaped()
		}
		slog.Info("session reaped for inactivity", "cid", cid)
	}
}

// buildAgents instantiates the full variant set against one shared
// provider and browser, each with its own Memory backed by the shared
// document store. The mcp agent is optional: it is only built when
// Config.MCP.Command is set, and a failure to start it is logged and
// skipped rather than failing the session, since it supplements the
// built-in set rather than being required by it.
func (m *Manager) buildAgents(ctx context.Context, cid string, provider llms.Provider, br *browser.Browser) ([]agent.Agent, *agent.McpAgent) {
	newMem := func(agentType string, rolePrompt string) *memory.Memory {
		return memory.New(cid+":"+agentType, rolePrompt, provider.GetModelName(), true, m.deps.Store, nil)
	}

	casual := agent.NewCasualAgent("casual", "You are a friendly conversational assistant.", newMem("casual", "You are a friendly conversational assistant."), provider)
	coder := agent.NewCoderAgent("coder", "You write and explain code.", newMem("coder", "You write and explain code."), provider)
	file := agent.NewFileAgent("file", "You answer questions about local files.", newMem("file", "You answer questions about local files."), provider)
	planner := agent.NewPlannerAgent("planner", "You decompose goals into ordered steps.", newMem("planner", "You decompose goals into ordered steps."), provider)
	browserAgent := agent.NewBrowserAgent("browser", "You answer questions using live web pages.", newMem("browser", "You answer questions using live web pages."), provider, br)
	retrieval := agent.NewRetrievalAgent("retrieval", "You answer questions grounded in retrieved documents.", newMem("retrieval", "You answer questions grounded in retrieved documents."), provider, m.deps.Embedder)

	agents := []agent.Agent{casual, coder, file, planner, browserAgent, retrieval}

	var mcpAgent *agent.McpAgent
	if m.deps.Config != nil && m.deps.Config.MCP.Command != "" {
		rolePrompt := "You answer questions using tools exposed by a connected MCP server."
		a, err := agent.NewMcpAgent(ctx, "mcp", rolePrompt, newMem("mcp", rolePrompt), provider, m.deps.Config.MCP.Command, m.deps.Config.MCP.Args...)
		if err != nil {
			slog.Warn("mcp agent unavailable, continuing without it", "cid", cid, "error", err)
		} else {
			mcpAgent = a
			agents = append(agents, a)
		}
	}

	return agents, mcpAgent
}

type routerRegistration struct {
	agent       agent.Agent
	description string
	examples    router.ExampleBank
}

// defaultRegistrations pairs each built-in agent with its router metadata.
func defaultRegistrations(agents []agent.Agent) []routerRegistration {
	regs := make([]routerRegistration, 0, len(agents))
	for _, a := range agents {
		switch a.Type() {
		case agent.TypeCasual:
			regs = append(regs, routerRegistration{a, "friendly small talk and greetings", router.ExampleBank{
				"en": {"hello, how are you?", "good morning", "what's up"},
			}})
		case agent.TypeCoder:
			regs = append(regs, routerRegistration{a, "writes and explains code", router.ExampleBank{
				"en": {"write me a python function", "debug this code", "explain this algorithm"},
			}})
		case agent.TypeFile:
			regs = append(regs, routerRegistration{a, "reads and summarizes local files", router.ExampleBank{
				"en": {"what does this file contain", "summarize this document"},
			}})
		case agent.TypePlanner:
			regs = append(regs, routerRegistration{a, "breaks a goal into ordered steps", router.ExampleBank{
				"en": {"plan a trip to paris", "make a step by step plan"},
			}})
		case agent.TypeBrowser:
			regs = append(regs, routerRegistration{a, "browses a live web page to answer", router.ExampleBank{
				"en": {"check this website for me", "what does this page say"},
			}})
		case agent.TypeRetrieval:
			regs = append(regs, routerRegistration{a, "answers from retrieved knowledge-base documents", router.ExampleBank{
				"en": {"what does our onboarding doc say about refunds"},
			}})
		case agent.TypeMCP:
			regs = append(regs, routerRegistration{a, "uses tools exposed by a connected MCP server", router.ExampleBank{
				"en": {"use the connected tool to look this up"},
			}})
		}
	}
	return regs
}
