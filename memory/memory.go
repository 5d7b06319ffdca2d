// Package memory implements the per-session conversation buffer described
// in spec section 4.4: an append-only message log that, when a pushed
// message's character length exceeds 1.5x the active model's ideal
// context, first runs the earlier long messages through an LLM
// summarizer, and persists through docstore after every change.
//
// Grounded on original_source/memory.py's Memory class and the teacher's
// pkg/memory/session_service_sql.go for the persistence wiring.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jeeva2334/asklly-agents-v1/docstore"
	"github.com/jeeva2334/asklly-agents-v1/pkg/utils"
)

// Message is one entry in a Memory's buffer.
type Message struct {
	Role      string
	Content   string
	Time      time.Time
	ModelUsed string
	Context   string
	Query     string
}

const (
	compressThresholdFactor = 1.5
	compressMessageMinChars = 1024
	summarizeMinLength      = 64
)

// Memory is the ordered, per-conversation message buffer. The zero value
// is not usable; construct with New.
type Memory struct {
	mu sync.Mutex

	cid           string
	modelProvider string
	compress      bool
	store         docstore.Store
	summarizer    Summarizer

	messages []Message
}

// New builds a Memory seeded with systemPrompt as message 0, then attempts
// to recover a prior session for cid from store. compressionEnabled gates
// the ideal-context-driven summarization pass.
func New(cid, systemPrompt, modelProvider string, compressionEnabled bool, store docstore.Store, summarizer Summarizer) *Memory {
	m := &Memory{
		cid:           cid,
		modelProvider: modelProvider,
		compress:      compressionEnabled,
		store:         store,
		summarizer:    summarizer,
		messages: []Message{
			{Role: "system", Content: systemPrompt, Time: time.Now().UTC()},
		},
	}
	if err := m.loadMemory(context.Background()); err != nil {
		slog.Warn("memory: failed to load prior session, starting fresh", "cid", cid, "error", err)
	}
	return m
}

// Push appends a message and returns its index in the buffer. Before
// appending, it runs the same duplicate check as the source: the new
// content is compared against the message currently at the END of the
// buffer. When the buffer holds only the system message (len==1), that
// comparison lands on index 0 — the system prompt itself — which is a
// known quirk of the source (preserved here deliberately: warn-only, not
// corrected, per the documented decision to keep this behavior intact).
func (m *Memory) Push(ctx context.Context, role, content, msgContext, query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idealCtx, ok := IdealContext(m.modelProvider); ok && m.compress {
		if float64(len(content)) > float64(idealCtx)*compressThresholdFactor {
			m.compressLocked(ctx)
		}
	}

	lastIdx := len(m.messages) - 1
	if lastIdx >= 0 && m.messages[lastIdx].Content == content {
		slog.Warn("memory: duplicate message content detected, pushing anyway", "cid", m.cid, "role", role)
	}

	m.messages = append(m.messages, Message{
		Role:      role,
		Content:   content,
		Time:      time.Now().UTC(),
		ModelUsed: m.modelProvider,
		Context:   msgContext,
		Query:     query,
	})
	if err := m.saveMemoryLocked(ctx); err != nil {
		slog.Warn("memory: failed to persist session", "cid", m.cid, "error", err)
	}
	return len(m.messages) - 1
}

// Get returns a snapshot of the current buffer.
func (m *Memory) Get() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Clear resets the buffer to just the system message.
func (m *Memory) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.messages) > 0 {
		m.messages = m.messages[:1]
	}
	if err := m.saveMemoryLocked(ctx); err != nil {
		slog.Warn("memory: failed to persist session after clear", "cid", m.cid, "error", err)
	}
}

// ClearSection removes the inclusive range [start, end] from the
// non-system portion of the buffer (index 0, the system message, is
// never touched). Indices are clamped to the valid non-system range.
//
// The source computes this range with off-by-one arithmetic
// (start = max(0,start)+1, end = min(end,len-1)+2) that does not
// actually implement "inclusive within the non-system region" — it is
// treated here as a bug rather than reproduced; this implementation
// performs the correct inclusive removal instead.
func (m *Memory) ClearSection(ctx context.Context, start, end int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nonSystemLen := len(m.messages) - 1
	if nonSystemLen <= 0 {
		return
	}
	if start < 0 {
		start = 0
	}
	if end > nonSystemLen-1 {
		end = nonSystemLen - 1
	}
	if start > end {
		return
	}

	// Shift by one to account for the system message occupying index 0.
	absStart, absEnd := start+1, end+1
	m.messages = append(m.messages[:absStart], m.messages[absEnd+1:]...)

	if err := m.saveMemoryLocked(ctx); err != nil {
		slog.Warn("memory: failed to persist session after clear_section", "cid", m.cid, "error", err)
	}
}

// Compress summarizes any message over compressMessageMinChars in place.
func (m *Memory) Compress(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compressLocked(ctx)
}

func (m *Memory) compressLocked(ctx context.Context) {
	if m.summarizer == nil {
		return
	}
	for i := range m.messages {
		if i == 0 {
			continue // never summarize the system prompt
		}
		msg := &m.messages[i]
		if len(msg.Content) <= compressMessageMinChars {
			continue
		}
		opts := summarizeLengthOptions(msg.Content)
		summarized, err := m.summarizer.Summarize(ctx, msg.Content, opts)
		if err != nil {
			slog.Warn("memory: summarization failed, keeping original content", "cid", m.cid, "error", err)
			continue
		}
		msg.Content = summarized
	}
}

// summarizeLengthOptions mirrors the source's summarize() sizing: output
// length targets half the input when the input is longer than twice the
// minimum, otherwise twice the minimum.
func summarizeLengthOptions(text string) SummarizeOptions {
	maxLength := summarizeMinLength * 2
	if len(text) > summarizeMinLength*2 {
		maxLength = len(text) / 2
	}
	return DefaultSummarizeOptions(summarizeMinLength, maxLength)
}

// saveMemoryLocked persists the current buffer. Caller must hold m.mu.
func (m *Memory) saveMemoryLocked(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	doc := docstore.Document{
		CID:           m.cid,
		ModelProvider: m.modelProvider,
		LastUpdate:    time.Now().UTC(),
		Memory:        make([]docstore.MessageRecord, len(m.messages)),
	}
	for i, msg := range m.messages {
		doc.Memory[i] = docstore.MessageRecord{
			Role:      msg.Role,
			Content:   msg.Content,
			Time:      msg.Time.Format("2006-01-02 15:04:05"),
			ModelUsed: msg.ModelUsed,
			Context:   msg.Context,
			Query:     msg.Query,
		}
	}
	return m.store.Upsert(ctx, doc)
}

// TrimToMaxContext truncates text to the active model's ideal context
// window, token-accurately via pkg/utils.TokenCounter (the model's own
// tiktoken encoding, or cl100k_base when tiktoken does not know the
// model), falling back to a raw byte slice only when no encoding loads.
// Grounded on original_source/memory.py's trim_text_to_max_ctx, used by
// agents that fold large fetched text (a web page, a file) into a query
// before handing it to the provider.
func (m *Memory) TrimToMaxContext(text string) string {
	idealCtx, ok := IdealContext(m.modelProvider)
	if !ok {
		return text
	}
	if tc, err := utils.NewTokenCounter(m.modelProvider); err == nil {
		return tc.Truncate(text, idealCtx)
	}
	if len(text) > idealCtx {
		return text[:idealCtx]
	}
	return text
}

// loadMemory recovers a prior session's buffer from the store, dropping a
// trailing unanswered user turn (mirroring the source's reset-on-load
// behavior for a session that was interrupted mid-exchange). Caller must
// NOT hold m.mu (called only from New, before the Memory is shared).
func (m *Memory) loadMemory(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	doc, ok, err := m.store.Load(ctx, m.cid)
	if err != nil {
		return fmt.Errorf("memory: load failed: %w", err)
	}
	if !ok || len(doc.Memory) == 0 {
		return nil
	}

	messages := make([]Message, len(doc.Memory))
	for i, rec := range doc.Memory {
		t, parseErr := time.Parse("2006-01-02 15:04:05", rec.Time)
		if parseErr != nil {
			t = time.Now().UTC()
		}
		messages[i] = Message{
			Role:      rec.Role,
			Content:   rec.Content,
			Time:      t,
			ModelUsed: rec.ModelUsed,
			Context:   rec.Context,
			Query:     rec.Query,
		}
	}
	if len(messages) > 0 && messages[len(messages)-1].Role == "user" {
		messages = messages[:len(messages)-1]
	}
	m.messages = messages
	return nil
}
