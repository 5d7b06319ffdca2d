// Package router selects exactly one agent for a free-text query,
// per spec section 4.2: embedding-similarity scoring against each agent's
// example-utterance bank, falling back to keyword matching on agent
// descriptions, and finally to the casual agent. Selection is pure and
// never mutates Agent or Memory state.
package router

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	"github.com/jeeva2334/asklly-agents-v1/agent"
	"github.com/jeeva2334/asklly-agents-v1/pkg/embedders"
	"github.com/jeeva2334/asklly-agents-v1/registry"
)

// Embedder is the router's pluggable similarity backend.
type Embedder = embedders.EmbedderProvider

// ExampleBank maps a language tag ("en", "es", ...) to example utterances
// for one agent. The "en" entry is used when the detected language has no
// dedicated bank.
type ExampleBank map[string][]string

// registration bundles one agent with its routing metadata.
type registration struct {
	agent       agent.Agent
	description string
	examples    ExampleBank
}

// Router holds the registered agent pool and the (optional) embedding
// backend. Registration order is preserved by registry.BaseRegistry and
// used to break scoring ties, per spec section 4.2.
type Router struct {
	registry            *registry.BaseRegistry[*registration]
	embedder             Embedder
	supportedLanguages   []language.Tag
	casualAgentName      string
}

// New builds a Router. supportedLanguageTags are BCP-47 tags from the
// config's MAIN.languages set (e.g. "en", "es", "fr"); embedder may be nil,
// in which case selection always uses keyword matching.
func New(embedder Embedder, supportedLanguageTags []string) *Router {
	tags := make([]language.Tag, 0, len(supportedLanguageTags))
	for _, t := range supportedLanguageTags {
		tag, err := language.Parse(t)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	return &Router{
		registry:           registry.NewBaseRegistry[*registration](),
		embedder:           embedder,
		supportedLanguages: tags,
	}
}

// Register adds an agent to the pool with its description and example
// utterance bank. The first agent registered with type "casual" becomes
// the terminal fallback.
func (r *Router) Register(a agent.Agent, description string, examples ExampleBank) error {
	reg := &registration{agent: a, description: description, examples: examples}
	if err := r.registry.Register(a.Name(), reg); err != nil {
		return err
	}
	if a.Type() == agent.TypeCasual && r.casualAgentName == "" {
		r.casualAgentName = a.Name()
	}
	return nil
}

// DetectLanguage returns the best BCP-47 match for query among the
// router's supported languages, defaulting to the first supported tag.
func (r *Router) DetectLanguage(query string) string {
	matcher := language.NewMatcher(r.supportedLanguages)
	tag, _, _ := matcher.Match(language.Make(detectTagGuess(query)))
	base, _ := tag.Base()
	return base.String()
}

// detectTagGuess is a minimal heuristic: without a statistical language
// identifier in the pack, default to the caller's configured languages in
// order via und (undetermined), which language.NewMatcher resolves to its
// best supported candidate.
func detectTagGuess(query string) string {
	return "und"
}

// SelectAgent never fails when at least one agent is registered: it falls
// back to keyword matching when embedding is unavailable, and to the
// casual agent (or the first registered agent) when nothing scores. It
// returns an error when no agent is registered at all.
func (r *Router) SelectAgent(ctx context.Context, query string) (agent.Agent, error) {
	names := r.registry.Names()
	if len(names) == 0 {
		return nil, errNoAgentsRegistered
	}

	lang := r.DetectLanguage(query)

	if r.embedder != nil {
		if chosen, ok := r.selectByEmbedding(names, lang, query); ok {
			return chosen, nil
		}
		slog.Warn("router falling back to keyword matching", "reason", "embedding unavailable or inconclusive")
	}

	if chosen, ok := r.selectByKeyword(names, query); ok {
		return chosen, nil
	}

	slog.Warn("router falling back to casual agent")
	return r.casualOrFirst(names), nil
}

func (r *Router) selectByEmbedding(names []string, lang, query string) (agent.Agent, bool) {
	queryVec, err := r.embedder.Embed(query)
	if err != nil {
		return nil, false
	}

	var best agent.Agent
	bestScore := -1.0
	for _, name := range names {
		reg, ok := r.registry.Get(name)
		if !ok {
			continue
		}
		examples := reg.examples[lang]
		if len(examples) == 0 {
			examples = reg.examples["en"]
		}
		for _, ex := range examples {
			vec, err := r.embedder.Embed(ex)
			if err != nil {
				continue
			}
			score := embedders.CosineSimilarity(queryVec, vec)
			if score > bestScore {
				bestScore = score
				best = reg.agent
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func (r *Router) selectByKeyword(names []string, query string) (agent.Agent, bool) {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil, false
	}

	var best agent.Agent
	bestScore := 0
	for _, name := range names {
		reg, ok := r.registry.Get(name)
		if !ok {
			continue
		}
		score := overlapCount(queryTokens, tokenize(reg.description))
		if score > bestScore {
			bestScore = score
			best = reg.agent
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func (r *Router) casualOrFirst(names []string) agent.Agent {
	if r.casualAgentName != "" {
		if reg, ok := r.registry.Get(r.casualAgentName); ok {
			return reg.agent
		}
	}
	reg, _ := r.registry.Get(names[0])
	return reg.agent
}

func tokenize(text string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.Trim(field, ".,!?;:'\"()")
		if field != "" {
			set[field] = true
		}
	}
	return set
}

func overlapCount(a, b map[string]bool) int {
	count := 0
	for tok := range a {
		if b[tok] {
			count++
		}
	}
	return count
}

type routerError string

func (e routerError) Error() string { return string(e) }

const errNoAgentsRegistered = routerError("router: no agents registered")
