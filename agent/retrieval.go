package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeeva2334/asklly-agents-v1/databases"
	"github.com/jeeva2334/asklly-agents-v1/llms"
	"github.com/jeeva2334/asklly-agents-v1/memory"
	"github.com/jeeva2334/asklly-agents-v1/pkg/embedders"
)

const retrievalTopK = 4

// RetrievalAgentImpl answers questions by grounding the model in passages
// retrieved from a per-bot vector collection. Its process signature is
// (query, bot_key, db) rather than (query, speech_handle) — spec section
// 4.3 calls this asymmetry out explicitly as part of the contract.
type RetrievalAgentImpl struct {
	base
	embedder embedders.EmbedderProvider
}

func NewRetrievalAgent(name, rolePrompt string, mem *memory.Memory, provider llms.Provider, embedder embedders.EmbedderProvider) *RetrievalAgentImpl {
	return &RetrievalAgentImpl{base: newBase(name, TypeRetrieval, rolePrompt, mem, provider), embedder: embedder}
}

func (a *RetrievalAgentImpl) Process(ctx context.Context, query, botKey string, db databases.DatabaseProvider) (answer, reasoning string, err error) {
	if a.embedder != nil && db != nil {
		vector, embedErr := a.embedder.Embed(query)
		if embedErr == nil {
			results, searchErr := db.Search(ctx, collectionForBot(botKey), vector, retrievalTopK)
			if searchErr == nil && len(results) > 0 {
				query = fmt.Sprintf("%s\n\n--- retrieved context ---\n%s", query, joinPassages(results))
			}
		}
	}
	return a.respond(ctx, query)
}

func collectionForBot(botKey string) string {
	return "bot_" + botKey
}

func joinPassages(results []databases.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, r.Content)
	}
	return b.String()
}
