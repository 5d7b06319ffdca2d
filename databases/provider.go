// Package databases provides the vector database backend the retrieval
// agent depends on. Grounded on the teacher's pkg/databases/registry.go
// DatabaseProvider contract, kept with its qdrant implementation.
package databases

import "context"

// SearchResult is one scored hit from a similarity search.
type SearchResult struct {
	ID       string
	Content  string
	Vector   []float32
	Metadata map[string]interface{}
	Score    float32
}

// DatabaseProvider is the contract the retrieval agent's db handle
// implements: upsert, similarity search, and collection lifecycle.
type DatabaseProvider interface {
	Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]interface{}) error
	Search(ctx context.Context, collection string, queryVector []float32, topK int) ([]SearchResult, error)
	CreateCollection(ctx context.Context, collection string, vectorSize uint64) error
	Delete(ctx context.Context, collection string, id string) error
	DeleteCollection(ctx context.Context, collection string) error
	Close() error
}
