package embedding

import "context"

// Task types the Gemini embedding API distinguishes. Ollama ignores them.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// For a pinned model version the output is deterministic: the same text
// always yields the same vector, which keeps ingestion idempotent under
// retry.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error)
	// GenerateBatch returns one response per input, in input order.
	GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error)
}
