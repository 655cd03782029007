package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider wraps an EmbeddingProvider with an in-memory cache keyed by
// (taskType, text). Query embeddings repeat often in chat sessions, so a short
// TTL saves most of the round trips without risking stale vectors.
type CachedProvider struct {
	inner EmbeddingProvider
	store *cache.Cache
}

func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) EmbeddingProvider {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedProvider{
		inner: inner,
		store: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)
	if cached, found := p.store.Get(key); found {
		return cached.(*EmbeddingResponse), nil
	}

	res, err := p.inner.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}

	p.store.SetDefault(key, res)
	return res, nil
}

// GenerateBatch bypasses the cache: document batches are one-shot per source
// file, so caching them would only grow the store.
func (p *CachedProvider) GenerateBatch(ctx context.Context, texts []string, taskType string) ([]*EmbeddingResponse, error) {
	return p.inner.GenerateBatch(ctx, texts, taskType)
}

func cacheKey(text string, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
