package coref

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ppiankov/quotex/internal/cache"
)

// CachedProvider memoizes successful responses by provider and text
type CachedProvider struct {
	next  Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedProvider wraps next with c
func NewCachedProvider(next Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: c, ttl: ttl}
}

// Name returns the wrapped provider's name
func (p *CachedProvider) Name() string {
	return p.next.Name()
}

// Analyze returns a cached response when one exists. Errors are not cached.
func (p *CachedProvider) Analyze(ctx context.Context, text string) (*Annotations, error) {
	key := cache.Key("coref:"+p.next.Name(), text)

	if data, ok := p.cache.Get(key); ok {
		if ann, err := DecodeAnnotations(data); err == nil {
			return ann, nil
		}
		_ = p.cache.Delete(key)
	}

	ann, err := p.next.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(ann); err == nil {
		_ = p.cache.Set(key, data, p.ttl)
	}
	return ann, nil
}
