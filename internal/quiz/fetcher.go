package quiz

import (
	"context"
	"errors"
	"log"
)

// Source is the external question service.
type Source interface {
	Questions(ctx context.Context, p Params) ([]Question, error)
}

// Cache stores question sets by Params.Key for the life of the process.
type Cache interface {
	Get(key string) ([]Question, bool)
	Put(key string, qs []Question) error
}

// Fetcher retrieves question sets, consulting the cache before the source.
type Fetcher struct {
	src   Source
	cache Cache
}

// NewFetcher returns a Fetcher. cache may be nil to disable caching.
func NewFetcher(src Source, cache Cache) *Fetcher {
	return &Fetcher{src: src, cache: cache}
}

// Fetch returns the question set for p. It fails with ErrNoResults when the
// source has nothing for p and with a *TransportError for any other failure.
// Nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context, p Params) ([]Question, error) {
	key := p.Key()
	if f.cache != nil {
		if qs, ok := f.cache.Get(key); ok {
			return qs, nil
		}
	}

	qs, err := f.src.Questions(ctx, p)
	if err != nil {
		if errors.Is(err, ErrNoResults) || IsTransport(err) {
			return nil, err
		}
		return nil, &TransportError{Err: err}
	}
	if len(qs) == 0 {
		return nil, ErrNoResults
	}

	if f.cache != nil {
		if err := f.cache.Put(key, qs); err != nil {
			log.Printf("cache put %s: %v", key, err)
		}
	}
	return qs, nil
}
