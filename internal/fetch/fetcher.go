// Package fetch retrieves generated artifacts for a word.
//
// Each Fetch call makes at most two attempts: the initial request and one
// automatic retry. Video payloads are cached per (kind, word) for the life of
// the Fetcher; metrics are always requested from the backend.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/abelbrown/signgen/internal/backend"
	"github.com/abelbrown/signgen/internal/config"
	"github.com/abelbrown/signgen/internal/logging"
	"github.com/abelbrown/signgen/internal/metrics"
)

// MaxAttempts is the number of requests made per Fetch call.
const MaxAttempts = 2

// DefaultRetryDelay is the pause before the automatic retry.
const DefaultRetryDelay = time.Second

// defaultCacheSize bounds the cached video payloads (three kinds per word).
const defaultCacheSize = 48

// Backend is the subset of *backend.Client the Fetcher needs.
type Backend interface {
	FetchVideo(ctx context.Context, cfg config.Config, kind config.Kind) ([]byte, error)
	FetchMetrics(ctx context.Context, cfg config.Config) (metrics.Scores, error)
}

// Request identifies one artifact fetch.
type Request struct {
	Kind   config.Kind
	Word   string
	Seq    uint64 // generation the fetch belongs to
	Config config.Config
}

// Result is the outcome of a Fetch. Exactly one of Video/Scores is
// meaningful when Err is nil.
type Result struct {
	Request  Request
	Video    []byte
	Scores   metrics.Scores
	Err      error
	Attempts int
	Cached   bool
}

type cacheKey struct {
	kind config.Kind
	word string
}

// Fetcher fetches artifacts with retry-once semantics.
type Fetcher struct {
	backend    Backend
	cache      *lru.Cache[cacheKey, []byte]
	retryDelay time.Duration

	mu     sync.Mutex        // guards epochs and cache fills against Invalidate
	epochs map[string]uint64 // bumped by Invalidate; a fill from an older epoch is dropped
}

// New creates a Fetcher over b.
func New(b Backend) (*Fetcher, error) {
	cache, err := lru.New[cacheKey, []byte](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create video cache: %w", err)
	}
	return &Fetcher{
		backend:    b,
		cache:      cache,
		retryDelay: DefaultRetryDelay,
		epochs:     make(map[string]uint64),
	}, nil
}

// SetRetryDelay changes the pause before the automatic retry.
func (f *Fetcher) SetRetryDelay(d time.Duration) {
	f.retryDelay = d
}

// Fetch retrieves the artifact described by req. It never returns a nil
// error together with an empty payload.
func (f *Fetcher) Fetch(ctx context.Context, req Request) Result {
	res := Result{Request: req}
	key := cacheKey{kind: req.Kind, word: req.Word}
	epoch := f.epoch(req.Word)

	if req.Kind.IsVideo() {
		if data, ok := f.cache.Get(key); ok {
			res.Video = data
			res.Cached = true
			return res
		}
	}

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		res.Attempts = attempt
		res.Err = f.once(ctx, req, &res)
		if res.Err == nil {
			break
		}
		if attempt == MaxAttempts || !backend.Retryable(res.Err) || ctx.Err() != nil {
			break
		}

		logging.Debug("fetch: retrying", "kind", req.Kind, "word", req.Word, "error", res.Err)
		select {
		case <-ctx.Done():
			res.Err = fmt.Errorf("%s: %w", req.Kind, ctx.Err())
			return res
		case <-time.After(f.retryDelay):
		}
	}

	if res.Err != nil {
		logging.Warn("fetch: failed", "kind", req.Kind, "word", req.Word, "attempts", res.Attempts, "error", res.Err)
		return res
	}
	if req.Kind.IsVideo() {
		f.fill(key, epoch, res.Video)
	}
	return res
}

func (f *Fetcher) epoch(word string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.epochs[word]
}

// fill caches data unless the word was invalidated after the fetch started.
func (f *Fetcher) fill(key cacheKey, epoch uint64, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epochs[key.word] != epoch {
		logging.Debug("fetch: dropping payload of invalidated word", "kind", key.kind, "word", key.word)
		return
	}
	f.cache.Add(key, data)
}

func (f *Fetcher) once(ctx context.Context, req Request, res *Result) error {
	switch {
	case req.Kind == config.KindMetrics:
		s, err := f.backend.FetchMetrics(ctx, req.Config)
		if err != nil {
			return err
		}
		res.Scores = s
		return nil
	case req.Kind.IsVideo():
		data, err := f.backend.FetchVideo(ctx, req.Config, req.Kind)
		if err != nil {
			return err
		}
		res.Video = data
		return nil
	}
	return errors.New("unknown artifact kind: " + string(req.Kind))
}

// Invalidate drops the cached payloads of word. Call it when the backend
// is about to overwrite its outputs for that word. Fetches of word already
// in flight still return their payload but no longer cache it.
func (f *Fetcher) Invalidate(word string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.epochs[word]++
	for _, k := range config.VideoKinds {
		f.cache.Remove(cacheKey{kind: k, word: word})
	}
}

// Cached reports whether a payload for (kind, word) is cached.
func (f *Fetcher) Cached(kind config.Kind, word string) bool {
	return f.cache.Contains(cacheKey{kind: kind, word: word})
}
