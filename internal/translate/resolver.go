// Package translate resolves UI strings into another language through a fixed-order
// chain of free translation services, with a phrasebook and an in-memory cache in front.
//
// Resolution never fails: the worst outcome is the original text coming back unchanged.
package translate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service tags for results that did not come from a provider.
const (
	ServiceIdentity = "identity"
	ServiceFallback = "fallback"
	ServiceNone     = "none"
)

// DefaultResolveTimeout bounds one shared resolution across the whole chain.
const DefaultResolveTimeout = 30 * time.Second

// Result is the outcome of one resolution.
type Result struct {
	Text    string `json:"text"`
	Service string `json:"service"`
	Cached  bool   `json:"cached"`
}

// ProviderStats counts attempts against one provider.
type ProviderStats struct {
	Attempts  int `json:"attempts"`
	Successes int `json:"successes"`
	Failures  int `json:"failures"`
}

// Resolver walks the phrasebook, the cache and the providers in order.
type Resolver struct {
	providers []Provider
	cache     *Cache
	phrases   Phrasebook
	logger    *zap.Logger
	timeout   time.Duration
	group     singleflight.Group

	mu    sync.Mutex
	stats map[string]*ProviderStats
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithCache shares an existing cache.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithPhrasebook replaces the default phrasebook.
func WithPhrasebook(p Phrasebook) Option {
	return func(r *Resolver) { r.phrases = p }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds one resolution, which may outlive the caller that started it.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewResolver returns a resolver trying providers in the given order.
func NewResolver(providers []Provider, opts ...Option) *Resolver {
	r := &Resolver{
		providers: providers,
		cache:     NewCache(),
		phrases:   DefaultPhrasebook,
		logger:    zap.NewNop(),
		timeout:   DefaultResolveTimeout,
		stats:     make(map[string]*ProviderStats, len(providers)),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, p := range providers {
		r.stats[p.Name()] = &ProviderStats{}
	}
	return r
}

// Providers returns the provider names in priority order.
func (r *Resolver) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Translate resolves text from one language to another. Identical concurrent calls
// share one resolution, which runs detached from any single caller's context so a
// departing caller does not fail the others. A caller whose ctx ends first gets the
// text back untranslated.
func (r *Resolver) Translate(ctx context.Context, text, from, to string) Result {
	if text == "" || from == to {
		return Result{Text: text, Service: ServiceIdentity}
	}
	if e, ok := r.cache.Get(from, to, text); ok {
		return Result{Text: e.Text, Service: e.Service, Cached: true}
	}
	if ctx.Err() != nil {
		return Result{Text: text, Service: ServiceNone}
	}

	ch := r.group.DoChan(from+"\x00"+to+"\x00"+text, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.resolve(shared, text, from, to), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Result)
	case <-ctx.Done():
		return Result{Text: text, Service: ServiceNone}
	}
}

func (r *Resolver) resolve(ctx context.Context, text, from, to string) Result {
	// A concurrent call may have filled the cache while this one waited.
	if e, ok := r.cache.Get(from, to, text); ok {
		return Result{Text: e.Text, Service: e.Service, Cached: true}
	}

	if phrase, ok := r.phrases.Lookup(text, from, to); ok {
		r.cache.Put(from, to, text, Entry{Text: phrase, Service: ServiceFallback})
		return Result{Text: phrase, Service: ServiceFallback}
	}

	for _, p := range r.providers {
		if ctx.Err() != nil {
			break
		}
		out, err := p.Translate(ctx, text, from, to)
		if err == nil {
			out, err = nonEmpty(out)
		}
		r.record(p.Name(), err)
		if err != nil {
			r.logger.Debug("translation provider failed",
				zap.Error(&ProviderError{Provider: p.Name(), Err: err}),
				zap.String("from", from),
				zap.String("to", to))
			continue
		}

		r.cache.Put(from, to, text, Entry{Text: out, Service: p.Name()})
		return Result{Text: out, Service: p.Name()}
	}

	r.logger.Warn("all translation providers failed",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("providers", len(r.providers)))
	return Result{Text: text, Service: ServiceNone}
}

func (r *Resolver) record(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[name]
	if !ok {
		s = &ProviderStats{}
		r.stats[name] = s
	}
	s.Attempts++
	if err != nil {
		s.Failures++
	} else {
		s.Successes++
	}
}

// Stats returns a snapshot of per-provider counters.
func (r *Resolver) Stats() map[string]ProviderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]ProviderStats, len(r.stats))
	for k, v := range r.stats {
		out[k] = *v
	}
	return out
}

// CacheLen returns the number of cached translations.
func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}
