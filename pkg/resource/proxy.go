package resource

import (
	"context"
	"fmt"

	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/events"
	"github.com/cuemby/whale/pkg/log"
	"github.com/cuemby/whale/pkg/metrics"
)

// Proxy is a lazily loaded, cached view of one docker resource. The
// record is fetched on first use and kept until Reload or Invalidate.
//
// A Proxy is not safe for concurrent use. Two proxies for the same id
// keep separate caches and may disagree.
type Proxy[R any] struct {
	client   *config.ClientConfig
	kind     *Kind[R]
	identity Identity
	record   *R
	loaded   bool
}

// NewProxy creates a proxy with an empty cache. No command is run.
func NewProxy[R any](client *config.ClientConfig, kind *Kind[R], identity Identity) *Proxy[R] {
	return &Proxy[R]{
		client:   client,
		kind:     kind,
		identity: identity,
	}
}

// Identity returns the immutable id, fetching once if only a mutable
// reference is known. Afterwards it never runs a command again.
func (p *Proxy[R]) Identity(ctx context.Context) (string, error) {
	if p.identity.IsImmutable() {
		return p.identity.Value(), nil
	}
	if err := p.fetch(ctx); err != nil {
		return "", err
	}
	return p.identity.Value(), nil
}

// Get returns the cached record, fetching it if the cache is empty
func (p *Proxy[R]) Get(ctx context.Context) (*R, error) {
	if p.loaded {
		metrics.CacheLookups.WithLabelValues(p.kind.Name, metrics.ResultHit).Inc()
		return p.record, nil
	}

	metrics.CacheLookups.WithLabelValues(p.kind.Name, metrics.ResultMiss).Inc()
	if err := p.fetch(ctx); err != nil {
		return nil, err
	}
	return p.record, nil
}

// Reload discards the cached record and fetches a fresh one
func (p *Proxy[R]) Reload(ctx context.Context) error {
	p.clear()
	if err := p.fetch(ctx); err != nil {
		return err
	}

	p.client.Publish(&events.Event{
		Type:   events.EventResourceReloaded,
		Kind:   p.kind.Name,
		Target: p.identity.Value(),
	})
	return nil
}

// Invalidate discards the cached record; the next read fetches again
func (p *Proxy[R]) Invalidate() {
	p.clear()
	metrics.InvalidationsTotal.WithLabelValues(p.kind.Name).Inc()

	p.client.Publish(&events.Event{
		Type:   events.EventResourceInvalidated,
		Kind:   p.kind.Name,
		Target: p.identity.Value(),
	})
}

// Remove removes the underlying resource, resolving a reference to its id
// first. The cache is left as is.
func (p *Proxy[R]) Remove(ctx context.Context, force bool) error {
	return NewCollection(p.client, p.kind).Remove(ctx, force, p)
}

func (p *Proxy[R]) clear() {
	p.record = nil
	p.loaded = false
}

// fetch runs one inspect round trip. On any failure the cache stays empty.
func (p *Proxy[R]) fetch(ctx context.Context) error {
	target := p.identity.Value()
	args := p.client.Command(p.kind.inspectArgs(target)...)

	out, err := p.client.Executor().Execute(ctx, args)
	if err != nil {
		p.clear()
		metrics.FetchesTotal.WithLabelValues(p.kind.Name, metrics.StatusFailure).Inc()
		return fmt.Errorf("failed to inspect %s %q: %w", p.kind.Name, target, err)
	}

	record, err := p.kind.Decode([]byte(out))
	if err == nil && p.kind.ID(record) == "" {
		err = &ValidationError{Record: p.kind.Name, Problems: []FieldError{{Problem: "empty id in inspect result"}}}
	}
	if err != nil {
		p.clear()
		metrics.FetchesTotal.WithLabelValues(p.kind.Name, metrics.StatusFailure).Inc()
		return fmt.Errorf("failed to decode %s %q: %w", p.kind.Name, target, err)
	}

	if !p.identity.IsImmutable() {
		p.identity = ID(p.kind.ID(record))
		logger := log.WithKind(p.kind.Name)
		logger.Debug().Str("reference", target).Str("id", p.identity.Value()).Msg("Resolved reference to id")
	}
	p.record = record
	p.loaded = true
	metrics.FetchesTotal.WithLabelValues(p.kind.Name, metrics.StatusSuccess).Inc()
	return nil
}

// Field reads one value from the proxy's record, fetching if needed
func Field[R, V any](ctx context.Context, p *Proxy[R], get func(*R) V) (V, error) {
	record, err := p.Get(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	return get(record), nil
}

// Reference returns the current identity value (reference or id)
func (p *Proxy[R]) Reference() string {
	return p.identity.Value()
}

// IsImmutable reports whether the identity is a resolved id
func (p *Proxy[R]) IsImmutable() bool {
	return p.identity.IsImmutable()
}

// Loaded reports whether a record is cached
func (p *Proxy[R]) Loaded() bool {
	return p.loaded
}

// Kind returns the resource kind name
func (p *Proxy[R]) Kind() string {
	return p.kind.Name
}

// Client returns the shared client configuration
func (p *Proxy[R]) Client() *config.ClientConfig {
	return p.client
}

// Target implements Target with the current identity value, without
// fetching. Collection.Remove resolves mutable proxies itself.
func (p *Proxy[R]) Target() string {
	return p.identity.Value()
}

func (p *Proxy[R]) String() string {
	return p.identity.Value()
}

// Equal reports whether both proxies are resolved to the same id. It
// never runs a command; unresolved proxies are never equal.
func (p *Proxy[R]) Equal(other *Proxy[R]) bool {
	if p == other {
		return true
	}
	if p == nil || other == nil {
		return false
	}
	if !p.identity.IsImmutable() || !other.identity.IsImmutable() {
		return false
	}
	return p.kind.Name == other.kind.Name && p.identity.Value() == other.identity.Value()
}

// SameResource resolves both proxies and compares their ids
func (p *Proxy[R]) SameResource(ctx context.Context, other *Proxy[R]) (bool, error) {
	a, err := p.Identity(ctx)
	if err != nil {
		return false, err
	}
	b, err := other.Identity(ctx)
	if err != nil {
		return false, err
	}
	return p.kind.Name == other.kind.Name && a == b, nil
}
