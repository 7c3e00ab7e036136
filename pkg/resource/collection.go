package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/events"
	"github.com/cuemby/whale/pkg/log"
)

// Target is anything that can name a resource on a docker command line
type Target interface {
	Target() string
}

// Ref is a plain reference or id used as a Target
type Ref string

// Target implements Target
func (r Ref) Target() string {
	return string(r)
}

// Refs converts plain references to targets
func Refs(refs ...string) []Target {
	out := make([]Target, len(refs))
	for i, r := range refs {
		out[i] = Ref(r)
	}
	return out
}

// Collection runs the collection-level commands of one kind
type Collection[R any] struct {
	client *config.ClientConfig
	kind   *Kind[R]
}

// NewCollection creates a collection facade for kind
func NewCollection[R any](client *config.ClientConfig, kind *Kind[R]) *Collection[R] {
	return &Collection[R]{client: client, kind: kind}
}

// Client returns the shared client configuration
func (c *Collection[R]) Client() *config.ClientConfig {
	return c.client
}

// Run executes `<base> <kind> args...` and returns stdout
func (c *Collection[R]) Run(ctx context.Context, args ...string) (string, error) {
	full := c.client.Command(c.kind.Name)
	full = append(full, args...)
	return c.client.Executor().Execute(ctx, full)
}

// ListIDs returns the ids printed by `<kind> list --quiet`, in order,
// without blanks or duplicates.
func (c *Collection[R]) ListIDs(ctx context.Context) ([]string, error) {
	out, err := c.client.Executor().Execute(ctx, c.client.Command(c.kind.listArgs()...))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.kind.Name, err)
	}

	var ids []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		id := strings.TrimSpace(line)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// List returns one proxy per listed id. Each proxy is immutable and has
// an empty cache; nothing is inspected.
func (c *Collection[R]) List(ctx context.Context) ([]*Proxy[R], error) {
	ids, err := c.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	proxies := make([]*Proxy[R], len(ids))
	for i, id := range ids {
		proxies[i] = NewProxy(c.client, c.kind, ID(id))
	}
	return proxies, nil
}

// Inspect returns a proxy for ref without running a command. An empty
// ref targets the kind's default resource.
func (c *Collection[R]) Inspect(ref string) *Proxy[R] {
	return NewProxy(c.client, c.kind, Reference(ref))
}

// InspectMany returns one proxy per reference, in input order, without
// running a command.
func (c *Collection[R]) InspectMany(refs []string) []*Proxy[R] {
	proxies := make([]*Proxy[R], len(refs))
	for i, ref := range refs {
		proxies[i] = c.Inspect(ref)
	}
	return proxies
}

// Remove removes every target with a single `<kind> remove` command.
// Proxies still holding a reference are resolved to their id first, so
// the default resource (empty reference) is named explicitly. Proxies
// passed in are not invalidated.
func (c *Collection[R]) Remove(ctx context.Context, force bool, targets ...Target) error {
	if len(targets) == 0 {
		return nil
	}

	names := make([]string, len(targets))
	for i, t := range targets {
		name, err := c.resolve(ctx, t)
		if err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("cannot remove %s: empty reference", c.kind.Name)
		}
		names[i] = name
	}

	if _, err := c.client.Executor().Execute(ctx, c.client.Command(c.kind.removeArgs(force, names)...)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", c.kind.Name, err)
	}

	logger := log.WithKind(c.kind.Name)
	logger.Info().Strs("targets", names).Bool("force", force).Msg("Removed resources")

	for _, name := range names {
		c.client.Publish(&events.Event{
			Type:   events.EventResourceRemoved,
			Kind:   c.kind.Name,
			Target: name,
		})
	}
	return nil
}

// resolver is a Target that can upgrade a mutable reference to an id
type resolver interface {
	IsImmutable() bool
	Identity(ctx context.Context) (string, error)
}

func (c *Collection[R]) resolve(ctx context.Context, t Target) (string, error) {
	r, ok := t.(resolver)
	if !ok || r.IsImmutable() {
		return t.Target(), nil
	}
	id, err := r.Identity(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s %q for removal: %w", c.kind.Name, t.Target(), err)
	}
	return id, nil
}
