/*
Package resource implements the lazily loaded, cached proxy shared by every
docker resource kind in whale.

A proxy stands for one docker object (a context, a network, a volume). It is
cheap to create: construction never runs a command. The first read of any
field runs `docker <kind> inspect <target>`, decodes the JSON into the kind's
record type and caches it. Later reads are served from the cache until the
caller reloads or invalidates.

# Architecture

	┌──────────────────── RESOURCE PROXY ───────────────────────┐
	│                                                            │
	│  Collection[R] (per kind)         Proxy[R] (per object)    │
	│  - List: `list --quiet`  ──────▶  - Identity               │
	│  - Inspect / InspectMany ──────▶  - cached *R + loaded     │
	│  - Remove: one batched command    - Get / Field            │
	│                                   - Reload / Invalidate    │
	│                    │                       │               │
	│                    ▼                       ▼               │
	│         config.ClientConfig (shared, immutable)            │
	│         base args + command.Executor + events              │
	└────────────────────────────────────────────────────────────┘

# Identity

An Identity is either a mutable reference (a name a user chose, which may be
reassigned later) or an immutable id. Proxies returned by List start with an
id. Proxies returned by Inspect start with a reference and are upgraded in
place to the id found in the first fetched record. From then on every
command addresses the id, and Identity never runs a command again.

Equal compares resolved ids only and never fetches. SameResource resolves
both sides first.

# Caching

	p := contexts.Inspect("staging")      // no command
	md, _ := p.Metadata(ctx)              // docker context inspect staging
	eps, _ := p.Endpoints(ctx)            // cache hit
	_ = p.Reload(ctx)                     // docker context inspect staging
	p.Invalidate()                        // no command; next read fetches

A failed fetch, whether docker exited non-zero or the output did not match
the record shape, leaves the cache empty. Retrying is always safe.

Proxies are not safe for concurrent use. Two proxies for the same id keep
separate caches and can observe different snapshots.

# Records and Field Tables

Each record type lists its wire keys in a Fields table. DecodeInspect
accepts a single object or docker's one-element array, checks required
keys, reports type mismatches with their dotted path, and returns every
problem in one *ValidationError. Nested records implement json.Unmarshaler
with DecodeObject so their problems carry the parent key. Maps and slices
are decoded element by element, so a bad endpoint is reported as
Endpoints.docker.Host.

# Scoped Resources

WithScope removes a resource with --force when the callback returns,
whether it succeeded, failed or panicked. A proxy still holding a
reference, including the default resource, is resolved to its id first:

	err := resource.WithScope(ctx, network, func(n *docker.Network) error {
		return runIntegrationTest(n)
	})

# Errors

  - *command.ExecutionError: docker exited non-zero (not found, denied...)
  - *ValidationError: output did not match the record (errors.Is ErrValidation)
  - ErrNotImplemented: an operation without a docker command contract

Nothing is retried.
*/
package resource
