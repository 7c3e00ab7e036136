package docker

import (
	"context"

	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/resource"
)

// ContextEndpoint is one endpoint of a docker context
type ContextEndpoint struct {
	Host          string
	SkipTLSVerify bool
}

func (e *ContextEndpoint) UnmarshalJSON(data []byte) error {
	return resource.DecodeObject("ContextEndpoint", data, resource.Fields{
		{Key: "Host", Into: &e.Host, Required: true},
		{Key: "SkipTLSVerify", Into: &e.SkipTLSVerify, Required: true},
	})
}

// ContextStorage locates a context's metadata and TLS material on disk
type ContextStorage struct {
	MetadataPath string
	TLSPath      string
}

func (s *ContextStorage) UnmarshalJSON(data []byte) error {
	return resource.DecodeObject("ContextStorage", data, resource.Fields{
		{Key: "MetadataPath", Into: &s.MetadataPath, Required: true},
		{Key: "TLSPath", Into: &s.TLSPath, Required: true},
	})
}

// ContextInspectResult is the output of `docker context inspect`
type ContextInspectResult struct {
	Name        string
	Metadata    map[string]string
	Endpoints   map[string]ContextEndpoint
	TLSMaterial map[string]any
	Storage     ContextStorage
}

func decodeContext(data []byte) (*ContextInspectResult, error) {
	var r ContextInspectResult
	err := resource.DecodeInspect("ContextInspectResult", data, resource.Fields{
		{Key: "Name", Into: &r.Name, Required: true},
		{Key: "Metadata", Into: &r.Metadata, Required: true},
		{Key: "Endpoints", Into: &r.Endpoints, Required: true},
		{Key: "TLSMaterial", Into: &r.TLSMaterial, Required: true},
		{Key: "Storage", Into: &r.Storage, Required: true},
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ContextKind describes docker contexts. A context's immutable id is its name.
var ContextKind = &resource.Kind[ContextInspectResult]{
	Name:   "context",
	Decode: decodeContext,
	ID:     func(r *ContextInspectResult) string { return r.Name },
}

// Context is a lazily loaded docker context
type Context struct {
	*resource.Proxy[ContextInspectResult]
}

// Name returns the context name
func (c *Context) Name(ctx context.Context) (string, error) {
	return c.Identity(ctx)
}

// Metadata returns the context metadata, such as its description
func (c *Context) Metadata(ctx context.Context) (map[string]string, error) {
	return resource.Field(ctx, c.Proxy, func(r *ContextInspectResult) map[string]string { return r.Metadata })
}

// Endpoints returns the context endpoints keyed by name (usually "docker")
func (c *Context) Endpoints(ctx context.Context) (map[string]ContextEndpoint, error) {
	return resource.Field(ctx, c.Proxy, func(r *ContextInspectResult) map[string]ContextEndpoint { return r.Endpoints })
}

// TLSMaterial returns the TLS files stored per endpoint
func (c *Context) TLSMaterial(ctx context.Context) (map[string]any, error) {
	return resource.Field(ctx, c.Proxy, func(r *ContextInspectResult) map[string]any { return r.TLSMaterial })
}

// Storage returns where docker keeps the context on disk
func (c *Context) Storage(ctx context.Context) (ContextStorage, error) {
	return resource.Field(ctx, c.Proxy, func(r *ContextInspectResult) ContextStorage { return r.Storage })
}

// Export is not supported yet
func (c *Context) Export(context.Context) error {
	return resource.NotImplemented("context export")
}

// Update is not supported yet
func (c *Context) Update(context.Context) error {
	return resource.NotImplemented("context update")
}

// Use is not supported yet
func (c *Context) Use(context.Context) error {
	return resource.NotImplemented("context use")
}

// ContextCLI runs collection-level `docker context` commands
type ContextCLI struct {
	collection *resource.Collection[ContextInspectResult]
}

// NewContextCLI creates a context facade bound to client
func NewContextCLI(client *config.ClientConfig) *ContextCLI {
	return &ContextCLI{collection: resource.NewCollection(client, ContextKind)}
}

// List returns every context, unresolved and uncached
func (c *ContextCLI) List(ctx context.Context) ([]*Context, error) {
	proxies, err := c.collection.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrapContexts(proxies), nil
}

// Inspect returns a context by name; "" means the current context
func (c *ContextCLI) Inspect(ref string) *Context {
	return &Context{c.collection.Inspect(ref)}
}

// InspectMany returns one context per name, in order
func (c *ContextCLI) InspectMany(refs []string) []*Context {
	return wrapContexts(c.collection.InspectMany(refs))
}

// Remove removes contexts with one `docker context remove` call
func (c *ContextCLI) Remove(ctx context.Context, force bool, targets ...resource.Target) error {
	return c.collection.Remove(ctx, force, targets...)
}

// Create is not supported yet
func (c *ContextCLI) Create(context.Context) (*Context, error) {
	return nil, resource.NotImplemented("context create")
}

// Export is not supported yet
func (c *ContextCLI) Export(context.Context) error {
	return resource.NotImplemented("context export")
}

// Import is not supported yet
func (c *ContextCLI) Import(context.Context) (*Context, error) {
	return nil, resource.NotImplemented("context import")
}

// Update is not supported yet
func (c *ContextCLI) Update(context.Context) error {
	return resource.NotImplemented("context update")
}

// Use is not supported yet
func (c *ContextCLI) Use(context.Context) error {
	return resource.NotImplemented("context use")
}

func wrapContexts(proxies []*resource.Proxy[ContextInspectResult]) []*Context {
	out := make([]*Context, len(proxies))
	for i, p := range proxies {
		out[i] = &Context{p}
	}
	return out
}
