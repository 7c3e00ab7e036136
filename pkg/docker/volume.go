package docker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/events"
	"github.com/cuemby/whale/pkg/resource"
)

// VolumeInspectResult is the output of `docker volume inspect`
type VolumeInspectResult struct {
	Name       string
	Driver     string
	Mountpoint string
	CreatedAt  time.Time
	Scope      string
	Labels     map[string]string
	Options    map[string]string
	Status     map[string]any
}

func decodeVolume(data []byte) (*VolumeInspectResult, error) {
	var r VolumeInspectResult
	err := resource.DecodeInspect("VolumeInspectResult", data, resource.Fields{
		{Key: "Name", Into: &r.Name, Required: true},
		{Key: "Driver", Into: &r.Driver, Required: true},
		{Key: "Mountpoint", Into: &r.Mountpoint, Required: true},
		{Key: "CreatedAt", Into: &r.CreatedAt},
		{Key: "Scope", Into: &r.Scope, Required: true},
		{Key: "Labels", Into: &r.Labels},
		{Key: "Options", Into: &r.Options},
		{Key: "Status", Into: &r.Status},
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// VolumeKind describes docker volumes. A volume's immutable id is its name.
var VolumeKind = &resource.Kind[VolumeInspectResult]{
	Name:   "volume",
	Decode: decodeVolume,
	ID:     func(r *VolumeInspectResult) string { return r.Name },
}

// Volume is a lazily loaded docker volume
type Volume struct {
	*resource.Proxy[VolumeInspectResult]
}

// Name returns the volume name
func (v *Volume) Name(ctx context.Context) (string, error) {
	return v.Identity(ctx)
}

// Driver returns the volume driver
func (v *Volume) Driver(ctx context.Context) (string, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) string { return r.Driver })
}

// Mountpoint returns the volume path on the host
func (v *Volume) Mountpoint(ctx context.Context) (string, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) string { return r.Mountpoint })
}

// CreatedAt returns the volume creation time
func (v *Volume) CreatedAt(ctx context.Context) (time.Time, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) time.Time { return r.CreatedAt })
}

// Scope returns the volume scope (local or global)
func (v *Volume) Scope(ctx context.Context) (string, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) string { return r.Scope })
}

// Labels returns the volume labels
func (v *Volume) Labels(ctx context.Context) (map[string]string, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) map[string]string { return r.Labels })
}

// Options returns the driver options the volume was created with
func (v *Volume) Options(ctx context.Context) (map[string]string, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) map[string]string { return r.Options })
}

// Status is driver specific and may be nil
func (v *Volume) Status(ctx context.Context) (map[string]any, error) {
	return resource.Field(ctx, v.Proxy, func(r *VolumeInspectResult) map[string]any { return r.Status })
}

// VolumeCreateOptions are the flags of `docker volume create`
type VolumeCreateOptions struct {
	Driver  string
	Labels  map[string]string
	Options map[string]string
}

// VolumeCLI runs collection-level `docker volume` commands
type VolumeCLI struct {
	collection *resource.Collection[VolumeInspectResult]
}

// NewVolumeCLI creates a volume facade bound to client
func NewVolumeCLI(client *config.ClientConfig) *VolumeCLI {
	return &VolumeCLI{collection: resource.NewCollection(client, VolumeKind)}
}

// Create creates a volume. With an empty name docker generates one; the
// returned volume carries whatever name docker printed.
func (c *VolumeCLI) Create(ctx context.Context, name string, opts VolumeCreateOptions) (*Volume, error) {
	args := []string{"create"}
	if opts.Driver != "" {
		args = append(args, "--driver", opts.Driver)
	}
	args = append(args, keyValueFlags("--label", opts.Labels)...)
	args = append(args, keyValueFlags("--opt", opts.Options)...)
	if name != "" {
		args = append(args, name)
	}

	out, err := c.collection.Run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create volume: %w", err)
	}

	created := strings.TrimSpace(out)
	if created == "" {
		return nil, fmt.Errorf("failed to create volume: docker printed no name")
	}

	c.collection.Client().Publish(&events.Event{
		Type:   events.EventResourceCreated,
		Kind:   VolumeKind.Name,
		Target: created,
	})
	return &Volume{resource.NewProxy(c.collection.Client(), VolumeKind, resource.ID(created))}, nil
}

// List returns every volume, uncached
func (c *VolumeCLI) List(ctx context.Context) ([]*Volume, error) {
	proxies, err := c.collection.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrapVolumes(proxies), nil
}

// Inspect returns a volume by name without running a command
func (c *VolumeCLI) Inspect(ref string) *Volume {
	return &Volume{c.collection.Inspect(ref)}
}

// InspectMany returns one volume per name, in order
func (c *VolumeCLI) InspectMany(refs []string) []*Volume {
	return wrapVolumes(c.collection.InspectMany(refs))
}

// Remove removes volumes with one `docker volume remove` call
func (c *VolumeCLI) Remove(ctx context.Context, force bool, targets ...resource.Target) error {
	return c.collection.Remove(ctx, force, targets...)
}

func wrapVolumes(proxies []*resource.Proxy[VolumeInspectResult]) []*Volume {
	out := make([]*Volume, len(proxies))
	for i, p := range proxies {
		out[i] = &Volume{p}
	}
	return out
}
