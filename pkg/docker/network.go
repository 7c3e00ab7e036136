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

// NetworkIPAMConfig is one address pool of a network
type NetworkIPAMConfig struct {
	Subnet             string
	IPRange            string
	Gateway            string
	AuxiliaryAddresses map[string]string
}

func (c *NetworkIPAMConfig) UnmarshalJSON(data []byte) error {
	return resource.DecodeObject("NetworkIPAMConfig", data, resource.Fields{
		{Key: "Subnet", Into: &c.Subnet},
		{Key: "IPRange", Into: &c.IPRange},
		{Key: "Gateway", Into: &c.Gateway},
		{Key: "AuxiliaryAddresses", Into: &c.AuxiliaryAddresses},
	})
}

// NetworkIPAM is the address management configuration of a network
type NetworkIPAM struct {
	Driver  string
	Options map[string]string
	Config  []NetworkIPAMConfig
}

func (i *NetworkIPAM) UnmarshalJSON(data []byte) error {
	return resource.DecodeObject("NetworkIPAM", data, resource.Fields{
		{Key: "Driver", Into: &i.Driver, Required: true},
		{Key: "Options", Into: &i.Options},
		{Key: "Config", Into: &i.Config},
	})
}

// NetworkEndpoint is a container attached to a network
type NetworkEndpoint struct {
	Name        string
	EndpointID  string
	MacAddress  string
	IPv4Address string
	IPv6Address string
}

func (e *NetworkEndpoint) UnmarshalJSON(data []byte) error {
	return resource.DecodeObject("NetworkEndpoint", data, resource.Fields{
		{Key: "Name", Into: &e.Name, Required: true},
		{Key: "EndpointID", Into: &e.EndpointID, Required: true},
		{Key: "MacAddress", Into: &e.MacAddress},
		{Key: "IPv4Address", Into: &e.IPv4Address},
		{Key: "IPv6Address", Into: &e.IPv6Address},
	})
}

// NetworkInspectResult is the output of `docker network inspect`
type NetworkInspectResult struct {
	Name       string
	ID         string
	Created    time.Time
	Scope      string
	Driver     string
	EnableIPv6 bool
	IPAM       NetworkIPAM
	Internal   bool
	Attachable bool
	Ingress    bool
	Containers map[string]NetworkEndpoint
	Options    map[string]string
	Labels     map[string]string
}

func decodeNetwork(data []byte) (*NetworkInspectResult, error) {
	var r NetworkInspectResult
	err := resource.DecodeInspect("NetworkInspectResult", data, resource.Fields{
		{Key: "Name", Into: &r.Name, Required: true},
		{Key: "Id", Into: &r.ID, Required: true},
		{Key: "Created", Into: &r.Created},
		{Key: "Scope", Into: &r.Scope, Required: true},
		{Key: "Driver", Into: &r.Driver, Required: true},
		{Key: "EnableIPv6", Into: &r.EnableIPv6},
		{Key: "IPAM", Into: &r.IPAM},
		{Key: "Internal", Into: &r.Internal},
		{Key: "Attachable", Into: &r.Attachable},
		{Key: "Ingress", Into: &r.Ingress},
		{Key: "Containers", Into: &r.Containers},
		{Key: "Options", Into: &r.Options},
		{Key: "Labels", Into: &r.Labels},
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// NetworkKind describes docker networks. The immutable id is the full
// network id, so listing asks for untruncated ids.
var NetworkKind = &resource.Kind[NetworkInspectResult]{
	Name:      "network",
	ListFlags: []string{"--no-trunc"},
	Decode:    decodeNetwork,
	ID:        func(r *NetworkInspectResult) string { return r.ID },
}

// Network is a lazily loaded docker network
type Network struct {
	*resource.Proxy[NetworkInspectResult]
}

// ID returns the full network id, resolving a name if needed
func (n *Network) ID(ctx context.Context) (string, error) {
	return n.Identity(ctx)
}

// Name returns the network name
func (n *Network) Name(ctx context.Context) (string, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) string { return r.Name })
}

// Created returns the network creation time
func (n *Network) Created(ctx context.Context) (time.Time, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) time.Time { return r.Created })
}

// Scope returns the network scope (local, global or swarm)
func (n *Network) Scope(ctx context.Context) (string, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) string { return r.Scope })
}

// Driver returns the network driver
func (n *Network) Driver(ctx context.Context) (string, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) string { return r.Driver })
}

// EnableIPv6 reports whether IPv6 is enabled
func (n *Network) EnableIPv6(ctx context.Context) (bool, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) bool { return r.EnableIPv6 })
}

// IPAM returns the IP address management settings
func (n *Network) IPAM(ctx context.Context) (NetworkIPAM, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) NetworkIPAM { return r.IPAM })
}

// Internal reports whether external access is restricted
func (n *Network) Internal(ctx context.Context) (bool, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) bool { return r.Internal })
}

// Attachable reports whether standalone containers can attach
func (n *Network) Attachable(ctx context.Context) (bool, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) bool { return r.Attachable })
}

// Ingress reports whether this is the swarm routing-mesh network
func (n *Network) Ingress(ctx context.Context) (bool, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) bool { return r.Ingress })
}

// Containers returns attached containers keyed by container id
func (n *Network) Containers(ctx context.Context) (map[string]NetworkEndpoint, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) map[string]NetworkEndpoint { return r.Containers })
}

// Options returns the driver options
func (n *Network) Options(ctx context.Context) (map[string]string, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) map[string]string { return r.Options })
}

// Labels returns the network labels
func (n *Network) Labels(ctx context.Context) (map[string]string, error) {
	return resource.Field(ctx, n.Proxy, func(r *NetworkInspectResult) map[string]string { return r.Labels })
}

// NetworkCreateOptions are the flags of `docker network create`
type NetworkCreateOptions struct {
	Driver     string
	Attachable bool
	Internal   bool
	IPv6       bool
	Subnet     string
	Gateway    string
	Labels     map[string]string
	Options    map[string]string
}

func (o NetworkCreateOptions) args() []string {
	var args []string
	if o.Attachable {
		args = append(args, "--attachable")
	}
	if o.Driver != "" {
		args = append(args, "--driver", o.Driver)
	}
	if o.Gateway != "" {
		args = append(args, "--gateway", o.Gateway)
	}
	if o.Internal {
		args = append(args, "--internal")
	}
	if o.IPv6 {
		args = append(args, "--ipv6")
	}
	args = append(args, keyValueFlags("--label", o.Labels)...)
	args = append(args, keyValueFlags("--opt", o.Options)...)
	if o.Subnet != "" {
		args = append(args, "--subnet", o.Subnet)
	}
	return args
}

// NetworkCLI runs collection-level `docker network` commands
type NetworkCLI struct {
	collection *resource.Collection[NetworkInspectResult]
}

// NewNetworkCLI creates a network facade bound to client
func NewNetworkCLI(client *config.ClientConfig) *NetworkCLI {
	return &NetworkCLI{collection: resource.NewCollection(client, NetworkKind)}
}

// Create creates a network and returns it by id, uncached
func (c *NetworkCLI) Create(ctx context.Context, name string, opts NetworkCreateOptions) (*Network, error) {
	if name == "" {
		return nil, fmt.Errorf("network name is required")
	}

	args := append([]string{"create"}, opts.args()...)
	out, err := c.collection.Run(ctx, append(args, name)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create network %q: %w", name, err)
	}

	id := strings.TrimSpace(out)
	if id == "" {
		return nil, fmt.Errorf("failed to create network %q: docker printed no id", name)
	}

	c.collection.Client().Publish(&events.Event{
		Type:     events.EventResourceCreated,
		Kind:     NetworkKind.Name,
		Target:   id,
		Metadata: map[string]string{"name": name},
	})
	return &Network{resource.NewProxy(c.collection.Client(), NetworkKind, resource.ID(id))}, nil
}

// Connect attaches a container to the network and invalidates the
// network's cached record
func (c *NetworkCLI) Connect(ctx context.Context, network *Network, container string) error {
	if _, err := c.collection.Run(ctx, "connect", network.Target(), container); err != nil {
		return fmt.Errorf("failed to connect %q to network %q: %w", container, network.Target(), err)
	}
	network.Invalidate()
	return nil
}

// Disconnect detaches a container from the network and invalidates the
// network's cached record
func (c *NetworkCLI) Disconnect(ctx context.Context, network *Network, container string, force bool) error {
	args := []string{"disconnect"}
	if force {
		args = append(args, "--force")
	}
	if _, err := c.collection.Run(ctx, append(args, network.Target(), container)...); err != nil {
		return fmt.Errorf("failed to disconnect %q from network %q: %w", container, network.Target(), err)
	}
	network.Invalidate()
	return nil
}

// List returns every network by full id, uncached
func (c *NetworkCLI) List(ctx context.Context) ([]*Network, error) {
	proxies, err := c.collection.List(ctx)
	if err != nil {
		return nil, err
	}
	return wrapNetworks(proxies), nil
}

// Inspect returns a network by name or id without running a command
func (c *NetworkCLI) Inspect(ref string) *Network {
	return &Network{c.collection.Inspect(ref)}
}

// InspectMany returns one network per reference, in order
func (c *NetworkCLI) InspectMany(refs []string) []*Network {
	return wrapNetworks(c.collection.InspectMany(refs))
}

// Remove removes networks with one `docker network remove` call
func (c *NetworkCLI) Remove(ctx context.Context, force bool, targets ...resource.Target) error {
	return c.collection.Remove(ctx, force, targets...)
}

func wrapNetworks(proxies []*resource.Proxy[NetworkInspectResult]) []*Network {
	out := make([]*Network, len(proxies))
	for i, p := range proxies {
		out[i] = &Network{p}
	}
	return out
}
