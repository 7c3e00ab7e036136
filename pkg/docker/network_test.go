package docker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuemby/whale/pkg/events"
	"github.com/cuemby/whale/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backendID = "3f1c7d0e9b2a4c6f8e1d3b5a7c9e0f2d4b6a8c0e1f3d5b7a9c2e4f6a8b0d1c3e"

const backendJSON = `[
    {
        "Name": "backend",
        "Id": "` + backendID + `",
        "Created": "2024-05-02T10:15:30.123456789Z",
        "Scope": "local",
        "Driver": "bridge",
        "EnableIPv6": false,
        "IPAM": {
            "Driver": "default",
            "Options": {},
            "Config": [{"Subnet": "172.20.0.0/16", "Gateway": "172.20.0.1"}]
        },
        "Internal": false,
        "Attachable": true,
        "Ingress": false,
        "ConfigFrom": {"Network": ""},
        "ConfigOnly": false,
        "Containers": {
            "9d8c": {
                "Name": "api",
                "EndpointID": "e1",
                "MacAddress": "02:42:ac:14:00:02",
                "IPv4Address": "172.20.0.2/16",
                "IPv6Address": ""
            }
        },
        "Options": {},
        "Labels": {"team": "platform"}
    }
]`

func TestNetwork_ResolveNameToID(t *testing.T) {
	c, rec, _ := newTestClient(t)
	rec.On("docker network inspect backend", backendJSON)

	ctx := context.Background()
	n := c.Network.Inspect("backend")

	id, err := n.ID(ctx)
	require.NoError(t, err)
	assert.Equal(t, backendID, id)
	assert.Equal(t, backendID, n.Reference())

	name, err := n.Name(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backend", name)

	created, err := n.Created(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 10, 15, 30, 123456789, time.UTC), created.UTC())

	ipam, err := n.IPAM(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", ipam.Driver)
	require.Len(t, ipam.Config, 1)
	assert.Equal(t, "172.20.0.0/16", ipam.Config[0].Subnet)
	assert.Equal(t, "172.20.0.1", ipam.Config[0].Gateway)

	containers, err := n.Containers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "api", containers["9d8c"].Name)
	assert.Equal(t, "172.20.0.2/16", containers["9d8c"].IPv4Address)

	attachable, err := n.Attachable(ctx)
	require.NoError(t, err)
	assert.True(t, attachable)

	labels, err := n.Labels(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"team": "platform"}, labels)

	driver, err := n.Driver(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bridge", driver)

	assert.Equal(t, 1, rec.CallCount())

	// after resolution the id, not the name, is used
	rec.On("docker network inspect "+backendID, backendJSON)
	require.NoError(t, n.Reload(ctx))
	assert.Equal(t, 1, rec.Count("docker network inspect "+backendID))
}

func TestNetwork_ListUsesFullIDs(t *testing.T) {
	c, rec, _ := newTestClient(t)
	rec.On("docker network list --quiet --no-trunc", backendID+"\nabc123\n")

	networks, err := c.Network.List(context.Background())
	require.NoError(t, err)
	require.Len(t, networks, 2)
	assert.Equal(t, backendID, networks[0].Reference())
	assert.True(t, networks[1].IsImmutable())
	assert.Equal(t, 1, rec.CallCount())
}

func TestNetwork_Create(t *testing.T) {
	c, rec, pub := newTestClient(t)
	rec.On("docker network create --attachable --driver overlay --internal"+
		" --label env=test --label team=platform --opt encrypted=true --subnet 10.10.0.0/24 backend",
		backendID+"\n")

	n, err := c.Network.Create(context.Background(), "backend", NetworkCreateOptions{
		Driver:     "overlay",
		Attachable: true,
		Internal:   true,
		Subnet:     "10.10.0.0/24",
		Labels:     map[string]string{"team": "platform", "env": "test"},
		Options:    map[string]string{"encrypted": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, backendID, n.Reference())
	assert.True(t, n.IsImmutable())
	assert.False(t, n.Loaded())

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventResourceCreated, pub.events[0].Type)
	assert.Equal(t, "backend", pub.events[0].Metadata["name"])

	_, err = c.Network.Create(context.Background(), "", NetworkCreateOptions{})
	assert.ErrorContains(t, err, "network name is required")
	assert.Equal(t, 1, rec.CallCount())
}

func TestNetwork_CreateFailure(t *testing.T) {
	c, rec, _ := newTestClient(t)
	rec.OnError("docker network create backend", 1, "network with name backend already exists")

	_, err := c.Network.Create(context.Background(), "backend", NetworkCreateOptions{})
	assert.ErrorContains(t, err, "already exists")
}

func TestNetwork_ConnectInvalidates(t *testing.T) {
	c, rec, pub := newTestClient(t)
	rec.On("docker network inspect "+backendID, backendJSON).
		On("docker network connect "+backendID+" worker", "").
		On("docker network disconnect --force "+backendID+" worker", "")

	ctx := context.Background()
	n := &Network{resource.NewProxy(c.Config, NetworkKind, resource.ID(backendID))}

	_, err := n.Containers(ctx)
	require.NoError(t, err)
	require.True(t, n.Loaded())

	require.NoError(t, c.Network.Connect(ctx, n, "worker"))
	assert.False(t, n.Loaded())

	_, err = n.Containers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Count("docker network inspect "+backendID))

	require.NoError(t, c.Network.Disconnect(ctx, n, "worker", true))
	assert.False(t, n.Loaded())

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.EventResourceInvalidated, pub.events[0].Type)
	assert.Equal(t, events.EventResourceInvalidated, pub.events[1].Type)
}

func TestNetwork_ConnectFailureKeepsCache(t *testing.T) {
	c, rec, _ := newTestClient(t)
	rec.On("docker network inspect "+backendID, backendJSON).
		OnError("docker network connect "+backendID+" ghost", 1, "No such container: ghost")

	ctx := context.Background()
	n := &Network{resource.NewProxy(c.Config, NetworkKind, resource.ID(backendID))}
	_, err := n.Name(ctx)
	require.NoError(t, err)

	err = c.Network.Connect(ctx, n, "ghost")
	assert.ErrorContains(t, err, "No such container")
	assert.True(t, n.Loaded())
}

func TestNetwork_ScopedRemoval(t *testing.T) {
	c, rec, _ := newTestClient(t)
	rec.On("docker network create scratch", backendID).
		On("docker network remove --force "+backendID, backendID)

	ctx := context.Background()
	n, err := c.Network.Create(ctx, "scratch", NetworkCreateOptions{})
	require.NoError(t, err)

	errTest := errors.New("integration test failed")
	err = resource.WithScope(ctx, n, func(*Network) error { return errTest })
	assert.ErrorIs(t, err, errTest)
	assert.Equal(t, 1, rec.Count("docker network remove --force "+backendID))
}

func TestNetwork_InspectMany(t *testing.T) {
	c, rec, _ := newTestClient(t)
	rec.On("docker network inspect frontend", `[{"Name":"frontend","Id":"f1","Scope":"local","Driver":"bridge"}]`).
		On("docker network inspect backend", backendJSON).
		On("docker network remove f1 "+backendID, "")

	networks := c.Network.InspectMany([]string{"frontend", "backend"})
	require.Len(t, networks, 2)
	require.NoError(t, c.Network.Remove(context.Background(), false, networks[0], networks[1]))
	assert.Equal(t, 1, rec.Count("docker network remove f1 "+backendID))
	assert.Equal(t, 3, rec.CallCount())
}
