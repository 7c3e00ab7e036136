package docker

import (
	"context"
	"testing"
	"time"

	"github.com/cuemby/whale/pkg/command"
	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientSharesConfig(t *testing.T) {
	c, _, _ := newTestClient(t)

	assert.Same(t, c.Config, c.Context.Inspect("x").Client())
	assert.Same(t, c.Config, c.Network.Inspect("x").Client())
	assert.Same(t, c.Config, c.Volume.Inspect("x").Client())
}

func TestNew(t *testing.T) {
	_, err := New(config.Options{Context: "a", Host: "tcp://b:2375"})
	assert.Error(t, err)

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()
	sub := broker.Subscribe()

	c, err := New(config.Options{Binary: "/nonexistent/docker"}, config.WithEvents(broker))
	require.NoError(t, err)
	assert.Equal(t, []string{"/nonexistent/docker"}, c.Config.Command())

	_, err = c.Context.List(context.Background())
	assert.ErrorIs(t, err, command.ErrExecution)

	select {
	case ev := <-sub:
		assert.Equal(t, events.EventCommandFailed, ev.Type)
		assert.Equal(t, "context list", ev.Metadata["subcommand"])
	case <-time.After(2 * time.Second):
		t.Fatal("no command.failed event published")
	}
}
