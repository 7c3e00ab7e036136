package docker

import (
	"testing"

	"github.com/cuemby/whale/pkg/command/commandtest"
	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/events"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	events []*events.Event
}

func (c *capturePublisher) Publish(ev *events.Event) {
	c.events = append(c.events, ev)
}

func newTestClient(t *testing.T) (*Client, *commandtest.Recorder, *capturePublisher) {
	t.Helper()
	rec := commandtest.NewRecorder()
	pub := &capturePublisher{}
	cfg, err := config.New(config.Options{}, rec, config.WithEvents(pub))
	require.NoError(t, err)
	return NewClient(cfg), rec, pub
}
