package resource

import (
	"sync"
	"testing"

	"github.com/cuemby/whale/pkg/command/commandtest"
	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/events"
	"github.com/stretchr/testify/require"
)

// widget is a minimal record used to exercise the generic machinery
type widget struct {
	ID     string
	Name   string
	Size   int
	Labels map[string]string
	Owner  widgetOwner
}

type widgetOwner struct {
	Team  string
	Admin bool
}

func (o *widgetOwner) UnmarshalJSON(data []byte) error {
	return DecodeObject("widgetOwner", data, Fields{
		{Key: "Team", Into: &o.Team, Required: true},
		{Key: "Admin", Into: &o.Admin},
	})
}

func decodeWidget(data []byte) (*widget, error) {
	var w widget
	err := DecodeInspect("widget", data, Fields{
		{Key: "Id", Into: &w.ID, Required: true},
		{Key: "Name", Into: &w.Name, Required: true},
		{Key: "Size", Into: &w.Size},
		{Key: "Labels", Into: &w.Labels},
		{Key: "Owner", Into: &w.Owner},
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

var widgetKind = &Kind[widget]{
	Name:   "widget",
	Decode: decodeWidget,
	ID:     func(w *widget) string { return w.ID },
}

type capturePublisher struct {
	mu     sync.Mutex
	events []*events.Event
}

func (c *capturePublisher) Publish(ev *events.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *capturePublisher) types() []events.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.EventType, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Type
	}
	return out
}

func newTestClient(t *testing.T) (*config.ClientConfig, *commandtest.Recorder, *capturePublisher) {
	t.Helper()
	rec := commandtest.NewRecorder()
	pub := &capturePublisher{}
	client, err := config.New(config.Options{Context: "test"}, rec, config.WithEvents(pub))
	require.NoError(t, err)
	return client, rec, pub
}
