package docker

import (
	"github.com/cuemby/whale/pkg/command"
	"github.com/cuemby/whale/pkg/config"
)

// Client groups the per-kind facades of one docker CLI session. Every
// facade and every proxy they return share the same ClientConfig.
type Client struct {
	Config  *config.ClientConfig
	Context *ContextCLI
	Network *NetworkCLI
	Volume  *VolumeCLI
}

// NewClient creates a client over an existing configuration
func NewClient(cfg *config.ClientConfig) *Client {
	return &Client{
		Config:  cfg,
		Context: NewContextCLI(cfg),
		Network: NewNetworkCLI(cfg),
		Volume:  NewVolumeCLI(cfg),
	}
}

// New creates a client that runs the docker binary as a subprocess
func New(opts config.Options, options ...config.Option) (*Client, error) {
	runner := command.NewRunner()
	cfg, err := config.New(opts, runner, options...)
	if err != nil {
		return nil, err
	}
	if cfg.Events() != nil {
		runner.WithEvents(cfg.Events())
	}
	return NewClient(cfg), nil
}
