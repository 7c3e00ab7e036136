package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/cuemby/whale/pkg/command"
	"github.com/cuemby/whale/pkg/events"
	"gopkg.in/yaml.v3"
)

// DefaultBinary is the docker CLI looked up in PATH when none is configured
const DefaultBinary = "docker"

var validLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Options are the docker CLI global flags prepended to every invocation
type Options struct {
	Binary    string `yaml:"binary,omitempty"`
	Config    string `yaml:"config,omitempty"`
	Context   string `yaml:"context,omitempty"`
	Debug     bool   `yaml:"debug,omitempty"`
	Host      string `yaml:"host,omitempty"`
	LogLevel  string `yaml:"log_level,omitempty"`
	TLS       bool   `yaml:"tls,omitempty"`
	TLSCACert string `yaml:"tlscacert,omitempty"`
	TLSCert   string `yaml:"tlscert,omitempty"`
	TLSKey    string `yaml:"tlskey,omitempty"`
	TLSVerify bool   `yaml:"tlsverify,omitempty"`
}

// Validate checks option combinations the docker CLI would reject
func (o Options) Validate() error {
	if o.Context != "" && o.Host != "" {
		return errors.New("context and host are mutually exclusive")
	}
	if !validLogLevels[o.LogLevel] {
		return fmt.Errorf("invalid log level %q", o.LogLevel)
	}
	return nil
}

// Load reads Options from a YAML file
func Load(path string) (Options, error) {
	var opts Options

	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return opts, nil
}

// Option customizes a ClientConfig at construction
type Option func(*ClientConfig)

// WithEvents attaches an event publisher shared by every proxy of the session
func WithEvents(p events.Publisher) Option {
	return func(c *ClientConfig) {
		c.events = p
	}
}

// ClientConfig describes how to reach the docker CLI for one session. It
// is immutable after New and safe to share between goroutines and proxies.
type ClientConfig struct {
	opts     Options
	baseArgs []string
	executor command.Executor
	events   events.Publisher
}

// New validates opts and builds an immutable ClientConfig
func New(opts Options, executor command.Executor, options ...Option) (*ClientConfig, error) {
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client options: %w", err)
	}

	c := &ClientConfig{
		opts:     opts,
		baseArgs: buildArgs(opts),
		executor: executor,
	}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

func buildArgs(o Options) []string {
	args := []string{o.Binary}
	addValue := func(flag, value string) {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	addFlag := func(flag string, set bool) {
		if set {
			args = append(args, flag)
		}
	}

	addValue("--config", o.Config)
	addValue("--context", o.Context)
	addFlag("--debug", o.Debug)
	addValue("--host", o.Host)
	addValue("--log-level", o.LogLevel)
	addFlag("--tls", o.TLS)
	addValue("--tlscacert", o.TLSCACert)
	addValue("--tlscert", o.TLSCert)
	addValue("--tlskey", o.TLSKey)
	addFlag("--tlsverify", o.TLSVerify)
	return args
}

// Command returns a fresh copy of the base argument vector (binary plus
// global flags). Appending to it never affects the configuration.
func (c *ClientConfig) Command(args ...string) []string {
	out := make([]string, 0, len(c.baseArgs)+len(args))
	out = append(out, c.baseArgs...)
	return append(out, args...)
}

// Options returns a copy of the options this configuration was built from
func (c *ClientConfig) Options() Options {
	return c.opts
}

// Executor returns the shared command executor
func (c *ClientConfig) Executor() command.Executor {
	return c.executor
}

// Events returns the attached publisher, or nil
func (c *ClientConfig) Events() events.Publisher {
	return c.events
}

// Publish forwards ev to the attached publisher, if any
func (c *ClientConfig) Publish(ev *events.Event) {
	if c.events != nil {
		c.events.Publish(ev)
	}
}
