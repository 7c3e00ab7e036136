package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuemby/whale/pkg/config"
	"github.com/cuemby/whale/pkg/docker"
	"github.com/cuemby/whale/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	// client is built once per invocation by the root command's pre-run hook
	client *docker.Client

	// newClient builds client from the resolved options
	newClient = func(opts config.Options) (*docker.Client, error) {
		return docker.New(opts)
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "whale",
	Short: "whale - inspect and manage docker resources through the docker CLI",
	Long: `whale drives the docker CLI and exposes contexts, networks and volumes
as lazily loaded objects. Every flag below is passed through to docker.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"whale version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	flags := rootCmd.PersistentFlags()
	flags.String("config-file", "", "YAML file with docker client options")
	flags.String("binary", "", "docker binary (default \"docker\")")
	flags.String("config", "", "docker client config directory")
	flags.StringP("context", "c", "", "docker context to use")
	flags.BoolP("debug", "D", false, "enable docker debug mode")
	flags.StringP("host", "H", "", "docker daemon socket to connect to")
	flags.StringP("log-level", "l", "", "docker log level (debug, info, warn, error, fatal)")
	flags.Bool("tls", false, "use TLS")
	flags.String("tlscacert", "", "trust certs signed only by this CA")
	flags.String("tlscert", "", "path to TLS certificate file")
	flags.String("tlskey", "", "path to TLS key file")
	flags.Bool("tlsverify", false, "use TLS and verify the remote")
	flags.String("verbosity", "warn", "whale log level (debug, info, warn, error)")
	flags.Bool("json-logs", false, "emit whale logs as JSON")

	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(volumeCmd)
}

// setup initializes logging and the docker client from flags and the
// optional config file. Explicit flags override the file.
func setup(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetString("verbosity")
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")
	log.Init(log.Config{
		Level:      log.Level(verbosity),
		JSONOutput: jsonLogs,
		Output:     os.Stderr,
	})

	opts, err := clientOptions(cmd)
	if err != nil {
		return err
	}

	client, err = newClient(opts)
	if err != nil {
		return fmt.Errorf("failed to create docker client: %w", err)
	}
	return nil
}

func clientOptions(cmd *cobra.Command) (config.Options, error) {
	var opts config.Options

	flags := cmd.Flags()
	if path, _ := flags.GetString("config-file"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}

	strFlags := map[string]*string{
		"binary":    &opts.Binary,
		"config":    &opts.Config,
		"context":   &opts.Context,
		"host":      &opts.Host,
		"log-level": &opts.LogLevel,
		"tlscacert": &opts.TLSCACert,
		"tlscert":   &opts.TLSCert,
		"tlskey":    &opts.TLSKey,
	}
	for name, dst := range strFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	boolFlags := map[string]*bool{
		"debug":     &opts.Debug,
		"tls":       &opts.TLS,
		"tlsverify": &opts.TLSVerify,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	return opts, nil
}
