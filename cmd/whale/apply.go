package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cuemby/whale/pkg/command"
	"github.com/cuemby/whale/pkg/docker"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create networks and volumes from a YAML file",
	Long: `Create the networks and volumes described in a YAML file. Resources
that already exist are left untouched.

Examples:
  # Apply a single network
  whale apply -f network.yaml

  # Apply several documents separated by ---
  whale apply -f stack.yaml`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("file", "f", "", "YAML file to apply (required)")
	_ = applyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(applyCmd)
}

// WhaleResource is one document of an apply file
type WhaleResource struct {
	Kind     string           `yaml:"kind"`
	Metadata ResourceMetadata `yaml:"metadata"`
	Spec     map[string]any   `yaml:"spec"`
}

type ResourceMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

func runApply(cmd *cobra.Command, args []string) error {
	filename, _ := cmd.Flags().GetString("file")

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	defer f.Close()

	resources, err := decodeResources(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range resources {
		switch r.Kind {
		case "Network":
			err = applyNetwork(cmd.Context(), out, client, r)
		case "Volume":
			err = applyVolume(cmd.Context(), out, client, r)
		default:
			err = fmt.Errorf("unsupported resource kind: %s", r.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeResources reads every YAML document from r
func decodeResources(r io.Reader) ([]*WhaleResource, error) {
	var resources []*WhaleResource
	dec := yaml.NewDecoder(r)
	for {
		var res WhaleResource
		err := dec.Decode(&res)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if res.Kind == "" && res.Metadata.Name == "" {
			continue
		}
		resources = append(resources, &res)
	}
	return resources, nil
}

func applyNetwork(ctx context.Context, out io.Writer, c *docker.Client, r *WhaleResource) error {
	name := r.Metadata.Name
	if name == "" {
		return fmt.Errorf("network name is required")
	}

	exists, err := resourceExists(ctx, c.Network.Inspect(name).Reload)
	if err != nil {
		return fmt.Errorf("failed to check network %q: %w", name, err)
	}
	if exists {
		fmt.Fprintf(out, "Network already exists: %s (skipping)\n", name)
		return nil
	}

	fmt.Fprintf(out, "Creating network: %s\n", name)
	network, err := c.Network.Create(ctx, name, docker.NetworkCreateOptions{
		Driver:     getString(r.Spec, "driver", ""),
		Attachable: getBool(r.Spec, "attachable"),
		Internal:   getBool(r.Spec, "internal"),
		IPv6:       getBool(r.Spec, "ipv6"),
		Subnet:     getString(r.Spec, "subnet", ""),
		Gateway:    getString(r.Spec, "gateway", ""),
		Labels:     r.Metadata.Labels,
		Options:    getStringMap(r.Spec, "options"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Network created: %s (ID: %s)\n", name, network.Target())
	return nil
}

func applyVolume(ctx context.Context, out io.Writer, c *docker.Client, r *WhaleResource) error {
	name := r.Metadata.Name
	if name == "" {
		return fmt.Errorf("volume name is required")
	}

	exists, err := resourceExists(ctx, c.Volume.Inspect(name).Reload)
	if err != nil {
		return fmt.Errorf("failed to check volume %q: %w", name, err)
	}
	if exists {
		fmt.Fprintf(out, "Volume already exists: %s (skipping)\n", name)
		return nil
	}

	fmt.Fprintf(out, "Creating volume: %s\n", name)
	volume, err := c.Volume.Create(ctx, name, docker.VolumeCreateOptions{
		Driver:  getString(r.Spec, "driver", "local"),
		Labels:  r.Metadata.Labels,
		Options: getStringMap(r.Spec, "driverOpts"),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Volume created: %s\n", volume.Target())
	return nil
}

// resourceExists reports whether an inspect succeeds. A failed docker
// command means the resource is missing; any other error is returned.
func resourceExists(ctx context.Context, reload func(context.Context) error) (bool, error) {
	err := reload(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, command.ErrExecution) && ctx.Err() == nil {
		return false, nil
	}
	return false, err
}

// Helper functions
func getString(m map[string]any, key, defaultValue string) string {
	if v, ok := m[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return defaultValue
}

func getBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func getStringMap(m map[string]any, key string) map[string]string {
	raw, ok := m[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
