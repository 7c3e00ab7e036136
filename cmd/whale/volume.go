package main

import (
	"fmt"

	"github.com/cuemby/whale/pkg/docker"
	"github.com/cuemby/whale/pkg/resource"
	"github.com/spf13/cobra"
)

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: "Manage docker volumes",
}

var volumeListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List volume names",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		volumes, err := client.Volume.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list volumes: %w", err)
		}
		return printIdentities(cmd.Context(), cmd.OutOrStdout(), volumeProxies(volumes))
	},
}

var volumeInspectCmd = &cobra.Command{
	Use:   "inspect VOLUME [VOLUME...]",
	Short: "Display detailed information on one or more volumes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		volumes := client.Volume.InspectMany(args)
		return printRecords(cmd.Context(), cmd.OutOrStdout(), format, volumeProxies(volumes))
	},
}

var volumeRemoveCmd = &cobra.Command{
	Use:     "rm VOLUME [VOLUME...]",
	Aliases: []string{"remove"},
	Short:   "Remove one or more volumes",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if err := client.Volume.Remove(cmd.Context(), force, resource.Refs(args...)...); err != nil {
			return fmt.Errorf("failed to remove volumes: %w", err)
		}
		for _, name := range args {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var volumeCreateCmd = &cobra.Command{
	Use:   "create [NAME]",
	Short: "Create a volume",
	Long: `Create a docker volume and print its name. Without NAME docker
generates one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		driver, _ := cmd.Flags().GetString("driver")
		labelValues, _ := cmd.Flags().GetStringSlice("label")
		optValues, _ := cmd.Flags().GetStringSlice("opt")

		labels, err := parseLabels(labelValues)
		if err != nil {
			return fmt.Errorf("invalid --label: %w", err)
		}
		opts, err := parseLabels(optValues)
		if err != nil {
			return fmt.Errorf("invalid --opt: %w", err)
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		}

		volume, err := client.Volume.Create(cmd.Context(), name, docker.VolumeCreateOptions{
			Driver:  driver,
			Labels:  labels,
			Options: opts,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), volume.Target())
		return nil
	},
}

func init() {
	volumeInspectCmd.Flags().StringP("output", "o", formatJSON, "Output format (json, yaml)")
	volumeRemoveCmd.Flags().BoolP("force", "f", false, "Force the removal of one or more volumes")

	volumeCreateCmd.Flags().StringP("driver", "d", "", "Volume driver name")
	volumeCreateCmd.Flags().StringSlice("label", nil, "Set metadata for a volume (KEY=VALUE)")
	volumeCreateCmd.Flags().StringSliceP("opt", "o", nil, "Set driver specific options (KEY=VALUE)")

	volumeCmd.AddCommand(volumeListCmd)
	volumeCmd.AddCommand(volumeInspectCmd)
	volumeCmd.AddCommand(volumeRemoveCmd)
	volumeCmd.AddCommand(volumeCreateCmd)
}

func volumeProxies(volumes []*docker.Volume) []*resource.Proxy[docker.VolumeInspectResult] {
	out := make([]*resource.Proxy[docker.VolumeInspectResult], len(volumes))
	for i, v := range volumes {
		out[i] = v.Proxy
	}
	return out
}
