package main

import (
	"fmt"

	"github.com/cuemby/whale/pkg/docker"
	"github.com/cuemby/whale/pkg/resource"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage docker networks",
}

var networkListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List network ids",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		networks, err := client.Network.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list networks: %w", err)
		}
		return printIdentities(cmd.Context(), cmd.OutOrStdout(), networkProxies(networks))
	},
}

var networkInspectCmd = &cobra.Command{
	Use:   "inspect NETWORK [NETWORK...]",
	Short: "Display detailed information on one or more networks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		networks := client.Network.InspectMany(args)
		return printRecords(cmd.Context(), cmd.OutOrStdout(), format, networkProxies(networks))
	},
}

var networkRemoveCmd = &cobra.Command{
	Use:     "rm NETWORK [NETWORK...]",
	Aliases: []string{"remove"},
	Short:   "Remove one or more networks",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if err := client.Network.Remove(cmd.Context(), force, resource.Refs(args...)...); err != nil {
			return fmt.Errorf("failed to remove networks: %w", err)
		}
		for _, name := range args {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var networkCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a network",
	Long: `Create a docker network and print its id.

Examples:
  # Create a bridge network with a fixed subnet
  whale network create --subnet 10.10.0.0/24 backend

  # Create an attachable overlay network
  whale network create --driver overlay --attachable mesh`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := networkCreateOptions(cmd)
		if err != nil {
			return err
		}

		network, err := client.Network.Create(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), network.Target())
		return nil
	},
}

func init() {
	networkInspectCmd.Flags().StringP("output", "o", formatJSON, "Output format (json, yaml)")
	networkRemoveCmd.Flags().BoolP("force", "f", false, "Do not error if the network does not exist")

	networkCreateCmd.Flags().StringP("driver", "d", "", "Driver to manage the network")
	networkCreateCmd.Flags().Bool("attachable", false, "Enable manual container attachment")
	networkCreateCmd.Flags().Bool("internal", false, "Restrict external access to the network")
	networkCreateCmd.Flags().Bool("ipv6", false, "Enable IPv6 networking")
	networkCreateCmd.Flags().String("subnet", "", "Subnet in CIDR format")
	networkCreateCmd.Flags().String("gateway", "", "Gateway for the subnet")
	networkCreateCmd.Flags().StringSlice("label", nil, "Set metadata on the network (KEY=VALUE)")
	networkCreateCmd.Flags().StringSliceP("opt", "o", nil, "Set driver specific options (KEY=VALUE)")

	networkCmd.AddCommand(networkListCmd)
	networkCmd.AddCommand(networkInspectCmd)
	networkCmd.AddCommand(networkRemoveCmd)
	networkCmd.AddCommand(networkCreateCmd)
}

func networkCreateOptions(cmd *cobra.Command) (docker.NetworkCreateOptions, error) {
	flags := cmd.Flags()
	driver, _ := flags.GetString("driver")
	attachable, _ := flags.GetBool("attachable")
	internal, _ := flags.GetBool("internal")
	ipv6, _ := flags.GetBool("ipv6")
	subnet, _ := flags.GetString("subnet")
	gateway, _ := flags.GetString("gateway")
	labelValues, _ := flags.GetStringSlice("label")
	optValues, _ := flags.GetStringSlice("opt")

	labels, err := parseLabels(labelValues)
	if err != nil {
		return docker.NetworkCreateOptions{}, fmt.Errorf("invalid --label: %w", err)
	}
	opts, err := parseLabels(optValues)
	if err != nil {
		return docker.NetworkCreateOptions{}, fmt.Errorf("invalid --opt: %w", err)
	}

	return docker.NetworkCreateOptions{
		Driver:     driver,
		Attachable: attachable,
		Internal:   internal,
		IPv6:       ipv6,
		Subnet:     subnet,
		Gateway:    gateway,
		Labels:     labels,
		Options:    opts,
	}, nil
}

func networkProxies(networks []*docker.Network) []*resource.Proxy[docker.NetworkInspectResult] {
	out := make([]*resource.Proxy[docker.NetworkInspectResult], len(networks))
	for i, n := range networks {
		out[i] = n.Proxy
	}
	return out
}
