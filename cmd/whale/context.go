package main

import (
	"fmt"

	"github.com/cuemby/whale/pkg/docker"
	"github.com/cuemby/whale/pkg/resource"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Inspect and remove docker contexts",
}

var contextListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List context names",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		contexts, err := client.Context.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list contexts: %w", err)
		}
		return printIdentities(cmd.Context(), cmd.OutOrStdout(), contextProxies(contexts))
	},
}

var contextInspectCmd = &cobra.Command{
	Use:   "inspect CONTEXT [CONTEXT...]",
	Short: "Display detailed information on one or more contexts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		contexts := client.Context.InspectMany(args)
		return printRecords(cmd.Context(), cmd.OutOrStdout(), format, contextProxies(contexts))
	},
}

var contextRemoveCmd = &cobra.Command{
	Use:     "rm CONTEXT [CONTEXT...]",
	Aliases: []string{"remove"},
	Short:   "Remove one or more contexts",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if err := client.Context.Remove(cmd.Context(), force, resource.Refs(args...)...); err != nil {
			return fmt.Errorf("failed to remove contexts: %w", err)
		}
		for _, name := range args {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	contextInspectCmd.Flags().StringP("output", "o", formatJSON, "Output format (json, yaml)")
	contextRemoveCmd.Flags().BoolP("force", "f", false, "Force the removal of a context in use")

	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextInspectCmd)
	contextCmd.AddCommand(contextRemoveCmd)
}

func contextProxies(contexts []*docker.Context) []*resource.Proxy[docker.ContextInspectResult] {
	out := make([]*resource.Proxy[docker.ContextInspectResult], len(contexts))
	for i, c := range contexts {
		out[i] = c.Proxy
	}
	return out
}
