/*
Package metrics provides Prometheus instrumentation for whale.

All collectors are package-level variables registered with the default
registry at init time. Embedding programs expose them with promhttp on
whatever endpoint they already serve; whale itself never starts a listener.

# Metric Categories

Commands:
  - whale_commands_total{subcommand,status}: every docker CLI invocation
  - whale_command_duration_seconds{subcommand}: wall time per invocation

Proxy cache:
  - whale_cache_lookups_total{kind,result}: hit when a cached record served
    the read, miss when a fetch was needed
  - whale_fetches_total{kind,status}: inspect round trips
  - whale_invalidations_total{kind}: explicit cache drops

The subcommand label is the kind and verb (for example "context inspect"),
never the resource reference, to keep cardinality bounded.

# Timer Helper

	timer := metrics.NewTimer()
	out, err := run(ctx, args)
	timer.ObserveDurationVec(metrics.CommandDuration, "network list")
*/
package metrics
