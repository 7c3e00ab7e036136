/*
Package log provides structured logging for whale using zerolog.

The package keeps a single global zerolog.Logger that discards output until
Init is called. Libraries embedding whale therefore stay silent unless the
host program opts in, while the whale binary calls Init from its root
command.

# Configuration

	log.Init(log.Config{
		Level:      log.DebugLevel,
		JSONOutput: true,
		Output:     os.Stderr,
	})

Level filters entries below the threshold; JSONOutput switches between JSON
lines and the zerolog console writer; Output defaults to stderr so that
command output on stdout stays machine readable.

# Context Loggers

  - WithComponent("cli"): free-form component tag
  - WithKind("context"): resource proxy and facade logs
  - WithInvocation(id): one docker CLI invocation

Every docker invocation is logged at debug level with its arguments,
exit code and duration. Cache hits and misses are logged at debug level
by the resource package.
*/
package log
