package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cuemby/whale/pkg/resource"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// printIdentities writes one identity per line. Listed proxies already
// carry their id, so this runs no commands.
func printIdentities[R any](ctx context.Context, out io.Writer, proxies []*resource.Proxy[R]) error {
	for _, p := range proxies {
		id, err := p.Identity(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, id)
	}
	return nil
}

// printRecords loads every proxy and writes the records as one document
func printRecords[R any](ctx context.Context, out io.Writer, format string, proxies []*resource.Proxy[R]) error {
	records := make([]*R, 0, len(proxies))
	for _, p := range proxies {
		r, err := p.Get(ctx)
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	return writeFormatted(out, format, records)
}

func writeFormatted(out io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "    ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// parseLabels turns KEY=VALUE flag values into a map
func parseLabels(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid KEY=VALUE pair: %q", v)
		}
		out[key] = value
	}
	return out, nil
}
