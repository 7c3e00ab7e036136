package docker

import (
	"sort"
)

// keyValueFlags renders a map as repeated `flag k=v` pairs in key order
func keyValueFlags(flag string, values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, flag, k+"="+values[k])
	}
	return args
}
