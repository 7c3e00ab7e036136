package resource

// Kind describes one docker resource kind (context, network, volume, ...)
// to the generic proxy and collection.
type Kind[R any] struct {
	// Name is the docker management command, e.g. "context"
	Name string

	// ListFlags are appended to `<name> list --quiet`
	ListFlags []string

	// Decode parses inspect output into a fresh record
	Decode func(data []byte) (*R, error)

	// ID extracts the immutable id from a record
	ID func(record *R) string
}

func (k *Kind[R]) inspectArgs(target string) []string {
	args := []string{k.Name, "inspect"}
	if target != "" {
		args = append(args, target)
	}
	return args
}

func (k *Kind[R]) listArgs() []string {
	return append([]string{k.Name, "list", "--quiet"}, k.ListFlags...)
}

func (k *Kind[R]) removeArgs(force bool, targets []string) []string {
	args := []string{k.Name, "remove"}
	if force {
		args = append(args, "--force")
	}
	return append(args, targets...)
}
