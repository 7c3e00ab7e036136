package resource

// Identity names a resource either by a mutable reference (a name that may
// later point elsewhere) or by an immutable id. Once immutable it never
// changes.
type Identity struct {
	value     string
	immutable bool
}

// Reference returns a mutable identity. An empty reference asks the kind
// for its default target.
func Reference(ref string) Identity {
	return Identity{value: ref}
}

// ID returns an immutable identity
func ID(id string) Identity {
	return Identity{value: id, immutable: true}
}

// Value returns the reference or id
func (i Identity) Value() string {
	return i.value
}

// IsImmutable reports whether Value is a stable id
func (i Identity) IsImmutable() bool {
	return i.immutable
}

// IsSet reports whether any reference or id is known
func (i Identity) IsSet() bool {
	return i.value != ""
}

func (i Identity) String() string {
	return i.value
}
