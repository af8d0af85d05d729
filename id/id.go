// Package id defines TypeID-based identities for gateway-local entities.
//
// Discord objects keep their snowflakes; these ids only name things this
// process creates itself — awaiter registrations and the node instance
// token used in identify lease values. They are K-sortable (UUIDv7-based)
// and URL-safe in the format "prefix_suffix".
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the entity type encoded in a TypeID.
type Prefix string

const (
	// PrefixAwait tags event-awaiter registrations.
	PrefixAwait Prefix = "await"
	// PrefixNode tags gateway node instances.
	PrefixNode Prefix = "node"
)

// ID wraps a TypeID: a prefix-qualified, globally unique, sortable
// identifier.
type ID struct {
	inner Resource
	valid bool
}

// Resource aliases the underlying TypeID type.
type Resource = typeid.TypeID

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix. It panics
// if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}
	return ID{inner: tid, valid: true}
}

// NewAwaitID generates a new awaiter registration id.
func NewAwaitID() ID { return New(PrefixAwait) }

// NewNodeID generates a new node instance id.
func NewNodeID() ID { return New(PrefixNode) }

// Parse parses a TypeID string (e.g. "await_01h2xcejqtf2nbrexx3vqjhp41").
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse empty string")
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	return ID{inner: tid, valid: true}, nil
}

// String returns the full "prefix_suffix" form, or "" for Nil.
func (i ID) String() string {
	if !i.valid {
		return ""
	}
	return i.inner.String()
}

// Prefix returns the ID's prefix.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}
	return Prefix(i.inner.Prefix())
}

// IsNil reports whether the ID is the zero value.
func (i ID) IsNil() bool { return !i.valid }

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
