package measure

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ID is the opaque unique identity of a measurement. It serializes as the
// canonical UUID string in project files.
type ID uuid.UUID

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(uuid.New())
}

// ParseID parses a canonical UUID string.
func ParseID(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ID{}, fmt.Errorf("measure: bad id %q: %w", s, err)
	}
	return ID(u), nil
}

// String returns the canonical UUID form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether id is the zero id.
func (id ID) IsZero() bool {
	return id == ID{}
}

// MarshalYAML encodes the id as its string form.
func (id ID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}

// UnmarshalYAML decodes a canonical UUID string.
func (id *ID) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseID(node.Value)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
