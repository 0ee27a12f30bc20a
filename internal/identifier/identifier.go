// Package identifier parses the hierarchical `prefix/name` identifiers the
// ECS control plane issues for clusters, tasks and containers.
package identifier

import (
	"strings"

	"github.com/iambrandonn/iecs/internal/failure"
)

// Separator splits the prefix from the display name.
const Separator = "/"

// Identifier is a parsed resource identifier.
type Identifier struct {
	Raw    string
	Prefix string
	Name   string // display name: everything after the first separator
}

// Parse splits id at its first separator. An identifier without a separator,
// or with an empty prefix or name, is rejected.
//
//	arn:aws:ecs:us-east-1:123456789012:cluster/prod       -> Name "prod"
//	arn:aws:ecs:us-east-1:123456789012:task/prod/0f9a...   -> Name "prod/0f9a..."
func Parse(id string) (Identifier, error) {
	prefix, name, ok := strings.Cut(id, Separator)
	if !ok {
		return Identifier{}, failure.Parse(id, "missing '"+Separator+"' separator")
	}
	if prefix == "" {
		return Identifier{}, failure.Parse(id, "empty prefix")
	}
	if name == "" {
		return Identifier{}, failure.Parse(id, "empty name")
	}
	return Identifier{Raw: id, Prefix: prefix, Name: name}, nil
}

// Leaf returns the segment after the last separator, e.g. the task id of a
// task ARN.
func (i Identifier) Leaf() string {
	if idx := strings.LastIndex(i.Name, Separator); idx >= 0 {
		return i.Name[idx+1:]
	}
	return i.Name
}

func (i Identifier) String() string {
	return i.Raw
}
