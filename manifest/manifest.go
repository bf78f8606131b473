// Package manifest parses the colonia.yaml file a project repository declares
// its environments and stacks in.
package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed desired state of one repository manifest. It is never
// persisted; declaration order is preserved for deterministic logging.
type Manifest struct {
	Environments []EnvironmentDecl `yaml:"environments"`
	Stacks       []StackDecl       `yaml:"stacks"`
}

type EnvironmentDecl struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

type StackDecl struct {
	Name         string   `yaml:"name"`
	Stack        string   `yaml:"stack"` // path to the stack's IaC code, used as its identifier
	Environments []string `yaml:"environments"`
	DependsOn    []string `yaml:"depends_on"`
}

// Key returns the identity a stack reconciles under: the stack path when
// declared, the name otherwise. Stacks without a path cannot be referenced
// by depends_on.
func (s StackDecl) Key() string {
	if s.Stack != "" {
		return s.Stack
	}
	return s.Name
}

// Empty reports whether the manifest declares nothing at all.
func (m *Manifest) Empty() bool {
	return len(m.Environments) == 0 && len(m.Stacks) == 0
}

// ParseError describes a manifest that cannot be applied. A malformed manifest
// always fails as a whole; there is no partial application.
type ParseError struct {
	Section string
	Index   int
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("manifest: %s[%d]: %s", e.Section, e.Index, e.Reason)
	}
	return fmt.Sprintf("manifest: %s", e.Reason)
}

// Parse decodes and validates manifest text. Both top-level keys are optional;
// a missing key yields an empty list. Validation failures return a *ParseError
// naming the offending entry.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Section: "yaml", Index: -1, Reason: err.Error()}
	}

	declared := make(map[string]struct{}, len(m.Environments))
	for i, env := range m.Environments {
		if env.Name == "" {
			return nil, &ParseError{Section: "environments", Index: i, Reason: "missing name"}
		}
		if env.Dir == "" {
			return nil, &ParseError{Section: "environments", Index: i, Reason: fmt.Sprintf("environment %q is missing dir", env.Name)}
		}
		if _, dup := declared[env.Name]; dup {
			return nil, &ParseError{Section: "environments", Index: i, Reason: fmt.Sprintf("duplicate environment name %q", env.Name)}
		}
		declared[env.Name] = struct{}{}
	}

	for i, stack := range m.Stacks {
		if stack.Name == "" {
			return nil, &ParseError{Section: "stacks", Index: i, Reason: "missing name"}
		}
		for _, envName := range stack.Environments {
			if _, ok := declared[envName]; !ok {
				return nil, &ParseError{
					Section: "stacks",
					Index:   i,
					Reason:  fmt.Sprintf("stack %q references undeclared environment %q", stack.Name, envName),
				}
			}
		}
	}

	return &m, nil
}
