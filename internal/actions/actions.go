// Package actions holds the catalog of Bear x-callback-url actions and
// turns tool requests into validated URL parameters.
package actions

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed bear.yaml
var bearCatalog []byte

// ErrUnknownAction is returned when a name matches no catalog entry.
var ErrUnknownAction = errors.New("unsupported action")

// Kind is the value type of a parameter.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindList   Kind = "list"
)

// ResponseKind describes what Bear sends back through x-success.
type ResponseKind string

const (
	ResponseNone       ResponseKind = "none"
	ResponseNote       ResponseKind = "note"
	ResponseIdentifier ResponseKind = "identifier"
	ResponseTags       ResponseKind = "tags"
	ResponseNotes      ResponseKind = "notes"
	ResponseText       ResponseKind = "text"
)

type (
	// Param is one accepted parameter of an action.
	Param struct {
		Name        string            `yaml:"name"`
		Kind        Kind              `yaml:"kind"`
		Required    bool              `yaml:"required"`
		Description string            `yaml:"description"`
		Enum        []string          `yaml:"enum"`
		OnlyWith    map[string]string `yaml:"only_with"`
	}

	// Pair is a fixed parameter sent with every call of an action.
	Pair struct {
		Key   string
		Value string
	}

	// Pairs keeps the order in which fixed parameters were declared.
	Pairs []Pair

	// Action is a single Bear x-callback-url action exposed as a tool.
	Action struct {
		Tool        string       `yaml:"tool"`
		Path        string       `yaml:"path"`
		Description string       `yaml:"description"`
		Params      []Param      `yaml:"params"`
		OneOf       [][]string   `yaml:"one_of"`
		Quiet       Pairs        `yaml:"quiet"`
		Response    ResponseKind `yaml:"response"`
	}

	// Catalog is the lookup table from tool names and paths to actions.
	Catalog struct {
		actions []Action
		index   map[string]int
	}

	catalogFile struct {
		Actions []Action `yaml:"actions"`
	}
)

// UnmarshalYAML decodes a YAML mapping into ordered pairs.
func (p *Pairs) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: quiet parameters must be a mapping", value.Line)
	}
	pairs := make(Pairs, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: quiet parameter %q must be a scalar", v.Line, k.Value)
		}
		pairs = append(pairs, Pair{Key: k.Value, Value: v.Value})
	}
	*p = pairs
	return nil
}

// Load parses the embedded Bear catalog.
func Load() (*Catalog, error) {
	return Parse(bearCatalog)
}

// Parse decodes and checks a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse action catalog: %w", err)
	}

	c := &Catalog{
		actions: file.Actions,
		index:   make(map[string]int, len(file.Actions)*2),
	}
	for i := range c.actions {
		a := &c.actions[i]
		if err := a.normalize(); err != nil {
			return nil, err
		}
		for _, name := range []string{a.Tool, a.Path} {
			if j, ok := c.index[name]; ok && j != i {
				return nil, fmt.Errorf("duplicate action name %q", name)
			}
			c.index[name] = i
		}
	}
	return c, nil
}

// normalize fills defaults and checks internal references.
func (a *Action) normalize() error {
	if a.Tool == "" || a.Path == "" {
		return fmt.Errorf("action %q: tool and path are required", a.Tool+a.Path)
	}
	if a.Response == "" {
		a.Response = ResponseNone
	}
	switch a.Response {
	case ResponseNone, ResponseNote, ResponseIdentifier, ResponseTags, ResponseNotes, ResponseText:
	default:
		return fmt.Errorf("action %q: unknown response kind %q", a.Tool, a.Response)
	}

	seen := make(map[string]bool, len(a.Params))
	for i := range a.Params {
		p := &a.Params[i]
		if p.Name == "" {
			return fmt.Errorf("action %q: parameter without name", a.Tool)
		}
		if seen[p.Name] {
			return fmt.Errorf("action %q: duplicate parameter %q", a.Tool, p.Name)
		}
		seen[p.Name] = true
		if p.Kind == "" {
			p.Kind = KindString
		}
		switch p.Kind {
		case KindString, KindBool, KindList:
		default:
			return fmt.Errorf("action %q: parameter %q has unknown kind %q", a.Tool, p.Name, p.Kind)
		}
	}

	for _, p := range a.Params {
		for dep := range p.OnlyWith {
			if !seen[dep] {
				return fmt.Errorf("action %q: parameter %q depends on undeclared %q", a.Tool, p.Name, dep)
			}
		}
	}
	for _, group := range a.OneOf {
		if len(group) == 0 {
			return fmt.Errorf("action %q: empty one_of group", a.Tool)
		}
		for _, name := range group {
			if !seen[name] {
				return fmt.Errorf("action %q: one_of references undeclared %q", a.Tool, name)
			}
		}
	}
	return nil
}

// Lookup finds an action by tool name (open_note) or Bear path (open-note).
func (c *Catalog) Lookup(name string) (*Action, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return &c.actions[i], nil
}

// Actions returns every action in declaration order.
func (c *Catalog) Actions() []Action {
	return slices.Clone(c.actions)
}

// Param returns the declared parameter called name.
func (a *Action) Param(name string) (Param, bool) {
	for _, p := range a.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// ExpectsResponse reports whether Bear returns data for this action.
func (a *Action) ExpectsResponse() bool {
	return a.Response != ResponseNone
}
