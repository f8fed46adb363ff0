package actions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/taigrr/bear-mcp/internal/types"
	"github.com/taigrr/bear-mcp/internal/xcallback"
)

// ValidationError reports a request that does not satisfy an action's
// parameter rules.
type ValidationError struct {
	Action string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: parameter %s %s", e.Action, e.Param, e.Reason)
}

// Encode validates req against the action and returns its URL parameters
// in declaration order. Nothing is encoded when validation fails.
func (a *Action) Encode(req types.Request) (xcallback.Params, error) {
	values := make(map[string]string, len(req))
	for name, raw := range req {
		p, ok := a.Param(name)
		if !ok {
			return xcallback.Params{}, a.invalid(name, "is not accepted")
		}
		v, err := p.format(raw)
		if err != nil {
			return xcallback.Params{}, a.invalid(name, err.Error())
		}
		if v != "" {
			values[name] = v
		}
	}

	for _, p := range a.Params {
		v, present := values[p.Name]
		if p.Required && !present {
			return xcallback.Params{}, a.invalid(p.Name, "is required")
		}
		if present && len(p.Enum) > 0 && !slices.Contains(p.Enum, v) {
			return xcallback.Params{}, a.invalid(p.Name, fmt.Sprintf("must be one of %s", strings.Join(p.Enum, ", ")))
		}
	}

	for _, group := range a.OneOf {
		if !slices.ContainsFunc(group, func(name string) bool { _, ok := values[name]; return ok }) {
			return xcallback.Params{}, a.invalid(strings.Join(group, " or "), "is required")
		}
	}

	var params xcallback.Params
	for _, p := range a.Params {
		v, ok := values[p.Name]
		if !ok || !p.enabled(values) {
			continue
		}
		params.Set(p.Name, v)
	}
	return params, nil
}

func (a *Action) invalid(param, reason string) *ValidationError {
	return &ValidationError{Action: a.Tool, Param: param, Reason: reason}
}

// enabled reports whether every only_with condition of p holds.
func (p Param) enabled(values map[string]string) bool {
	for dep, want := range p.OnlyWith {
		if values[dep] != want {
			return false
		}
	}
	return true
}

// format converts a request value into its URL form. An empty result
// means the parameter is absent.
func (p Param) format(raw any) (string, error) {
	switch p.Kind {
	case KindBool:
		switch v := raw.(type) {
		case bool:
			if v {
				return "yes", nil
			}
			return "", nil
		case string:
			switch strings.ToLower(v) {
			case "yes", "true":
				return "yes", nil
			case "", "no", "false":
				return "", nil
			}
		}
		return "", fmt.Errorf("must be a boolean")

	case KindList:
		var items []string
		switch v := raw.(type) {
		case []string:
			items = v
		case string:
			items = strings.Split(v, ",")
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return "", fmt.Errorf("must be a list of strings")
				}
				items = append(items, s)
			}
		default:
			return "", fmt.Errorf("must be a list of strings")
		}
		cleaned := make([]string, 0, len(items))
		for _, item := range items {
			if item = strings.TrimSpace(item); item != "" {
				cleaned = append(cleaned, item)
			}
		}
		return strings.Join(cleaned, ","), nil

	default:
		v, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("must be a string")
		}
		return v, nil
	}
}
