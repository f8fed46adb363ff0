// Package xcallback provides Bear x-callback-url generation and parsing.
package xcallback

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// Scheme is the URL scheme registered by Bear.
	Scheme = "bear"
	// Host is the fixed host part of every x-callback-url.
	Host = "x-callback-url"

	redacted = "REDACTED"
)

// Params is an ordered set of query parameters.
type Params struct {
	keys   []string
	values map[string]string
}

// Set stores value under key. Setting an existing key replaces its value
// and keeps its original position.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns parameter names in insertion order.
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of parameters.
func (p *Params) Len() int {
	return len(p.keys)
}

// Encode renders the parameters as a query string in insertion order.
func (p *Params) Encode() string {
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(Escape(k))
		sb.WriteByte('=')
		sb.WriteString(Escape(p.values[k]))
	}
	return sb.String()
}

// Escape percent-encodes s for use in a query component. Spaces become
// %20 rather than '+', which Bear would keep literally.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Build generates the x-callback-url for action with the given parameters.
// Format: bear://x-callback-url/<action>?k=v&...
func Build(action string, params Params) string {
	base := Scheme + "://" + Host + "/" + strings.Trim(action, "/")
	if params.Len() == 0 {
		return base
	}
	return base + "?" + params.Encode()
}

// Parse splits a Bear x-callback-url into its action and query values.
func Parse(raw string) (string, url.Values, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", nil, fmt.Errorf("invalid x-callback-url: %w", err)
	}
	if u.Scheme != Scheme || u.Host != Host {
		return "", nil, fmt.Errorf("not a %s://%s url: %s", Scheme, Host, raw)
	}
	action := strings.Trim(u.Path, "/")
	if action == "" {
		return "", nil, fmt.Errorf("x-callback-url has no action: %s", raw)
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", nil, fmt.Errorf("invalid x-callback-url query: %w", err)
	}
	return action, values, nil
}

// Redact replaces the values of keys in the query of raw so the URL can be
// logged. URLs that do not parse are returned with the whole query hidden.
func Redact(raw string, keys ...string) string {
	base, query, found := strings.Cut(raw, "?")
	if !found {
		return raw
	}
	parts := strings.Split(query, "&")
	for i, part := range parts {
		name, _, _ := strings.Cut(part, "=")
		decoded, err := url.QueryUnescape(name)
		if err != nil {
			return base + "?" + redacted
		}
		for _, k := range keys {
			if decoded == k {
				parts[i] = name + "=" + redacted
				break
			}
		}
	}
	return base + "?" + strings.Join(parts, "&")
}
