package types

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Response is the outcome of a dispatched action. Acknowledged responses
// carry no fields: the URL was opened and no callback was awaited.
type Response struct {
	Action       string            `json:"action"`
	Acknowledged bool              `json:"acknowledged,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
}

// NewResponse builds a Response from callback query values, keeping the
// first value of each key.
func NewResponse(action string, values url.Values) *Response {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	return &Response{Action: action, Fields: fields}
}

// Get returns the raw value of a callback field.
func (r *Response) Get(key string) string {
	if r == nil {
		return ""
	}
	return r.Fields[key]
}

// Text returns a field that Bear sends percent-encoded a second time, such
// as the note body. Values that do not decode are returned unchanged.
func (r *Response) Text(key string) string {
	raw := r.Get(key)
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Bool reports whether a field holds Bear's "yes" or "true".
func (r *Response) Bool(key string) bool {
	switch r.Get(key) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// Notes decodes the JSON note list in the "notes" field.
func (r *Response) Notes() ([]NoteSummary, error) {
	notes := []NoteSummary{}
	if err := r.decodeJSON("notes", &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// TagNames decodes the JSON tag list in the "tags" field and returns the
// tag names in the order Bear reported them.
func (r *Response) TagNames() ([]string, error) {
	var entries []TagEntry
	if err := r.decodeJSON("tags", &entries); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// StringList decodes a JSON array of strings stored in key.
func (r *Response) StringList(key string) ([]string, error) {
	list := []string{}
	if err := r.decodeJSON(key, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Response) decodeJSON(key string, v any) error {
	raw := r.Get(key)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %q from bear callback: %w", key, err)
	}
	return nil
}
