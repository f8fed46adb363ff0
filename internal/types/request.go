package types

// Request maps a parameter name to its value. Values are string, bool or
// []string; anything else is rejected during validation.
type Request map[string]any

// SetString stores v under key unless it is empty.
func (r Request) SetString(key, v string) {
	if v != "" {
		r[key] = v
	}
}

// SetBool stores v under key unless it is false.
func (r Request) SetBool(key string, v bool) {
	if v {
		r[key] = true
	}
}

// SetList stores v under key unless it is empty.
func (r Request) SetList(key string, v []string) {
	if len(v) > 0 {
		r[key] = v
	}
}
