package actions

import (
	"errors"
	"strings"
	"testing"

	"github.com/taigrr/bear-mcp/internal/types"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c
}

func TestLoad_AllBearActions(t *testing.T) {
	c := mustLoad(t)

	want := map[string]string{
		"open_note": "open-note",
		"create":    "create",
		"tags":      "tags",
		"open_tag":  "open-tag",
		"todo":      "todo",
		"today":     "today",
		"search":    "search",
		"grab_url":  "grab-url",
		"add_text":  "add-text",
		"trash":     "trash",
		"archive":   "archive",
	}

	if got := len(c.Actions()); got != len(want) {
		t.Errorf("len(Actions()) = %d, want %d", got, len(want))
	}

	for tool, path := range want {
		t.Run(tool, func(t *testing.T) {
			byTool, err := c.Lookup(tool)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", tool, err)
			}
			if byTool.Path != path {
				t.Errorf("Path = %q, want %q", byTool.Path, path)
			}
			byPath, err := c.Lookup(path)
			if err != nil {
				t.Fatalf("Lookup(%q) error = %v", path, err)
			}
			if byPath != byTool {
				t.Errorf("Lookup by path and tool returned different actions")
			}
			if byTool.Description == "" {
				t.Error("Description is empty")
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	c := mustLoad(t)

	_, err := c.Lookup("delete-everything")
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Lookup() error = %v, want ErrUnknownAction", err)
	}
}

func TestLoad_ResponseKinds(t *testing.T) {
	c := mustLoad(t)

	tests := map[string]ResponseKind{
		"open_note": ResponseNote,
		"create":    ResponseIdentifier,
		"tags":      ResponseTags,
		"search":    ResponseNotes,
		"add_text":  ResponseText,
		"trash":     ResponseNone,
	}
	for tool, want := range tests {
		a, err := c.Lookup(tool)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", tool, err)
		}
		if a.Response != want {
			t.Errorf("%s Response = %q, want %q", tool, a.Response, want)
		}
		if a.ExpectsResponse() != (want != ResponseNone) {
			t.Errorf("%s ExpectsResponse() = %v", tool, a.ExpectsResponse())
		}
	}
}

func TestLoad_QuietOrderPreserved(t *testing.T) {
	c := mustLoad(t)
	a, err := c.Lookup("open_note")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	want := []string{"new_window", "float", "show_window", "open_note", "selected", "pin", "edit"}
	if len(a.Quiet) != len(want) {
		t.Fatalf("len(Quiet) = %d, want %d", len(a.Quiet), len(want))
	}
	for i, key := range want {
		if a.Quiet[i].Key != key || a.Quiet[i].Value != "no" {
			t.Errorf("Quiet[%d] = %+v, want %s=no", i, a.Quiet[i], key)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "duplicate tool",
			doc: `actions:
  - {tool: a, path: x}
  - {tool: a, path: y}`,
			want: "duplicate action name",
		},
		{
			name: "unknown kind",
			doc: `actions:
  - tool: a
    path: a
    params:
      - {name: p, kind: number}`,
			want: "unknown kind",
		},
		{
			name: "one_of undeclared",
			doc: `actions:
  - tool: a
    path: a
    one_of: [[missing]]`,
			want: "undeclared",
		},
		{
			name: "only_with undeclared",
			doc: `actions:
  - tool: a
    path: a
    params:
      - {name: p, kind: bool, only_with: {mode: append}}`,
			want: "undeclared",
		},
		{
			name: "unknown response",
			doc: `actions:
  - {tool: a, path: a, response: html}`,
			want: "unknown response kind",
		},
		{
			name: "quiet not a mapping",
			doc: `actions:
  - {tool: a, path: a, quiet: [x]}`,
			want: "must be a mapping",
		},
		{
			name: "missing path",
			doc: `actions:
  - {tool: a}`,
			want: "tool and path are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatalf("Parse() error = nil, want %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		name string
		tool string
		req  types.Request
		want string
	}{
		{
			name: "search term",
			tool: "search",
			req:  types.Request{"term": "todo"},
			want: "term=todo",
		},
		{
			name: "search declared order",
			tool: "search",
			req:  types.Request{"tag": "work", "term": "meeting notes"},
			want: "term=meeting%20notes&tag=work",
		},
		{
			name: "create title only",
			tool: "create",
			req:  types.Request{"title": "Note"},
			want: "title=Note",
		},
		{
			name: "create with tags and timestamp",
			tool: "create",
			req: types.Request{
				"title":     "Note",
				"text":      "body",
				"tags":      []string{"a", " b ", ""},
				"timestamp": true,
			},
			want: "title=Note&text=body&tags=a%2Cb&timestamp=yes",
		},
		{
			name: "false bool dropped",
			tool: "create",
			req:  types.Request{"title": "Note", "timestamp": false},
			want: "title=Note",
		},
		{
			name: "empty string dropped",
			tool: "todo",
			req:  types.Request{"search": ""},
			want: "",
		},
		{
			name: "list from any slice",
			tool: "grab_url",
			req:  types.Request{"url": "https://bear.app", "tags": []any{"web", "read"}},
			want: "url=https%3A%2F%2Fbear.app&tags=web%2Cread",
		},
		{
			name: "new_line kept with append",
			tool: "add_text",
			req:  types.Request{"text": "x", "id": "N1", "mode": "append", "new_line": true},
			want: "text=x&id=N1&mode=append&new_line=yes",
		},
		{
			name: "new_line dropped without append",
			tool: "add_text",
			req:  types.Request{"text": "x", "id": "N1", "mode": "prepend", "new_line": true},
			want: "text=x&id=N1&mode=prepend",
		},
		{
			name: "bool from string",
			tool: "create",
			req:  types.Request{"text": "x", "timestamp": "yes"},
			want: "text=x&timestamp=yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := c.Lookup(tt.tool)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			params, err := a.Encode(tt.req)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if got := params.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_ValidationErrors(t *testing.T) {
	c := mustLoad(t)

	tests := []struct {
		name  string
		tool  string
		req   types.Request
		param string
	}{
		{"open_tag without name", "open_tag", types.Request{}, "name"},
		{"grab_url without url", "grab_url", types.Request{"tags": []string{"x"}}, "url"},
		{"open_note without id or title", "open_note", types.Request{}, "id or title"},
		{"create empty note", "create", types.Request{"tags": []string{"x"}}, "title or text"},
		{"add_text without text", "add_text", types.Request{"id": "N1"}, "text"},
		{"add_text without target", "add_text", types.Request{"text": "x"}, "id or title"},
		{"add_text bad mode", "add_text", types.Request{"text": "x", "id": "N1", "mode": "sideways"}, "mode"},
		{"unknown parameter", "search", types.Request{"term": "x", "token": "T"}, "token"},
		{"wrong type string", "search", types.Request{"term": 42}, "term"},
		{"wrong type bool", "create", types.Request{"title": "x", "timestamp": 1}, "timestamp"},
		{"bad bool string", "create", types.Request{"title": "x", "timestamp": "maybe"}, "timestamp"},
		{"wrong type list", "create", types.Request{"title": "x", "tags": 3}, "tags"},
		{"trash without target", "trash", types.Request{}, "id or search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := c.Lookup(tt.tool)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			params, err := a.Encode(tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Encode() error = %v, want *ValidationError", err)
			}
			if verr.Param != tt.param {
				t.Errorf("ValidationError.Param = %q, want %q", verr.Param, tt.param)
			}
			if verr.Action != tt.tool {
				t.Errorf("ValidationError.Action = %q, want %q", verr.Action, tt.tool)
			}
			if params.Len() != 0 {
				t.Errorf("Encode() returned %d params on error, want 0", params.Len())
			}
		})
	}
}
