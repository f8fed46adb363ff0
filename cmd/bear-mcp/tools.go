package main

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/bear-mcp/internal/actions"
	"github.com/taigrr/bear-mcp/internal/types"
)

type (
	// OpenNoteInput contains parameters for opening a note.
	OpenNoteInput struct {
		ID    string `json:"id,omitempty" jsonschema:"note unique identifier"`
		Title string `json:"title,omitempty" jsonschema:"note title"`
	}

	// NoteOutput contains a note as returned by Bear.
	NoteOutput struct {
		Identifier  string         `json:"identifier,omitempty"`
		Title       string         `json:"title"`
		Content     string         `json:"content"`
		Tags        []string       `json:"tags,omitempty"`
		Frontmatter map[string]any `json:"frontmatter,omitempty"`
		Trashed     bool           `json:"trashed,omitempty"`
		Created     string         `json:"created,omitempty"`
		Modified    string         `json:"modified,omitempty"`
	}

	// CreateInput contains parameters for creating a note.
	CreateInput struct {
		Title     string   `json:"title,omitempty" jsonschema:"note title"`
		Text      string   `json:"text,omitempty" jsonschema:"note body"`
		Tags      []string `json:"tags,omitempty" jsonschema:"list of tags"`
		Timestamp bool     `json:"timestamp,omitempty" jsonschema:"prepend the current date and time to the text (default: false)"`
	}

	// IdentifierOutput contains the note created by Bear.
	IdentifierOutput struct {
		Identifier string `json:"identifier"`
		Title      string `json:"title,omitempty"`
	}

	// TagsInput contains parameters for listing tags.
	TagsInput struct{}

	// TagsOutput contains the tags shown in Bear's sidebar.
	TagsOutput struct {
		Tags []string `json:"tags"`
	}

	// OpenTagInput contains parameters for listing the notes of a tag.
	OpenTagInput struct {
		Name string `json:"name" jsonschema:"tag name or a list of tags divided by comma"`
	}

	// TodoInput contains parameters for the Todo sidebar item.
	TodoInput struct {
		Search string `json:"search,omitempty" jsonschema:"string to search"`
	}

	// TodayInput contains parameters for the Today sidebar item.
	TodayInput struct {
		Search string `json:"search,omitempty" jsonschema:"string to search"`
	}

	// SearchInput contains parameters for searching notes.
	SearchInput struct {
		Term string `json:"term,omitempty" jsonschema:"string to search"`
		Tag  string `json:"tag,omitempty" jsonschema:"tag to search into"`
	}

	// NotesOutput contains a list of notes.
	NotesOutput struct {
		Notes []types.NoteSummary `json:"notes"`
	}

	// GrabURLInput contains parameters for creating a note from a web page.
	GrabURLInput struct {
		URL  string   `json:"url" jsonschema:"url to grab"`
		Tags []string `json:"tags,omitempty" jsonschema:"list of tags. If tags are specified in Bear's web content preferences, this parameter is ignored."`
	}

	// AddTextInput contains parameters for adding text to a note.
	AddTextInput struct {
		Text      string   `json:"text" jsonschema:"text to add"`
		ID        string   `json:"id,omitempty" jsonschema:"note unique identifier"`
		Title     string   `json:"title,omitempty" jsonschema:"note title"`
		Header    string   `json:"header,omitempty" jsonschema:"add the text to the corresponding header inside the note"`
		Mode      string   `json:"mode,omitempty" jsonschema:"allowed values are prepend, append, replace_all and replace"`
		NewLine   bool     `json:"new_line,omitempty" jsonschema:"force the text to appear on a new line inside the note (only if mode is append)"`
		Tags      []string `json:"tags,omitempty" jsonschema:"list of tags to add to the note"`
		Timestamp bool     `json:"timestamp,omitempty" jsonschema:"prepend the current date and time to the text (default: false)"`
	}

	// TextOutput contains the note text after an edit.
	TextOutput struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}

	// MoveInput contains parameters for trashing or archiving a note.
	MoveInput struct {
		ID     string `json:"id,omitempty" jsonschema:"note unique identifier"`
		Search string `json:"search,omitempty" jsonschema:"string to search, used when no id is given"`
	}

	// AckOutput acknowledges an action that returns no data.
	AckOutput struct {
		Success bool   `json:"success"`
		Action  string `json:"action"`
	}
)

// tool builds the tool definition for a catalog action.
func tool(catalog *actions.Catalog, name string, readOnly bool) *mcp.Tool {
	a, err := catalog.Lookup(name)
	if err != nil {
		panic(fmt.Sprintf("tool %s missing from action catalog: %v", name, err))
	}
	t := &mcp.Tool{
		Name:        a.Tool,
		Description: a.Description,
	}
	if readOnly {
		t.Annotations = &mcp.ToolAnnotations{ReadOnlyHint: true}
	}
	return t
}

func registerTools(server *mcp.Server, catalog *actions.Catalog) {
	mcp.AddTool(server, tool(catalog, "open_note", true), handleOpenNote)
	mcp.AddTool(server, tool(catalog, "create", false), handleCreate)
	mcp.AddTool(server, tool(catalog, "tags", true), handleTags)
	mcp.AddTool(server, tool(catalog, "open_tag", true), handleOpenTag)
	mcp.AddTool(server, tool(catalog, "todo", true), handleTodo)
	mcp.AddTool(server, tool(catalog, "today", true), handleToday)
	mcp.AddTool(server, tool(catalog, "search", true), handleSearch)
	mcp.AddTool(server, tool(catalog, "grab_url", false), handleGrabURL)
	mcp.AddTool(server, tool(catalog, "add_text", false), handleAddText)
	mcp.AddTool(server, tool(catalog, "trash", false), handleTrash)
	mcp.AddTool(server, tool(catalog, "archive", false), handleArchive)
}
