package main

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/taigrr/bear-mcp/internal/note"
	"github.com/taigrr/bear-mcp/internal/types"
)

func dispatch(ctx context.Context, tool string, req types.Request) (*types.Response, error) {
	if actionDispatcher == nil {
		return nil, errors.New("bear dispatcher is not initialized")
	}
	return actionDispatcher.Dispatch(ctx, tool, req)
}

func handleOpenNote(ctx context.Context, req *mcp.CallToolRequest, input OpenNoteInput) (*mcp.CallToolResult, NoteOutput, error) {
	r := types.Request{}
	r.SetString("id", strings.TrimSpace(input.ID))
	r.SetString("title", strings.TrimSpace(input.Title))

	resp, err := dispatch(ctx, "open_note", r)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, NoteOutput{}, err
	}

	content := resp.Text("note")
	parsed := note.Parse(content)

	title := resp.Text("title")
	if title == "" {
		title = parsed.Title
	}

	// Bear reports tags as a JSON array; fall back to the tags in the text.
	tags, err := resp.StringList("tags")
	if err != nil || len(tags) == 0 {
		tags = parsed.Tags
	}

	return nil, NoteOutput{
		Identifier:  resp.Get("identifier"),
		Title:       title,
		Content:     content,
		Tags:        tags,
		Frontmatter: parsed.Frontmatter,
		Trashed:     resp.Bool("is_trashed"),
		Created:     resp.Get("creationDate"),
		Modified:    resp.Get("modificationDate"),
	}, nil
}

func handleCreate(ctx context.Context, req *mcp.CallToolRequest, input CreateInput) (*mcp.CallToolResult, IdentifierOutput, error) {
	r := types.Request{}
	r.SetString("title", input.Title)
	r.SetString("text", input.Text)
	r.SetList("tags", input.Tags)
	r.SetBool("timestamp", input.Timestamp)

	return identifierResult(dispatch(ctx, "create", r))
}

func handleGrabURL(ctx context.Context, req *mcp.CallToolRequest, input GrabURLInput) (*mcp.CallToolResult, IdentifierOutput, error) {
	r := types.Request{}
	r.SetString("url", strings.TrimSpace(input.URL))
	r.SetList("tags", input.Tags)

	return identifierResult(dispatch(ctx, "grab_url", r))
}

func identifierResult(resp *types.Response, err error) (*mcp.CallToolResult, IdentifierOutput, error) {
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, IdentifierOutput{}, err
	}
	return nil, IdentifierOutput{
		Identifier: resp.Get("identifier"),
		Title:      resp.Text("title"),
	}, nil
}

func handleTags(ctx context.Context, req *mcp.CallToolRequest, input TagsInput) (*mcp.CallToolResult, TagsOutput, error) {
	resp, err := dispatch(ctx, "tags", types.Request{})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, TagsOutput{}, err
	}

	tags, err := resp.TagNames()
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, TagsOutput{}, err
	}
	return nil, TagsOutput{Tags: tags}, nil
}

func handleOpenTag(ctx context.Context, req *mcp.CallToolRequest, input OpenTagInput) (*mcp.CallToolResult, NotesOutput, error) {
	r := types.Request{}
	r.SetString("name", strings.TrimSpace(input.Name))

	return notesResult(dispatch(ctx, "open_tag", r))
}

func handleTodo(ctx context.Context, req *mcp.CallToolRequest, input TodoInput) (*mcp.CallToolResult, NotesOutput, error) {
	r := types.Request{}
	r.SetString("search", input.Search)

	return notesResult(dispatch(ctx, "todo", r))
}

func handleToday(ctx context.Context, req *mcp.CallToolRequest, input TodayInput) (*mcp.CallToolResult, NotesOutput, error) {
	r := types.Request{}
	r.SetString("search", input.Search)

	return notesResult(dispatch(ctx, "today", r))
}

func handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, NotesOutput, error) {
	r := types.Request{}
	r.SetString("term", input.Term)
	r.SetString("tag", strings.TrimSpace(input.Tag))

	return notesResult(dispatch(ctx, "search", r))
}

func notesResult(resp *types.Response, err error) (*mcp.CallToolResult, NotesOutput, error) {
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, NotesOutput{}, err
	}

	notes, err := resp.Notes()
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, NotesOutput{}, err
	}
	return nil, NotesOutput{Notes: notes}, nil
}

func handleAddText(ctx context.Context, req *mcp.CallToolRequest, input AddTextInput) (*mcp.CallToolResult, TextOutput, error) {
	r := types.Request{}
	r.SetString("text", input.Text)
	r.SetString("id", strings.TrimSpace(input.ID))
	r.SetString("title", strings.TrimSpace(input.Title))
	r.SetString("header", input.Header)
	r.SetString("mode", strings.TrimSpace(input.Mode))
	r.SetBool("new_line", input.NewLine)
	r.SetList("tags", input.Tags)
	r.SetBool("timestamp", input.Timestamp)

	resp, err := dispatch(ctx, "add_text", r)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, TextOutput{}, err
	}

	return nil, TextOutput{
		Title:   resp.Text("title"),
		Content: resp.Text("note"),
	}, nil
}

func handleTrash(ctx context.Context, req *mcp.CallToolRequest, input MoveInput) (*mcp.CallToolResult, AckOutput, error) {
	return moveNote(ctx, "trash", input)
}

func handleArchive(ctx context.Context, req *mcp.CallToolRequest, input MoveInput) (*mcp.CallToolResult, AckOutput, error) {
	return moveNote(ctx, "archive", input)
}

func moveNote(ctx context.Context, tool string, input MoveInput) (*mcp.CallToolResult, AckOutput, error) {
	r := types.Request{}
	r.SetString("id", strings.TrimSpace(input.ID))
	r.SetString("search", input.Search)

	resp, err := dispatch(ctx, tool, r)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, AckOutput{Success: false, Action: tool}, err
	}
	return nil, AckOutput{Success: true, Action: resp.Action}, nil
}
