package note

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_PlainBearNote(t *testing.T) {
	text := "# Weekly Review\n\nDone this week #work #work/reviews\n\n- [ ] plan next sprint"

	result := Parse(text)

	if result.Title != "Weekly Review" {
		t.Errorf("Title = %q, want %q", result.Title, "Weekly Review")
	}
	if result.Frontmatter != nil {
		t.Errorf("Frontmatter = %v, want nil", result.Frontmatter)
	}
	if result.Body != text {
		t.Errorf("Body = %q, want original text", result.Body)
	}
	want := []string{"work", "work/reviews"}
	if !reflect.DeepEqual(result.Tags, want) {
		t.Errorf("Tags = %v, want %v", result.Tags, want)
	}
}

func TestParse_WithFrontmatter(t *testing.T) {
	text := `---
title: Test Note
tags: [Test, example]
created: 2023-01-01
---

# Test Note

This is a test note with frontmatter.`

	result := Parse(text)

	if result.Frontmatter["title"] != "Test Note" {
		t.Errorf("Frontmatter[title] = %v, want %q", result.Frontmatter["title"], "Test Note")
	}
	if result.Title != "Test Note" {
		t.Errorf("Title = %q, want %q", result.Title, "Test Note")
	}
	expectedBody := "# Test Note\n\nThis is a test note with frontmatter."
	if strings.TrimSpace(result.Body) != expectedBody {
		t.Errorf("Body = %q, want %q", strings.TrimSpace(result.Body), expectedBody)
	}
	want := []string{"example", "test"}
	if !reflect.DeepEqual(result.Tags, want) {
		t.Errorf("Tags = %v, want %v", result.Tags, want)
	}
}

func TestParse_FrontmatterAtEnd(t *testing.T) {
	result := Parse("---\ntitle: Only\n---")

	if result.Frontmatter["title"] != "Only" {
		t.Errorf("Frontmatter[title] = %v, want %q", result.Frontmatter["title"], "Only")
	}
	if result.Body != "" {
		t.Errorf("Body = %q, want empty", result.Body)
	}
}

func TestParse_InvalidFrontmatterIsContent(t *testing.T) {
	text := "---\ntitle: [unclosed\n---\nbody"

	result := Parse(text)

	if result.Frontmatter != nil {
		t.Errorf("Frontmatter = %v, want nil", result.Frontmatter)
	}
	if result.Body != text {
		t.Errorf("Body = %q, want original text", result.Body)
	}
}

func TestParse_CRLF(t *testing.T) {
	result := Parse("# Title\r\nline #tag\r\n")

	if result.Title != "Title" {
		t.Errorf("Title = %q, want %q", result.Title, "Title")
	}
	if !reflect.DeepEqual(result.Tags, []string{"tag"}) {
		t.Errorf("Tags = %v, want [tag]", result.Tags)
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name    string
		fm      map[string]any
		content string
		want    []string
	}{
		{
			name:    "inline tags",
			content: "notes #alpha and #Beta",
			want:    []string{"alpha", "beta"},
		},
		{
			name:    "multi word tag",
			content: "filed under #reading list# today",
			want:    []string{"reading list"},
		},
		{
			name:    "multi word and single",
			content: "#book notes# #fiction",
			want:    []string{"book notes", "fiction"},
		},
		{
			name:    "headings are not tags",
			content: "# Title\n## Sub heading",
			want:    []string{},
		},
		{
			name:    "url fragments are not tags",
			content: "see https://example.com/#section",
			want:    []string{},
		},
		{
			name:    "code fence skipped",
			content: "#real\n```\n#include <stdio.h>\n```\n",
			want:    []string{"real"},
		},
		{
			name:    "trailing slash trimmed",
			content: "#projects/ ",
			want:    []string{"projects"},
		},
		{
			name:    "frontmatter string list",
			fm:      map[string]any{"tags": "one, Two"},
			content: "#two",
			want:    []string{"one", "two"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.fm, tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags() = %v, want %v", got, tt.want)
			}
		})
	}
}
