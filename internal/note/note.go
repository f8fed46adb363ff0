// Package note parses the markdown text Bear returns for a note.
package note

import (
	"regexp"
	"sort"
	"strings"

	"github.com/taigrr/bear-mcp/internal/types"
	"gopkg.in/yaml.v3"
)

var (
	// Bear multi-word tag: #tag with spaces#
	multiWordTagPattern = regexp.MustCompile(`(?:^|\s)#([a-zA-Z0-9_/-][^#\n]*\s[^#\n]*[a-zA-Z0-9_/-])#`)

	// Inline tag pattern: #tag or #nested/tag
	inlineTagPattern = regexp.MustCompile(`(?:^|\s)#([a-zA-Z0-9_/-]+)`)
)

// Parse splits note text into title, optional YAML frontmatter, body and
// tags.
func Parse(text string) types.ParsedNote {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	fm, body := splitFrontmatter(text)

	return types.ParsedNote{
		Title:       title(body),
		Frontmatter: fm,
		Body:        body,
		Tags:        Tags(fm, body),
	}
}

// splitFrontmatter returns the decoded frontmatter block, if any, and the
// remaining content. Invalid YAML is treated as content.
func splitFrontmatter(content string) (map[string]any, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}

	rest := content[4:]
	yamlContent, body, found := strings.Cut(rest, "\n---\n")
	if !found {
		if !strings.HasSuffix(rest, "\n---") {
			return nil, content
		}
		yamlContent, body = strings.TrimSuffix(rest, "\n---"), ""
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return nil, content
	}
	return fm, body
}

func title(body string) string {
	for line := range strings.SplitSeq(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(line, "#"))
	}
	return ""
}

// Tags collects lower-cased tags from the frontmatter "tags" key and from
// inline tags in content. Fenced code blocks are skipped.
func Tags(frontmatter map[string]any, content string) []string {
	tagSet := make(map[string]bool)

	switch t := frontmatter["tags"].(type) {
	case []any:
		for _, tag := range t {
			if s, ok := tag.(string); ok {
				tagSet[strings.ToLower(s)] = true
			}
		}
	case string:
		for s := range strings.SplitSeq(t, ",") {
			if s = strings.TrimSpace(s); s != "" {
				tagSet[strings.ToLower(s)] = true
			}
		}
	}

	inFence := false
	for line := range strings.SplitSeq(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		for _, match := range multiWordTagPattern.FindAllStringSubmatch(line, -1) {
			tagSet[strings.ToLower(match[1])] = true
		}
		line = multiWordTagPattern.ReplaceAllString(line, " ")

		for _, match := range inlineTagPattern.FindAllStringSubmatch(line, -1) {
			tag := strings.TrimRight(match[1], "/")
			if tag != "" {
				tagSet[strings.ToLower(tag)] = true
			}
		}
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
