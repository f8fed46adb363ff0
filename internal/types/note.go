// Package types defines all data structures used across the MCP server.
package types

type (
	// ParsedNote represents the text of a Bear note split into its parts.
	ParsedNote struct {
		Title       string         `json:"title"`
		Frontmatter map[string]any `json:"frontmatter,omitempty"`
		Body        string         `json:"body"`
		Tags        []string       `json:"tags,omitempty"`
	}

	// NoteSummary is a single entry of a note list returned by Bear.
	NoteSummary struct {
		Title            string `json:"title"`
		Identifier       string `json:"identifier"`
		CreationDate     string `json:"creationDate,omitempty"`
		ModificationDate string `json:"modificationDate,omitempty"`
		Pinned           string `json:"pin,omitempty"`
	}

	// TagEntry is a single entry of the tag list returned by Bear.
	TagEntry struct {
		Name string `json:"name"`
	}
)
