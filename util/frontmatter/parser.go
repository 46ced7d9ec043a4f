// Package frontmatter splits YAML frontmatter off markdown files so the
// editor only sees the body and saves put the header back unchanged.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document is a markdown file split at its frontmatter.
type Document struct {
	// Header is the raw frontmatter including both delimiter lines, or
	// empty when the file has none.
	Header string
	Body   string
}

// Split separates frontmatter from the body. Content without a complete
// frontmatter block is all body.
func Split(content string) Document {
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || strings.TrimRight(first, " \r") != delimiter {
		return Document{Body: content}
	}
	offset := len(first) + 1
	for rest != "" {
		line, next, _ := strings.Cut(rest, "\n")
		offset += len(line) + 1
		if strings.TrimRight(line, " \r") == delimiter {
			end := min(offset, len(content))
			return Document{
				Header: content[:end],
				Body:   strings.TrimLeft(content[end:], "\r\n"),
			}
		}
		rest = next
	}
	return Document{Body: content}
}

// Join puts the header back in front of body.
func (d Document) Join(body string) string {
	if d.Header == "" {
		return body
	}
	header := d.Header
	if !strings.HasSuffix(header, "\n") {
		header += "\n"
	}
	if body == "" {
		return header
	}
	return header + "\n" + body
}

// Metadata decodes the frontmatter into a map. A document without
// frontmatter yields an empty map.
func (d Document) Metadata() (map[string]interface{}, error) {
	meta := map[string]interface{}{}
	if d.Header == "" {
		return meta, nil
	}
	inner := strings.TrimPrefix(d.Header, delimiter)
	inner = strings.TrimSuffix(strings.TrimRight(inner, "\r\n "), delimiter)
	if err := yaml.Unmarshal([]byte(inner), &meta); err != nil {
		return nil, err
	}
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return meta, nil
}

// Title returns the title field of the frontmatter, if any.
func (d Document) Title() string {
	meta, err := d.Metadata()
	if err != nil {
		return ""
	}
	title, _ := meta["title"].(string)
	return strings.TrimSpace(title)
}
