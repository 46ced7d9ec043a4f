package slashmenu

import "strings"

// Matches reports whether cmd matches query, ignoring case and surrounding
// whitespace in the query.
func (c Command) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Title), q) ||
		strings.Contains(strings.ToLower(c.Description), q) ||
		strings.Contains(strings.ToLower(c.Keywords), q)
}

// Filter returns the commands matching query, keeping catalog order.
func Filter(commands []Command, query string) []Command {
	out := make([]Command, 0, len(commands))
	for _, c := range commands {
		if c.Matches(query) {
			out = append(out, c)
		}
	}
	return out
}

// Item is a filtered command together with its index in the flat list.
type Item struct {
	Index   int
	Command Command
}

// Group is a named run of filtered commands, as rendered by the menu.
type Group struct {
	Name  string
	Items []Item
}

// GroupCommands splits a filtered list into groups in order of first
// appearance. Flat indices are preserved so a rendered row maps back to the
// selection index.
func GroupCommands(commands []Command) []Group {
	var groups []Group
	pos := make(map[string]int)
	for i, c := range commands {
		gi, ok := pos[c.Group]
		if !ok {
			gi = len(groups)
			pos[c.Group] = gi
			groups = append(groups, Group{Name: c.Group})
		}
		groups[gi].Items = append(groups[gi].Items, Item{Index: i, Command: c})
	}
	return groups
}
