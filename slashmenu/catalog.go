// Package slashmenu implements the "/" command palette: a static catalog of
// insertable blocks, query filtering and the open/closed keyboard state
// machine that runs the chosen command against the editor.
package slashmenu

import (
	"github.com/grovetools/richedit/command"
	"github.com/grovetools/richedit/editor"
)

// Command is one catalog entry.
type Command struct {
	Title       string
	Description string
	Icon        string
	Keywords    string
	Group       string
	Op          command.Op
}

const (
	GroupBasic  = "Basic blocks"
	GroupInline = "Inline"
)

var catalog = []Command{
	{Title: "Text", Description: "Just start writing with plain text", Icon: "text", Keywords: "paragraph text", Group: GroupBasic, Op: command.Clear()},
	{Title: "Heading 1", Description: "Large section heading", Icon: "heading1", Keywords: "h1 title header", Group: GroupBasic, Op: command.Heading(1)},
	{Title: "Heading 2", Description: "Medium section heading", Icon: "heading2", Keywords: "h2 subtitle", Group: GroupBasic, Op: command.Heading(2)},
	{Title: "Heading 3", Description: "Small section heading", Icon: "heading3", Keywords: "h3 subheader", Group: GroupBasic, Op: command.Heading(3)},
	{Title: "Bullet List", Description: "Create a simple bullet list", Icon: "list", Keywords: "unordered ul bullets", Group: GroupBasic, Op: command.List(editor.BulletList)},
	{Title: "Numbered List", Description: "Create an ordered list", Icon: "list-ordered", Keywords: "numbered ol", Group: GroupBasic, Op: command.List(editor.OrderedList)},
	{Title: "Code Block", Description: "Capture code snippets", Icon: "code-block", Keywords: "code snippet pre", Group: GroupBasic, Op: command.CodeBlock()},
	{Title: "Image", Description: "Insert an image", Icon: "image", Keywords: "image picture photo", Group: GroupBasic, Op: command.Placeholder(editor.ImagePlaceholder)},
	{Title: "Horizontal Rule", Description: "Add a horizontal divider", Icon: "rule", Keywords: "horizontal rule divider", Group: GroupBasic, Op: command.HorizontalRule()},
	{Title: "Quote", Description: "Capture a quotation", Icon: "quote", Keywords: "blockquote cite", Group: GroupInline, Op: command.Blockquote()},
	{Title: "Code", Description: "Inline code snippet", Icon: "code", Keywords: "code inline", Group: GroupInline, Op: command.Mark(editor.Code)},
	{Title: "Blockquote", Description: "Block quote", Icon: "quote", Keywords: "blockquote quote", Group: GroupInline, Op: command.Blockquote()},
}

// Catalog returns a copy of the built-in commands in display order.
func Catalog() []Command {
	return append([]Command(nil), catalog...)
}
