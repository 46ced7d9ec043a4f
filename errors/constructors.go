package errors

import "fmt"

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *EditorError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *EditorError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// EditorUnavailable reports an operation attempted before the host editor exists
func EditorUnavailable(op string) *EditorError {
	return New(ErrCodeEditorUnavailable, fmt.Sprintf("editor not available for %s", op)).
		WithDetail("op", op)
}

// CommandFailed wraps a failure raised by the host editor while applying a command
func CommandFailed(op string, err error) *EditorError {
	return Wrap(err, ErrCodeCommandFailed, fmt.Sprintf("command failed: %s", op)).
		WithDetail("op", op)
}

// InvalidRange creates an error for a document range the host cannot act on
func InvalidRange(from, to int) *EditorError {
	return New(ErrCodeInvalidRange, fmt.Sprintf("invalid range [%d, %d)", from, to)).
		WithDetail("from", from).
		WithDetail("to", to)
}

// AnchorUnresolved reports that no layout reference exists at a position
func AnchorUnresolved(pos int) *EditorError {
	return New(ErrCodeAnchorUnresolved, fmt.Sprintf("no layout anchor at position %d", pos)).
		WithDetail("pos", pos)
}

// MarkdownParse wraps a markdown parsing failure
func MarkdownParse(err error) *EditorError {
	return Wrap(err, ErrCodeMarkdownParse, "error parsing markdown")
}

// MarkdownSerialize wraps a markdown serialization failure
func MarkdownSerialize(err error) *EditorError {
	return Wrap(err, ErrCodeMarkdownSerialize, "error serializing markdown")
}
