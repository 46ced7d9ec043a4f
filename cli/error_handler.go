package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/tui/theme"
)

// ErrorHandler turns coded errors into user-facing messages.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to out.
func NewErrorHandler(out io.Writer, verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

// Handle prints a message for err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	prefix := theme.DefaultTheme.Error.Render(theme.IconError)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration not found. Create richedit.yml or pass --config.\n", prefix)

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "%s Invalid configuration: %v\n", prefix, err)
		fmt.Fprintln(h.Out, "Run 'richedit config validate' for details.")

	case errors.ErrCodeMarkdownParse:
		fmt.Fprintf(h.Out, "%s Could not parse markdown: %v\n", prefix, err)

	case errors.ErrCodeMarkdownSerialize:
		fmt.Fprintf(h.Out, "%s Could not write markdown: %v\n", prefix, err)

	case errors.ErrCodeEditorUnavailable:
		fmt.Fprintf(h.Out, "%s The editor is not ready yet.\n", prefix)

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", prefix, err)
	}

	if h.Verbose {
		if editorErr, ok := errors.As(err); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", editorErr.ToJSON())
		}
	}
	return err
}
