package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/richedit/markdown"
	"github.com/grovetools/richedit/pkg/profiling"
	"github.com/spf13/cobra"
)

// NewMarkdownCmd creates the `md` command.
func NewMarkdownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "md [file]",
		Short: "Normalize markdown the way the editor saves it",
		Long: `Reads markdown from a file or stdin, loads it into the editor's document
model and writes it back out. The result is what saving the document
unchanged from the editor would produce.

Examples:
  # Normalize a file
  richedit md notes.md

  # Render HTML instead
  cat notes.md | richedit md --format html`,
		Args: cobra.MaximumNArgs(1),
		RunE: runMarkdownE,
	}

	cmd.Flags().StringP("format", "f", "markdown", "Output format [markdown, html, text]")

	return cmd
}

func runMarkdownE(cmd *cobra.Command, args []string) error {
	var src []byte
	var err error
	if len(args) == 1 && args[0] != "-" {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	out, err := convert(src, format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func convert(src []byte, format string) (string, error) {
	span := profiling.Start("parse")
	blocks, err := markdown.Parse(src)
	span.Stop()
	if err != nil {
		return "", err
	}
	defer profiling.Start("render " + format).Stop()
	switch format {
	case "markdown", "md":
		return markdown.Serialize(blocks)
	case "html":
		md, err := markdown.Serialize(blocks)
		if err != nil {
			return "", err
		}
		return markdown.HTML([]byte(md))
	case "text":
		return markdown.PlainText(blocks) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}
