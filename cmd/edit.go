package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/richedit/cli"
	"github.com/grovetools/richedit/config"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/logging"
	"github.com/grovetools/richedit/pkg/profiling"
	"github.com/grovetools/richedit/state"
	"github.com/grovetools/richedit/tui"
	"github.com/grovetools/richedit/tui/editorview"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewEditCmd creates the `edit` command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a markdown file in the terminal",
		Long: `Opens a markdown file in the terminal editor. Type '/' at the start of a
block for the slash menu; select text with the mouse or shift+arrows for the
formatting toolbar. Without a file the document lives in memory only.

Examples:
  # Edit a file, creating it on first save
  richedit edit notes.md

  # Pick up changes other programs make to the file
  richedit edit notes.md --watch

  # Scratch document
  richedit edit`,
		Args: cobra.MaximumNArgs(1),
		RunE: runEditE,
	}

	cmd.Flags().BoolP("watch", "w", false, "Reload the file when it changes on disk")
	cmd.Flags().Bool("ascii", false, "Use ASCII icons instead of Nerd Font glyphs")

	return cmd
}

func runEditE(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New(errors.ErrCodeInvalidInput, "edit needs an interactive terminal")
	}

	logger := cli.GetLogger(cmd, "edit")
	cfg, err := loadConfigOrDefault(cmd)
	if err != nil {
		return err
	}
	ascii, _ := cmd.Flags().GetBool("ascii")
	tui.Setup(cfg, ascii)

	opts := editorview.Options{Title: "scratch", Config: cfg, Log: logger}
	var doc *document
	initial := ""
	if len(args) == 1 {
		if doc, err = newDocument(args[0]); err != nil {
			return err
		}
		if initial, err = doc.Read(); err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		opts.Title = doc.Title()
		opts.Save = doc.Write
		opts.Reload = doc.Read
	}

	span := profiling.Start("load document")
	model, err := editorview.New(initial, opts)
	span.Stop()
	if err != nil {
		return err
	}
	carets := caretStore(logger)
	if doc != nil && carets != nil {
		if pos, ok, err := carets.Caret(doc.path); err == nil && ok {
			model.SetCaret(pos)
		}
	}

	prev := logging.SetGlobalOutput(io.Discard)
	defer logging.SetGlobalOutput(prev)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		if doc == nil {
			return errors.New(errors.ErrCodeInvalidInput, "--watch needs a file")
		}
		err := doc.Watch(ctx, logger, func(md string) {
			p.Send(editorview.ReloadMsg{Markdown: md, FromDisk: true})
		})
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", doc.path, err)
		}
	}

	logger.WithField("file", opts.Title).Debug("Starting editor")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	if doc != nil && carets != nil {
		if err := carets.SetCaret(doc.path, model.Caret()); err != nil {
			logger.WithError(err).Debug("Could not remember caret")
		}
	}
	if model.Dirty() && doc != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Unsaved changes were discarded.")
	}
	return nil
}

func caretStore(logger *logrus.Entry) *state.Store {
	store, err := state.Default()
	if err != nil {
		logger.WithError(err).Debug("State unavailable")
		return nil
	}
	return store
}

// loadConfigOrDefault loads the configuration named by --config or found
// from the working directory, falling back to defaults when there is none.
func loadConfigOrDefault(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		if errors.Is(err, errors.ErrCodeConfigNotFound) && cli.GetOptions(cmd).ConfigFile == "" {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

