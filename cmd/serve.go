package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/richedit/bridge"
	"github.com/grovetools/richedit/cli"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/logging"
	"github.com/grovetools/richedit/richtext"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the `serve` command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the editor over a websocket",
		Long: `Starts the websocket bridge. Each connection to /ws gets its own editor
seeded with the given file; a page hosting its own editing surface forwards
keys, text, pointer events and selections and draws the menu and toolbar
from the state the bridge sends back. GET /health answers "ok".

Examples:
  # Listen on the configured address (bridge.addr)
  richedit serve

  # Seed every session with a document
  richedit serve notes.md --addr :9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServeE,
	}

	cmd.Flags().String("addr", "", "Listen address (default: bridge.addr from config)")

	return cmd
}

func runServeE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd, "bridge")
	cfg, err := loadConfigOrDefault(cmd)
	if err != nil {
		return err
	}

	addr := cfg.Bridge.Addr
	if cmd.Flags().Changed("addr") {
		addr, _ = cmd.Flags().GetString("addr")
	}

	srv := bridge.New(richtext.FromConfig(cfg), logger)
	if vp := cfg.Editor.Viewport; vp.Width > 0 && vp.Height > 0 {
		srv.SetViewport(editor.Size{W: vp.Width, H: vp.Height})
	}
	if len(args) == 1 {
		doc, err := newDocument(args[0])
		if err != nil {
			return err
		}
		md, err := doc.Read()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		srv.SetDocument(md)
	}

	ulog := logging.NewUnifiedLogger("bridge")
	ctx := logging.WithWriter(cmd.Context(), cmd.OutOrStdout())
	ulog.Info(fmt.Sprintf("Serving editor sessions on ws://%s/ws", addr)).Field("addr", addr).Log(ctx)

	// Handle signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	go func() {
		<-stop
		logger.Info("Received stop signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			ulog.Error("Bridge shutdown failed").Err(err).Log(ctx)
			return
		}
		ulog.Success("Bridge stopped").Log(ctx)
	}()

	if err := srv.ListenAndServe(addr); err != nil {
		return fmt.Errorf("bridge error: %w", err)
	}
	return nil
}
