package main

import (
	"os"

	"github.com/grovetools/richedit/cli"
	"github.com/grovetools/richedit/cmd"
	"github.com/grovetools/richedit/pkg/profiling"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"richedit",
		"Rich-text editing with a slash menu and floating toolbar",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewEditCmd())
	rootCmd.AddCommand(cmd.NewServeCmd())
	rootCmd.AddCommand(cmd.NewMarkdownCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewKeymapCmd())
	rootCmd.AddCommand(cmd.NewLogsCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("richedit"))
	rootCmd.AddCommand(cli.NewDocsCommand(cmd.RenderCatalog))
	profiling.NewCobraProfiler().Attach(rootCmd)
	cli.ApplyStyledHelpRecursive(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(os.Stderr, verbose).Handle(err)
		os.Exit(1)
	}
}
