package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDocsCommand creates a 'docs' command that prints the JSON produced by
// render, such as the slash command catalog.
func NewDocsCommand(render func() ([]byte, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Print the slash commands and toolbar actions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := render()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
