package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// SetStyledHelp applies the themed help output to cmd.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		newHelpPrinter(c.OutOrStdout()).print(c)
	})
}

// ApplyStyledHelpRecursive applies styled help to cmd and every subcommand.
// Call it after all subcommands have been added.
func ApplyStyledHelpRecursive(cmd *cobra.Command) {
	SetStyledHelp(cmd)
	for _, sub := range cmd.Commands() {
		ApplyStyledHelpRecursive(sub)
	}
}

// PrintError prints a styled error message with a help hint.
func PrintError(cmd *cobra.Command, err error) {
	t := theme.DefaultTheme
	fmt.Fprintln(cmd.ErrOrStderr(), t.Error.Render("Error:"), err.Error())
	fmt.Fprintln(cmd.ErrOrStderr(), t.Muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

type helpPrinter struct {
	w     io.Writer
	t     *theme.Theme
	width int

	title, heading, name, flag, sub lipgloss.Style
}

func newHelpPrinter(w io.Writer) *helpPrinter {
	t := theme.DefaultTheme
	return &helpPrinter{
		w:       w,
		t:       t,
		width:   terminalWidth() - 2,
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange),
		heading: lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange),
		name:    lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue),
		flag:    lipgloss.NewStyle().Foreground(t.Colors.Violet),
		sub:     lipgloss.NewStyle().Foreground(t.Colors.Blue),
	}
}

func (p *helpPrinter) line(s string) { fmt.Fprintln(p.w, " "+s) }

func (p *helpPrinter) section(name string) {
	fmt.Fprintln(p.w)
	p.line(p.heading.Render(name))
}

func (p *helpPrinter) print(cmd *cobra.Command) {
	p.line(p.title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := parseDescription(cmd.Long)
	if cmd.Short != "" {
		for _, l := range strings.Split(wrapText(cmd.Short, p.width), "\n") {
			p.line(lipgloss.NewStyle().Italic(true).Render(l))
		}
	}
	if description != "" && description != cmd.Short {
		fmt.Fprintln(p.w)
		for _, l := range strings.Split(wrapText(description, p.width), "\n") {
			p.line(l)
		}
	}

	p.usage(cmd)
	p.commands(cmd)
	p.flags(cmd)

	if cmd.Example != "" {
		examples = cmd.Example
	}
	if examples != "" {
		p.section("EXAMPLES")
		p.examples(examples, strings.Fields(cmd.CommandPath())[0])
	}

	if cmd.HasSubCommands() {
		fmt.Fprintf(p.w, "\n Use \"%s [command] --help\" for more information.\n", cmd.CommandPath())
	}
}

func (p *helpPrinter) usage(cmd *cobra.Command) {
	if !cmd.Runnable() && !cmd.HasSubCommands() {
		return
	}
	p.section("USAGE")
	if cmd.Runnable() {
		p.line(cmd.UseLine())
	}
	if cmd.HasSubCommands() {
		p.line(cmd.CommandPath() + " [command]")
	}
}

func (p *helpPrinter) commands(cmd *cobra.Command) {
	var subs []*cobra.Command
	pad := 0
	for _, sub := range cmd.Commands() {
		if sub.IsAvailableCommand() {
			subs = append(subs, sub)
			pad = max(pad, len(sub.Name()))
		}
	}
	if len(subs) == 0 {
		return
	}
	p.section("COMMANDS")
	for _, sub := range subs {
		p.line(p.name.Render(sub.Name()) + strings.Repeat(" ", pad-len(sub.Name())) + "  " + sub.Short)
	}
}

func (p *helpPrinter) flags(cmd *cobra.Command) {
	var flags []*pflag.Flag
	pad := 0
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if !f.Hidden {
			flags = append(flags, f)
			pad = max(pad, len(flagName(f)))
		}
	})
	if len(flags) == 0 {
		return
	}
	p.section("FLAGS")
	for _, f := range flags {
		name := flagName(f)
		usage, choices := parseChoices(f.Usage)
		switch f.DefValue {
		case "", "false", "[]", "0", "0s":
		default:
			usage += p.t.Muted.Render(" (default: " + f.DefValue + ")")
		}
		p.line(p.flag.Render(name) + strings.Repeat(" ", pad-len(name)) + "  " + usage)
		for _, c := range choices {
			p.line(strings.Repeat(" ", pad+2) + p.t.Muted.Render("• "+c))
		}
	}
}

// examples styles each example line: comments muted, the binary, its
// subcommand and flags colored.
func (p *helpPrinter) examples(text, root string) {
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		switch {
		case l == "":
			fmt.Fprintln(p.w)
		case strings.HasPrefix(l, "#"):
			p.line(p.t.Muted.Render(l))
		default:
			words := strings.Fields(l)
			for i, word := range words {
				switch {
				case i == 0 && word == root:
					words[i] = p.name.Render(word)
				case strings.HasPrefix(word, "-"):
					words[i] = p.flag.Render(word)
				case i == 1:
					words[i] = p.sub.Render(word)
				}
			}
			p.line("  " + strings.Join(words, " "))
		}
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	return min(width, maxWidth)
}

// wrapText wraps each paragraph of text to width display columns.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if runewidth.StringWidth(para) <= width {
			out = append(out, para)
			continue
		}
		var line string
		for _, word := range strings.Fields(para) {
			if line != "" && runewidth.StringWidth(line)+1+runewidth.StringWidth(word) > width {
				out = append(out, line)
				line = ""
			}
			if line != "" {
				line += " "
			}
			line += word
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// parseDescription splits a Long text at its "Examples:" line.
func parseDescription(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if before, after, ok := strings.Cut(long, marker); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return long, ""
}

func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return "-" + f.Shorthand + ", --" + f.Name
	}
	return "    --" + f.Name
}

// parseChoices lifts an enumeration out of a flag usage such as
// "Output format: md, html, text (default md)". Lists of fewer than three
// items stay inline.
func parseChoices(usage string) (description string, choices []string) {
	head, list, ok := strings.Cut(usage, ": ")
	if !ok {
		return usage, nil
	}
	suffix := ""
	if i := strings.Index(list, " ("); i != -1 {
		list, suffix = list[:i], list[i:]
	}
	parts := strings.Split(list, ", ")
	if len(parts) < 3 {
		return usage, nil
	}
	for i, part := range parts {
		parts[i] = strings.TrimSpace(strings.TrimPrefix(part, "or "))
	}
	return head + ":" + suffix, parts
}
