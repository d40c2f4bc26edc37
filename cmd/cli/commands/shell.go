package commands

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commands that make no sense inside a shell session
var shellExcluded = []string{"shell", "serve", "completion", "help"}

// ShellCmd creates the shell command
func ShellCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run several commands against one database connection",
		Long: `Start a session that connects once and runs commands until 'exit' or 'quit'.
Quote arguments containing spaces, e.g. addUser "Marta Gil" marta@example.com

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Charger rota shell. Type 'help' for commands, 'exit' or 'quit' to leave")

			available := make(map[string]*cobra.Command)
			for _, sub := range cmd.Root().Commands() {
				if !slices.Contains(shellExcluded, sub.Name()) {
					available[sub.Name()] = sub
				}
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					break
				}

				if done := runShellLine(out, available, scanner.Text()); done {
					return nil
				}
				if app.Ctx != nil && app.Ctx.Err() != nil {
					return nil
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// runShellLine runs one line of input and reports whether the session should end
func runShellLine(out io.Writer, available map[string]*cobra.Command, line string) bool {
	parts, err := splitCommandLine(line)
	if err != nil {
		fmt.Fprintf(out, "✗ %v\n\n", err)
		return false
	}
	if len(parts) == 0 {
		return false
	}

	name, args := parts[0], parts[1:]
	switch name {
	case "exit", "quit":
		fmt.Fprintln(out, "Bye")
		return true
	case "help":
		printShellHelp(out, available)
		return false
	}

	target, ok := available[name]
	if !ok {
		fmt.Fprintf(out, "✗ Unknown command: %s (type 'help' for available commands)\n\n", name)
		return false
	}

	// Flags keep their values between runs unless reset
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	// RunE is called directly so the root's PersistentPreRunE does not reconnect
	if err := target.ParseFlags(args); err != nil {
		fmt.Fprintf(out, "✗ %v\n\n", err)
		return false
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			fmt.Fprintf(out, "✗ %v\n\n", err)
			return false
		}
	}

	target.SetOut(out)
	if err := target.RunE(target, args); err != nil {
		fmt.Fprintf(out, "✗ %v\n\n", err)
	}
	return false
}

func printShellHelp(out io.Writer, available map[string]*cobra.Command) {
	fmt.Fprintln(out, "\nAvailable commands:")

	names := make([]string, 0, len(available))
	for name := range available {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		fmt.Fprintf(out, "  %-40s %s\n", available[name].Use, available[name].Short)
	}

	fmt.Fprintf(out, "\n  %-40s %s\n", "help", "Show this help message")
	fmt.Fprintf(out, "  %-40s %s\n\n", "exit, quit", "Leave the shell")
}

// splitCommandLine splits a line into arguments. Single or double quotes group words.
func splitCommandLine(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)

	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if inArg {
		args = append(args, current.String())
	}

	return args, nil
}
