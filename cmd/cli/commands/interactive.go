package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd runs several commands against one initialized app, which keeps the
// in-memory store alive between them.
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a session that runs multiple commands against the same store",
		Long: `Start an interactive session where you can run multiple commands without re-initializing.
Global actor flags (--role, --actor-id, --organization-id, --volunteer-id) can be given per line.

Type 'help' to see available commands and 'exit' or 'quit' to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Root(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runSession(root *cobra.Command, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "help":
			printSessionHelp(root, out)
			continue
		}

		if err := runLine(root, strings.Fields(line), out); err != nil {
			fmt.Fprintf(out, "✗ %s\n\n", FormatError(err))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

// runLine resolves and runs one command without going through Execute, so the
// persistent pre-run that builds the app does not fire again
func runLine(root *cobra.Command, fields []string, out io.Writer) error {
	target, rest, err := root.Find(fields)
	if err != nil {
		return err
	}
	if target == root || target.Name() == "interactive" || target.RunE == nil {
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", strings.Join(fields, " "))
	}

	resetFlags(target.Flags())
	resetFlags(root.PersistentFlags())
	target.SetOut(out)

	if err := target.ParseFlags(rest); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}
	if err := target.ValidateRequiredFlags(); err != nil {
		return err
	}
	cmdArgs := target.Flags().Args()
	if target.Args != nil {
		if err := target.Args(target, cmdArgs); err != nil {
			return err
		}
	}
	return target.RunE(target, cmdArgs)
}

// resetFlags restores the defaults of flags changed by the previous line. Persistent
// flags keep their session value unless given again.
func resetFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Changed && !isPersistentIdentity(flag.Name) {
			flag.Value.Set(flag.DefValue)
		}
		flag.Changed = false
	})
}

func isPersistentIdentity(name string) bool {
	switch name {
	case "role", "actor-id", "organization-id", "volunteer-id", "env", "store", "verbose":
		return true
	}
	return false
}

func printSessionHelp(root *cobra.Command, out io.Writer) {
	fmt.Fprintln(out, "\nAvailable commands:")
	for _, group := range root.Commands() {
		if !group.IsAvailableCommand() || group.Name() == "interactive" {
			continue
		}
		if !group.HasSubCommands() {
			fmt.Fprintf(out, "  %-45s %s\n", group.Use, group.Short)
			continue
		}
		for _, sub := range group.Commands() {
			fmt.Fprintf(out, "  %-45s %s\n", group.Name()+" "+sub.Use, sub.Short)
		}
	}
	fmt.Fprintln(out, "\n  help                                          Show this help message")
	fmt.Fprintln(out, "  exit, quit                                    Exit the interactive session")
}
