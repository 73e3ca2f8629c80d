package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pior/memcadm"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd)
	},
}

// shellVerb is one interactive command, resolved once from the verb table
// below. Adding a verb means adding an entry and a handler.
type shellVerb struct {
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(ctx context.Context, ds *memcadm.DataSource, args []string) error
}

var shellVerbs = map[string]shellVerb{
	"get": {
		usage: "get <key>", help: "Get a value by key",
		minArgs: 1, maxArgs: 1,
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleGet(ctx, ds, args[0])
		},
	},
	"set": {
		usage: "set <key> <value> [expire] [flags]", help: "Store a key-value pair",
		minArgs: 2, maxArgs: 4,
		run: handleSet,
	},
	"delete": {
		usage: "delete <key>", help: "Delete a key",
		minArgs: 1, maxArgs: 1,
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleDelete(ctx, ds, args[0])
		},
	},
	"incr": {
		usage: "incr <key> [delta]", help: "Increment a numeric value",
		minArgs: 1, maxArgs: 2,
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleArithmetic(ctx, ds, "incr", args)
		},
	},
	"decr": {
		usage: "decr <key> [delta]", help: "Decrement a numeric value",
		minArgs: 1, maxArgs: 2,
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleArithmetic(ctx, ds, "decr", args)
		},
	},
	"touch": {
		usage: "touch <key> <expire>", help: "Update the expiration of a key",
		minArgs: 2, maxArgs: 2,
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleTouch(ctx, ds, args[0], args[1])
		},
	},
	"version": {
		usage: "version", help: "Show the server version",
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleVersion(ctx, ds)
		},
	},
	"stats": {
		usage: "stats [items|slabs|sizes|settings|detail dump]", help: "Show server statistics",
		maxArgs: 2,
		run:     handleStats,
	},
	"dump": {
		usage: "dump <slab_class> [limit]", help: "Dump cached keys from a slab class",
		minArgs: 1, maxArgs: 2,
		run: handleDump,
	},
	"flush": {
		usage: "flush", help: "Invalidate every item on the server",
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			return handleFlush(ctx, ds)
		},
	},
	"session": {
		usage: "session", help: "Show client-side session counters",
		run: func(ctx context.Context, ds *memcadm.DataSource, args []string) error {
			printSessionStats(ds.Stats())
			return nil
		},
	},
}

var shellVerbOrder = []string{
	"get", "set", "delete", "incr", "decr", "touch",
	"version", "stats", "dump", "flush", "session",
}

func runShell(cmd *cobra.Command) error {
	ds, err := newDataSource()
	if err != nil {
		return err
	}
	defer ds.Close()

	// Piped input runs the same verbs without the banner and prompt, and
	// stops at the first failing command.
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	return shellLoop(cmd.Context(), ds, os.Stdin, os.Stdout, interactive)
}

func shellLoop(ctx context.Context, ds *memcadm.DataSource, in io.Reader, out io.Writer, interactive bool) error {
	if interactive {
		fmt.Fprintf(out, "memcadm: connected to %s\n", ds.Addr())
		fmt.Fprintln(out, "Type 'help' for commands, 'quit' to exit")
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		verb := strings.ToLower(fields[0])
		args := fields[1:]

		switch verb {
		case "quit", "exit":
			return nil
		case "help":
			printShellHelp(out)
			continue
		case "del":
			verb = "delete"
		}

		sv, ok := shellVerbs[verb]
		if !ok {
			fmt.Fprintf(out, "Unknown command: %s. Type 'help' for available commands.\n", verb)
			continue
		}
		if len(args) < sv.minArgs || (sv.maxArgs > 0 && len(args) > sv.maxArgs) {
			fmt.Fprintf(out, "Usage: %s\n", sv.usage)
			continue
		}

		start := time.Now()
		if err := sv.run(ctx, ds, args); err != nil {
			if !interactive {
				return err
			}
			// Keep the interactive session going on a failed command.
			fmt.Fprintf(out, "Error: %v (took %v)\n", err, time.Since(start).Round(time.Microsecond))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	for _, name := range shellVerbOrder {
		sv := shellVerbs[name]
		fmt.Fprintf(out, "  %-42s - %s\n", sv.usage, sv.help)
	}
	fmt.Fprintln(out, "  quit                                       - Exit the shell")
}

func printSessionStats(stats memcadm.SessionStats) {
	fmt.Printf("  Gets:       %d (%d hits)\n", stats.Gets, stats.GetHits)
	fmt.Printf("  Stores:     %d\n", stats.Stores)
	fmt.Printf("  Deletes:    %d\n", stats.Deletes)
	fmt.Printf("  Touches:    %d\n", stats.Touches)
	fmt.Printf("  Arithmetic: %d\n", stats.Arithmetic)
	fmt.Printf("  Queries:    %d\n", stats.Queries)
	fmt.Printf("  Reconnects: %d\n", stats.Reconnects)
	fmt.Printf("  Errors:     %d\n", stats.Errors)
}
