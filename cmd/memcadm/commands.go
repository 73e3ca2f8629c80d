package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pior/memcadm"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a value by key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleGet(cmd.Context(), ds, args[0])
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value> [expire_seconds] [flags_value]",
	Short: "Store a key-value pair",
	Args:  cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleSet(cmd.Context(), ds, args)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"del"},
	Short:   "Delete a key",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleDelete(cmd.Context(), ds, args[0])
	},
}

var incrCmd = &cobra.Command{
	Use:   "incr <key> [delta]",
	Short: "Increment a numeric value",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleArithmetic(cmd.Context(), ds, "incr", args)
	},
}

var decrCmd = &cobra.Command{
	Use:   "decr <key> [delta]",
	Short: "Decrement a numeric value",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleArithmetic(cmd.Context(), ds, "decr", args)
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <key> <expire_seconds>",
	Short: "Update the expiration of an existing key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleTouch(cmd.Context(), ds, args[0], args[1])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the server version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleVersion(cmd.Context(), ds)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats [items|slabs|sizes|settings|detail]",
	Short: "Show server statistics",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleStats(cmd.Context(), ds, args)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <slab_class> [limit]",
	Short: "Dump cached keys from a slab class",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleDump(cmd.Context(), ds, args)
	},
}

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Invalidate every item on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := newDataSource()
		if err != nil {
			return err
		}
		defer ds.Close()
		return handleFlush(cmd.Context(), ds)
	},
}

func handleGet(ctx context.Context, ds *memcadm.DataSource, key string) error {
	item, err := ds.Get(ctx, key)
	if err != nil {
		return err
	}
	if !item.Found {
		fmt.Printf("Key %q not found\n", key)
		return nil
	}

	fmt.Printf("Key:    %s\n", item.Key)
	fmt.Printf("Flags:  %d\n", item.Flags)
	fmt.Printf("Length: %d\n", item.Size())
	if item.Printable() {
		fmt.Printf("Value:  %s\n", item.DisplayValue())
	} else {
		fmt.Printf("Value:  %s digest=%s\n", item.DisplayValue(), item.Digest())
	}
	return nil
}

func handleSet(ctx context.Context, ds *memcadm.DataSource, args []string) error {
	key, value := args[0], args[1]

	var expire int64
	var flags uint64
	var err error
	if len(args) >= 3 {
		expire, err = strconv.ParseInt(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid expire: %v", err)
		}
	}
	if len(args) == 4 {
		flags, err = strconv.ParseUint(args[3], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid flags: %v", err)
		}
	}

	item := memcadm.NewItem(key, []byte(value), int32(expire), uint32(flags))
	if err := ds.Set(ctx, item); err != nil {
		return err
	}
	fmt.Println("Stored")
	return nil
}

func handleDelete(ctx context.Context, ds *memcadm.DataSource, key string) error {
	deleted, err := ds.Delete(ctx, key)
	if err != nil {
		return err
	}
	if deleted {
		fmt.Println("Deleted")
	} else {
		fmt.Printf("Key %q not found\n", key)
	}
	return nil
}

func handleArithmetic(ctx context.Context, ds *memcadm.DataSource, verb string, args []string) error {
	key := args[0]
	delta := uint64(1)
	if len(args) == 2 {
		var err error
		delta, err = strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid delta: %v", err)
		}
	}

	var value uint64
	var found bool
	var err error
	if verb == "incr" {
		value, found, err = ds.Incr(ctx, key, delta)
	} else {
		value, found, err = ds.Decr(ctx, key, delta)
	}
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("Key %q not found\n", key)
		return nil
	}
	fmt.Println(value)
	return nil
}

func handleTouch(ctx context.Context, ds *memcadm.DataSource, key, expireArg string) error {
	expire, err := strconv.ParseInt(expireArg, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid expire: %v", err)
	}

	touched, err := ds.Touch(ctx, key, int32(expire))
	if err != nil {
		return err
	}
	if touched {
		fmt.Println("Touched")
	} else {
		fmt.Printf("Key %q not found\n", key)
	}
	return nil
}

func handleVersion(ctx context.Context, ds *memcadm.DataSource) error {
	version, err := ds.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Println(version)
	return nil
}

func handleStats(ctx context.Context, ds *memcadm.DataSource, args []string) error {
	raw := "stats"
	if len(args) > 0 {
		raw += " " + strings.Join(args, " ")
	}

	lines, err := ds.Query(ctx, raw)
	if err != nil {
		return err
	}
	printStatLines(lines)
	return nil
}

func handleDump(ctx context.Context, ds *memcadm.DataSource, args []string) error {
	limit := "100"
	if len(args) == 2 {
		limit = args[1]
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		return fmt.Errorf("invalid slab class: %v", err)
	}
	if _, err := strconv.Atoi(limit); err != nil {
		return fmt.Errorf("invalid limit: %v", err)
	}

	lines, err := ds.Query(ctx, fmt.Sprintf("stats cachedump %s %s", args[0], limit))
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Println("No items in this slab class")
		return nil
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

func handleFlush(ctx context.Context, ds *memcadm.DataSource) error {
	if err := ds.FlushAll(ctx); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

// printStatLines aligns "STAT <name> <value>" lines into two columns and
// prints anything else verbatim.
func printStatLines(lines []string) {
	width := 0
	type stat struct{ name, value string }
	var stats []stat

	for _, line := range lines {
		name, value, ok := cutStatLine(line)
		if !ok {
			stats = append(stats, stat{name: line})
			continue
		}
		if len(name) > width {
			width = len(name)
		}
		stats = append(stats, stat{name: name, value: value})
	}

	for _, s := range stats {
		if s.value == "" {
			fmt.Println(s.name)
			continue
		}
		fmt.Printf("%-*s  %s\n", width, s.name, s.value)
	}
}

func cutStatLine(line string) (name, value string, ok bool) {
	rest, ok := strings.CutPrefix(line, "STAT ")
	if !ok {
		return "", "", false
	}
	name, value, ok = strings.Cut(rest, " ")
	if !ok {
		return "", "", false
	}
	return name, value, true
}
