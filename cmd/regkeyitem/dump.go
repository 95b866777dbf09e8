package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joshuapare/regkeyitem/hive"
	"github.com/joshuapare/regkeyitem/keyitem"
	"github.com/joshuapare/regkeyitem/keyitem/codepage"
	"github.com/joshuapare/regkeyitem/keyitem/lazytree"
)

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <hive>",
		Short: "Decode and print the key-item tree rooted at the hive's root key",
		Long: `dump opens a hive file and walks its key-item tree starting at the
root nk cell, printing each key's name, value count, and corruption
status, and descending into its sub-keys via the Sub-Keys Index Walker.

Example:
  regkeyitem dump system.hive
  regkeyitem dump system.hive --max-depth 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args[0])
		},
	}
}

func runDump(hivePath string) error {
	if viper.GetString("codepage") != "cp1252" {
		return fmt.Errorf("unsupported codepage %q: only cp1252 is wired up", viper.GetString("codepage"))
	}

	h, err := hive.Open(hivePath)
	if err != nil {
		return fmt.Errorf("failed to open hive: %w", err)
	}
	defer h.Close()

	tree := lazytree.NewTree(h, viper.GetInt("cache_size"),
		keyitem.WithMaxRecursionDepth(viper.GetInt("max_depth")),
		keyitem.WithValueCacheCapacity(viper.GetInt("cache_size")),
		keyitem.WithTolerant(viper.GetBool("tolerant")),
	)

	root, err := tree.Node(h.RootCellOffset(), 0)
	if err != nil {
		return fmt.Errorf("failed to decode root key: %w", err)
	}

	return printSubtree(tree, root, h.RootCellOffset(), 0, maxDepth)
}

func printSubtree(tree *lazytree.Tree, item *keyitem.KeyItem, offset uint32, depth, limit int) error {
	name, err := item.UTF8Name(codepage.CP1252)
	if err != nil {
		name = fmt.Sprintf("<undecodable: %v>", err)
	}

	status := ""
	if item.Flags().Corrupted() {
		status = " [CORRUPTED]"
	}
	fmt.Printf("%s%s (values=%d)%s\n", strings.Repeat("  ", depth), name, item.NumberOfValues(), status)

	if depth >= limit {
		return nil
	}
	if _, err := tree.Expand(offset); err != nil {
		return fmt.Errorf("failed to expand sub-keys at 0x%x: %w", offset, err)
	}

	subs, _ := tree.SubNodes(offset)
	for _, sub := range subs {
		child, err := tree.Node(sub.Offset, uint32(sub.AuxSize))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to decode child at 0x%x: %v\n", sub.Offset, err)
			continue
		}
		if err := printSubtree(tree, child, sub.Offset, depth+1, limit); err != nil {
			return err
		}
	}
	return nil
}
