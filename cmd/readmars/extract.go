package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/robert-malhotra/go-readmars/internal/export"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/spf13/cobra"
)

// treeColumns is the extraction of one tree and the table it is written to.
type treeColumns struct {
	tree  string
	table string
	cols  map[string]*mars.Column
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		tree     string
		allTrees bool
		leaves   string
		exclude  string
		table    string
		appendTo bool
		digest   bool
	)

	cmd := &cobra.Command{
		Use:   "extract FILE [OUTPUT.db]",
		Short: "Extract the leaves of one tree, or of every tree, into SQLite tables",
		Long:  "Extracts every valid leaf of a tree with one projection per leaf. Leaves that cannot be projected are skipped. With --all-trees every tree of the file is written to a table named after the tree. With --digest a per-column checksum is printed, so two extractions can be compared without an output database.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && !digest {
				return fmt.Errorf("an output database is required unless --digest is given")
			}
			if allTrees && (tree != "" || table != "" || leaves != "") {
				return fmt.Errorf("--all-trees cannot be combined with --tree, --table or --leaves")
			}
			if tree == "" {
				tree = a.cfg.Tree
			}
			if table == "" {
				table = a.cfg.Export.EventsTable
			}

			var extra []mars.Option
			if names := splitList(leaves); len(names) > 0 {
				extra = append(extra, mars.WithLeaves(names...))
			}
			if names := splitList(exclude); len(names) > 0 {
				extra = append(extra, mars.WithoutLeaves(names...))
			}

			var (
				extracted []treeColumns
				err       error
			)
			if allTrees {
				extracted, err = extractAllTrees(a, args[0], extra)
			} else {
				var cols map[string]*mars.Column
				cols, err = a.backend.ReadTreeFile(args[0], a.options(append(extra, mars.WithTree(tree))...)...)
				extracted = []treeColumns{{tree: tree, table: table, cols: cols}}
			}
			if err != nil {
				return err
			}
			for _, tc := range extracted {
				a.logger.Info("extracted", "file", args[0], "tree", tc.tree, "columns", len(tc.cols))
			}

			if digest {
				for _, tc := range extracted {
					if allTrees {
						fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", tc.tree)
					}
					if err := printDigests(cmd, tc.cols); err != nil {
						return err
					}
				}
			}
			if len(args) == 1 {
				return nil
			}

			store, err := openStore(args[1])
			if err != nil {
				return err
			}
			defer store.Close()

			mode := export.Replace
			if appendTo {
				mode = export.Append
			}
			for _, tc := range extracted {
				n, err := store.WriteColumns(tc.table, tc.cols, nil, mode)
				if err != nil {
					return fmt.Errorf("tree %s: %w", tc.tree, err)
				}
				a.logger.Info("written", "tree", tc.tree, "table", tc.table, "rows", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tree, "tree", "", "tree to extract (default from config, else Events)")
	cmd.Flags().BoolVar(&allTrees, "all-trees", false, "extract every tree, one table per tree")
	cmd.Flags().StringVar(&leaves, "leaves", "", "comma-separated leaves to extract")
	cmd.Flags().StringVar(&exclude, "exclude", "", "comma-separated leaves to leave out")
	cmd.Flags().StringVar(&table, "table", "", "output table (default from config, else events)")
	cmd.Flags().BoolVar(&appendTo, "append", false, "append to an existing table instead of replacing it")
	cmd.Flags().BoolVar(&digest, "digest", false, "print a checksum of every column")
	return cmd
}

// extractAllTrees extracts every tree of path in file order. Trees without a
// single extractable leaf are skipped.
func extractAllTrees(a *app, path string, extra []mars.Option) ([]treeColumns, error) {
	f, err := a.backend.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []treeColumns
	for _, tree := range f.Trees() {
		cols, err := f.ExtractAll(a.options(append(extra[:len(extra):len(extra)], mars.WithTree(tree))...)...)
		if err != nil {
			return nil, fmt.Errorf("tree %s: %w", tree, err)
		}
		if len(cols) == 0 {
			a.logger.Warn("no extractable leaves", "file", path, "tree", tree)
			continue
		}
		out = append(out, treeColumns{tree: tree, table: tree, cols: cols})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: no tree with extractable leaves", path)
	}
	return out, nil
}

func openStore(path string) (*export.Store, error) {
	store, err := export.NewStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func printDigests(cmd *cobra.Command, cols map[string]*mars.Column) error {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tSHAPE\tDIGEST")
	for _, name := range names {
		c := cols[name]
		d, err := c.Digest()
		if err != nil {
			return fmt.Errorf("digest of %s: %w", name, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\t%016x\n", name, c.Type, c.Shape, d)
	}
	return tw.Flush()
}
