package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/spf13/cobra"
)

func newLeavesCmd(a *app) *cobra.Command {
	var tree string

	cmd := &cobra.Command{
		Use:   "leaves FILE",
		Short: "List the extractable leaves of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.backend.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			var extra []mars.Option
			if tree != "" {
				extra = append(extra, mars.WithTree(tree))
			}
			leaves, err := f.Leaves(a.options(extra...)...)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TREE\tLEAF\tTYPE\tPER_EVENT")
			for _, l := range leaves {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", l.Tree, l.Name, l.TypeName, l.PerEvent)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&tree, "tree", "", "only list leaves of this tree")
	return cmd
}
