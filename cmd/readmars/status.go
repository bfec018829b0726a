package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/robert-malhotra/go-readmars/internal/runinfo"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	var (
		get    string
		out    string
		table  string
		night  int
		run    int
		noOver bool
	)

	cmd := &cobra.Command{
		Use:   "status FILE",
		Short: "List, print or export the status display of a file",
		Long:  "Without flags the keys of the flattened status display are listed. --get prints one transformed object, --export writes every camera array and histogram to SQLite. Night and run are taken from the file name unless given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []mars.Option
			if noOver {
				extra = append(extra, mars.WithOverflow(false))
			}
			opts := a.options(extra...)

			switch {
			case out != "":
				if night == 0 || run == 0 {
					info, err := runinfo.ParseFileName(args[0])
					if err != nil {
						return fmt.Errorf("%w (use --night and --run)", err)
					}
					if night == 0 {
						night = int(info.Night)
					}
					if run == 0 {
						run = info.Run1
					}
				}
				if table == "" {
					table = a.cfg.Export.StatusTable
				}
				values, err := a.backend.ReadStatusDisplay(args[0], opts...)
				if err != nil {
					return err
				}
				store, err := openStore(out)
				if err != nil {
					return err
				}
				defer store.Close()

				skipped, err := store.WriteStatus(table, night, run, values)
				if err != nil {
					return err
				}
				for _, key := range skipped {
					a.logger.Debug("not exported", "key", key)
				}
				a.logger.Info("status written", "table", table, "objects", len(values)-len(skipped))
				return nil

			case get != "":
				f, err := a.backend.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				idx, err := f.StatusIndex(opts...)
				if err != nil {
					return err
				}
				key := get
				e, ok := idx.Get(get)
				if strings.HasPrefix(get, "/") {
					key, e, ok = idx.Lookup(mars.SplitPath(get))
				}
				if !ok {
					return fmt.Errorf("no status object %q", get)
				}
				v, err := mars.NewTransformer(opts...).Transform(e.Object)
				if err != nil {
					return err
				}
				printValue(cmd, key, e, v)
				return nil

			default:
				f, err := a.backend.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				idx, err := f.StatusIndex(opts...)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "KEY\tCLASS\tKIND\tPATH")
				for _, key := range idx.Keys() {
					e, _ := idx.Get(key)
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, e.ClassName, e.Kind, mars.JoinPath(e.Path()...))
				}
				return tw.Flush()
			}
		},
	}
	cmd.Flags().StringVar(&get, "get", "", "print the transformed object stored under this key, or at this /Canvas/pad/Name path")
	cmd.Flags().StringVar(&out, "export", "", "write the transformed status display to this SQLite database")
	cmd.Flags().StringVar(&table, "table", "", "output table (default from config, else status)")
	cmd.Flags().IntVar(&night, "night", 0, "night YYYYMMDD of the exported rows")
	cmd.Flags().IntVar(&run, "run", 0, "run id of the exported rows")
	cmd.Flags().BoolVar(&noOver, "no-overflow", false, "leave out underflow and overflow bins")
	return cmd
}

func printValue(cmd *cobra.Command, key string, e mars.StatusEntry, v any) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s) at %s\n", key, e.ClassName, mars.JoinPath(e.Path()...))
	switch v := v.(type) {
	case []float64:
		fmt.Fprintf(w, "%d pixels in CHID order\n", len(v))
		for chid := 0; chid < len(v); chid += 10 {
			end := min(chid+10, len(v))
			fmt.Fprintf(w, "%4d: %s\n", chid, formatFloats(v[chid:end]))
		}
	case mars.Hist:
		fmt.Fprintf(w, "edges:   %s\n", formatFloats(v.BinEdges))
		fmt.Fprintf(w, "content: %s\n", formatFloats(v.Content))
	default:
		fmt.Fprintf(w, "%v\n", v)
	}
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, " ")
}
