package main

import (
	"fmt"

	"github.com/robert-malhotra/go-readmars/internal/export"
	"github.com/robert-malhotra/go-readmars/internal/runinfo"
	"github.com/robert-malhotra/go-readmars/mars"
	"github.com/spf13/cobra"
)

func newRunlistCmd(a *app) *cobra.Command {
	var (
		base  string
		table string
	)

	cmd := &cobra.Command{
		Use:   "runlist RUNLIST OUTPUT.db",
		Short: "Extract the summary files of a run list into one table",
		Long:  "RUNLIST is a CSV file with night and run_id columns. The summary file of every run is read from the dated directory tree below --ganymed-base and its events are appended to one table with night and run_id columns.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if base == "" {
				base = a.cfg.GanymedBase
			}
			if table == "" {
				table = a.cfg.Export.EventsTable
			}

			runs, err := runinfo.ReadRunList(cmd.Context(), a.fs, args[0])
			if err != nil {
				return err
			}

			store, err := openStore(args[1])
			if err != nil {
				return err
			}
			defer store.Close()

			written, failed := 0, 0
			for _, run := range runs {
				path := runinfo.GanymedSummaryPath(base, run.Night, run.ID)
				cols, err := a.backend.ReadTreeFile(path, a.options(mars.WithTree(a.cfg.Tree))...)
				if err != nil {
					a.logger.Warn("skipping run", "run", run, "path", path, "err", err)
					failed++
					continue
				}

				mode := export.Append
				if written == 0 {
					mode = export.Replace
				}
				constants := map[string]any{"night": int(run.Night), "run_id": run.ID}
				n, err := store.WriteColumns(table, cols, constants, mode)
				if err != nil {
					return fmt.Errorf("run %s: %w", run, err)
				}
				a.logger.Info("run written", "run", run, "rows", n)
				written++
			}

			if written == 0 && len(runs) > 0 {
				return fmt.Errorf("none of %d runs could be read", len(runs))
			}
			a.logger.Info("run list done", "written", written, "failed", failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "ganymed-base", "", "root of the dated summary file tree (default from config)")
	cmd.Flags().StringVar(&table, "table", "", "output table (default from config, else events)")
	return cmd
}
