package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/reporter"
	"github.com/andrsd/kuristo/internal/rundir"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "List past runs under the log directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		runIDs, err := rundir.ListRuns(cfg.LogRoot)
		if err != nil {
			return err
		}
		latest := rundir.LatestRunID(cfg.LogRoot)

		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tDURATION\tJOBS\tTAG")
		for _, id := range runIDs {
			layout := rundir.New(cfg.LogRoot, id)
			duration, jobs := "error", "?"
			if report, err := reporter.ReadYAML(layout.ReportYAMLPath()); err == nil {
				duration = fmt.Sprintf("%.3fs", report.TotalRuntime)
				jobs = fmt.Sprintf("%d", len(report.Results))
			}
			tag := ""
			if id == latest {
				tag = "latest"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, duration, jobs, tag)
		}
		return w.Flush()
	},
}
