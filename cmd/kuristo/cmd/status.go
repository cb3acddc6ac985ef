package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/reporter"
	"github.com/andrsd/kuristo/internal/rundir"
)

var statusRun string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize a past run's report.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := rundir.ResolveRunID(cfg.LogRoot, statusRun)
		if err != nil {
			return err
		}

		layout := rundir.New(cfg.LogRoot, runID)
		report, err := reporter.ReadYAML(layout.ReportYAMLPath())
		if err != nil {
			return err
		}

		printStatusReport(report)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusRun, "run", "", "run id to summarize (defaults to latest)")
}

func printStatusReport(report reporter.Report) {
	var success, failed, skipped int

	for _, r := range report.Results {
		label, color := "FAIL", ansiRed
		switch r.Status {
		case "success":
			label, color = "PASS", ansiGreen
			success++
		case "skipped":
			label, color = "SKIP", ansiYellow
			skipped++
		case "failed":
			failed++
		}

		extra := ""
		switch {
		case r.Status == "skipped":
			extra = ": " + r.Reason
		case r.Duration != nil:
			extra = fmt.Sprintf(" %.3fs", *r.Duration)
		}

		fmt.Printf("[ %s%s%s ] %s#%s%s %s%s%s%s\n",
			color, label, ansiReset, ansiGrey, r.ID, ansiReset, ansiCyan, r.JobName, ansiReset, extra)
	}

	fmt.Println(strings.Repeat("-", 60))
	fmt.Printf("%sSuccess:%s %s%d%s  %sFailed:%s %s%d%s  %sSkipped:%s %s%d%s  Total: %d\n",
		ansiGrey, ansiReset, ansiGreen, success, ansiReset,
		ansiGrey, ansiReset, ansiRed, failed, ansiReset,
		ansiGrey, ansiReset, ansiYellow, skipped, ansiReset,
		success+failed+skipped)
	fmt.Printf("%sTook:%s %s\n", ansiGrey, ansiReset, time.Duration(report.TotalRuntime*float64(time.Second)))
}
