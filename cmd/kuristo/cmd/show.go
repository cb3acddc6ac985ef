package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/rundir"
)

var (
	showRun string
	showJob int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Pretty-print one job's log from a past run",
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := rundir.ResolveRunID(cfg.LogRoot, showRun)
		if err != nil {
			return err
		}
		layout := rundir.New(cfg.LogRoot, runID)
		return renderJobLog(layout.JobLogPath(showJob))
	},
}

func init() {
	showCmd.Flags().StringVar(&showRun, "run", "", "run id to read from (defaults to latest)")
	showCmd.Flags().IntVar(&showJob, "job", 0, "job log index to display (job-<n>.log)")
}

// renderJobLog colorizes the JOB_START/TASK_START/TASK_END/JOB_END records
// internal/job.Job.Run writes, per spec §4.5.
func renderJobLog(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening job log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		printLogLine(scanner.Text())
	}
	return scanner.Err()
}

func printLogLine(line string) {
	switch {
	case strings.HasPrefix(line, "JOB_START"), strings.HasPrefix(line, "JOB_END"):
		fmt.Printf("%s%s%s\n", ansiCyan, line, ansiReset)
	case strings.HasPrefix(line, "TASK_START"):
		fmt.Printf("  %s%s%s\n", ansiGrey, line, ansiReset)
	case strings.HasPrefix(line, "TASK_END"):
		color := ansiGreen
		if !strings.Contains(line, "rc=0") {
			color = ansiRed
		}
		fmt.Printf("  %s%s%s\n", color, line, ansiReset)
	case strings.HasPrefix(line, "SKIP"):
		fmt.Printf("%s%s%s\n", ansiYellow, line, ansiReset)
	default:
		fmt.Printf("  %s\n", line)
	}
}
