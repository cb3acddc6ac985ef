package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/batch"
	"github.com/andrsd/kuristo/internal/rundir"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

var batchRun string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Submit jobs to (or poll) the HPC batch queue instead of running them locally",
}

var batchSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit every discovered, non-skipped job to the configured batch queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := workflowfile.ParseAll(locations)
		if err != nil {
			return err
		}

		queue := &batch.ExecQueue{SubmitCmd: cfg.BatchSubmitCmd, PollCmd: cfg.BatchPollCmd}
		backend := batch.New(queue)

		runID := rundir.NewRunID(time.Now())
		layout := rundir.New(cfg.LogRoot, runID)
		if err := layout.Ensure(); err != nil {
			return err
		}

		var submissions []*batch.Submission
		for id, spec := range specs {
			if spec.Skip != "" {
				continue
			}
			sub, err := backend.Submit(spec)
			if err != nil {
				return fmt.Errorf("submitting job %q: %w", id, err)
			}
			submissions = append(submissions, sub)
			fmt.Printf("Submitted %s%s%s as queue id %s%s%s\n", ansiCyan, id, ansiReset, ansiGreen, sub.ExternalID, ansiReset)
		}

		if err := batch.Save(batch.SavePath(cfg.LogRoot, runID), submissions); err != nil {
			return err
		}
		if err := layout.SwingLatest(); err != nil {
			return fmt.Errorf("updating runs/latest: %w", err)
		}

		fmt.Printf("Submitted %d job(s)\n", len(submissions))
		return nil
	},
}

var batchStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Poll the batch queue for a submitted run's current status",
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := rundir.ResolveRunID(cfg.LogRoot, batchRun)
		if err != nil {
			return err
		}

		submissions, err := batch.Load(batch.SavePath(cfg.LogRoot, runID))
		if err != nil {
			return err
		}

		queue := &batch.ExecQueue{SubmitCmd: cfg.BatchSubmitCmd, PollCmd: cfg.BatchPollCmd}
		for _, sub := range submissions {
			status, err := queue.Poll(sub.ExternalID)
			if err != nil {
				fmt.Printf("[%s] %serror:%s %v\n", sub.ExternalID, ansiRed, ansiReset, err)
				continue
			}
			fmt.Printf("[%s] %s -> %s\n", sub.ExternalID, sub.JobID, status)
		}
		return nil
	},
}

func init() {
	batchCmd.AddCommand(batchSubmitCmd)
	batchCmd.AddCommand(batchStatusCmd)
	batchStatusCmd.Flags().StringVar(&batchRun, "run", "", "run id to check (defaults to latest)")
}
