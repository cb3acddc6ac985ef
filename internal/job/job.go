// Package job implements the runtime Job: the Waiting/Running/Finished/
// Skipped state machine, its ordered step execution, and its per-job log
// file, grounded on spec §4.5.
package job

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/andrsd/kuristo/internal/progress"
	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/stepexec"
)

// Status is a Job's lifecycle state.
type Status int

const (
	Waiting Status = iota
	Running
	Finished
	Skipped
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result is what a terminal Job reports to the Reporter.
type Result struct {
	ID         string
	Name       string
	Status     Status
	Reason     string // set when Status == Skipped
	ReturnCode int
	Duration   time.Duration
}

// Job is one DAG node: an ordered list of steps sharing a Context, a
// required core count, and a logger.
type Job struct {
	ID             string
	Name           string
	Steps          []stepexec.Step
	RequiredCores  int
	Ctx            *runctx.Context
	ContinueOnStepFailure bool

	status     Status
	reason     string
	returnCode int
	duration   time.Duration
}

// New builds a Waiting job. ContinueOnStepFailure defaults to true per the
// Open Question resolution in SPEC_FULL.md §9: a failing step does not
// short-circuit the remaining steps in the same job.
func New(id, name string, steps []stepexec.Step, requiredCores int, rctx *runctx.Context) *Job {
	return &Job{
		ID:                    id,
		Name:                  name,
		Steps:                 steps,
		RequiredCores:         requiredCores,
		Ctx:                   rctx,
		ContinueOnStepFailure: true,
		status:                Waiting,
	}
}

// Status returns the job's current lifecycle state.
func (j *Job) Status() Status {
	return j.status
}

// SetRunning transitions a Waiting job to Running. Called by the Scheduler
// under its admission mutex at admission time, before the job's worker
// goroutine is spawned, so that Status() is Running for every concurrent
// reader (predecessorsDone, admitReady's own Waiting check) from the moment
// a job is admitted rather than from whenever its goroutine gets scheduled.
func (j *Job) SetRunning() {
	j.status = Running
}

// Skip transitions a Waiting job directly to Skipped, writing a single skip
// line to log instead of running any steps.
func (j *Job) Skip(log io.Writer, reason string) {
	j.status = Skipped
	j.reason = reason
	fmt.Fprintf(log, "SKIP %s: %s\n", j.ID, reason)
}

// Run executes the job's steps in order, recording JOB_START/TASK_START/
// TASK_END/JOB_END lines to log and OR-combining each step's return code
// into the job's aggregate. It transitions Running -> Finished. reporter
// may be progress.NoOp{} when no caller wants live updates.
func (j *Job) Run(ctx context.Context, log io.Writer, reporter progress.Reporter) Result {
	start := time.Now()
	fmt.Fprintf(log, "JOB_START %s\n", j.ID)
	reporter.OnJobStart(j.ID, j.Name)

	aggregate := 0
	for i, step := range j.Steps {
		cmd, err := step.Command()
		fmt.Fprintf(log, "TASK_START %d %s\n", i, cmd)
		reporter.OnStepStart(j.ID, i, cmd)
		if err != nil {
			fmt.Fprintf(log, "TASK_END %d rc=%d error=%v\n", i, -1, err)
			reporter.OnStepFinish(j.ID, i, -1)
			aggregate |= -1
			if !j.ContinueOnStepFailure {
				break
			}
			continue
		}

		stepCtx, cancel := withStepTimeout(ctx, step.TimeoutMinutes())
		rc, runErr := step.Run(stepCtx)
		cancel()

		if runErr != nil {
			fmt.Fprintf(log, "TASK_END %d rc=%d error=%v\n", i, rc, runErr)
		} else {
			fmt.Fprintf(log, "TASK_END %d rc=%d\n", i, rc)
		}
		reporter.OnStepFinish(j.ID, i, rc)

		aggregate |= rc
		if rc != 0 && !j.ContinueOnStepFailure {
			break
		}
	}

	j.duration = time.Since(start)
	j.returnCode = aggregate
	j.status = Finished
	fmt.Fprintf(log, "JOB_END %s rc=%d duration=%s\n", j.ID, aggregate, j.duration)
	reporter.OnJobFinish(j.ID, j.Name, aggregate, j.duration)

	return j.Result()
}

// Result snapshots the job's terminal state for the Reporter.
func (j *Job) Result() Result {
	return Result{
		ID:         j.ID,
		Name:       j.Name,
		Status:     j.status,
		Reason:     j.reason,
		ReturnCode: j.returnCode,
		Duration:   j.duration,
	}
}
