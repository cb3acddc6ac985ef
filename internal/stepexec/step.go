// Package stepexec builds and runs the concrete Step a StepSpec resolves to:
// a shell command, an MPI-wrapped command, a function step, or an action
// step from the registry. Process supervision (timeout, process-group kill)
// is grounded on the teacher's apps/cli/internal/act/runner.go.
package stepexec

import (
	"context"
	"fmt"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// Step is the contract every step variant satisfies: Command renders the
// string that will actually execute (after interpolation, useful for
// logging); Run executes the step and returns its return code; NumCores and
// TimeoutMinutes feed the scheduler's admission and supervision logic.
type Step interface {
	Command() (string, error)
	Run(ctx context.Context) (int, error)
	NumCores() int
	TimeoutMinutes() float64
}

// defaultTimeoutMinutes applies when a StepSpec leaves timeout-minutes unset.
// The owning job's timeout-minutes is not consulted.
const defaultTimeoutMinutes = 60

// base holds the fields every step variant needs: its originating spec, the
// job Context for interpolation and output recording, and the core count
// the scheduler already charged when admitting the job.
type base struct {
	spec  *workflowfile.StepSpec
	rctx  *runctx.Context
	cores int
}

func (b base) NumCores() int {
	return b.cores
}

func (b base) TimeoutMinutes() float64 {
	if b.spec.TimeoutMinutes > 0 {
		return b.spec.TimeoutMinutes
	}
	return defaultTimeoutMinutes
}

// recordOutput stores a step's stdout under its id, if it has one, so later
// steps can read it back via `${{ steps.<id>.output }}`.
func (b base) recordOutput(stdout string) {
	if b.spec.ID == "" {
		return
	}
	b.rctx.RecordStepOutput(b.spec.ID, stdout)
}

// ErrUnknownAction is the error the factory's New returns when a
// StepSpec's `uses` value resolves against neither the action nor the
// function table.
type ErrUnknownAction struct {
	Uses string
}

func (e *ErrUnknownAction) Error() string {
	return fmt.Sprintf("unknown action %q: not registered as an action or a function step", e.Uses)
}
