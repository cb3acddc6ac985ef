package stepexec

import (
	"context"
	"fmt"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// defaultLauncher is used when NewMPIStep is given an empty launcher
// (RegisterBuiltins normally passes the launcher configured in kconfig).
const defaultLauncher = "mpiexec"

// MPIStep wraps a StepSpec's `run` command with the configured MPI launcher
// and a `-np <cores>` argument, reusing ShellStep's process supervision.
type MPIStep struct {
	*ShellStep
	launcher string
}

// NewMPIStep builds an MPI-wrapped shell step. cores also becomes the `-np`
// argument: a job requesting N cores for an MPI step runs N ranks.
func NewMPIStep(spec *workflowfile.StepSpec, rctx *runctx.Context, cores int, launcher string) *MPIStep {
	if launcher == "" {
		launcher = defaultLauncher
	}
	wrapped := *spec
	wrapped.Run = fmt.Sprintf("%s -np %d %s", launcher, cores, spec.Run)
	return &MPIStep{
		ShellStep: NewShellStep(&wrapped, rctx, cores),
		launcher:  launcher,
	}
}

func (m *MPIStep) Run(ctx context.Context) (int, error) {
	return m.ShellStep.Run(ctx)
}
