package stepexec

import (
	"context"
	"fmt"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// DiffTool names the external comparator an ExternalDiffStep wraps.
type DiffTool string

const (
	DiffExodiff   DiffTool = "exodiff"
	DiffCSVDiff   DiffTool = "csvdiff"
	DiffH5Diff    DiffTool = "h5diff"
	DiffConvRate  DiffTool = "convergence-rate"
)

// ExternalDiffStep composes an external diff-tool invocation with a
// tolerance, then interprets its exit code. When FailOnDiff is false, any
// non-zero diff exit is remapped to 0 so the job's aggregate return code
// isn't affected by an expected mismatch.
type ExternalDiffStep struct {
	*ShellStep
	tool        DiffTool
	failOnDiff  bool
}

// NewExternalDiffStep builds the shell invocation for tool comparing
// gold/test and wraps it with the fail-on-diff remapping policy.
func NewExternalDiffStep(spec *workflowfile.StepSpec, rctx *runctx.Context, tool DiffTool, gold, test, tolerance string, failOnDiff bool) *ExternalDiffStep {
	wrapped := *spec
	wrapped.Run = buildDiffCommand(tool, gold, test, tolerance)
	return &ExternalDiffStep{
		ShellStep:  NewShellStep(&wrapped, rctx, 1),
		tool:       tool,
		failOnDiff: failOnDiff,
	}
}

func buildDiffCommand(tool DiffTool, gold, test, tolerance string) string {
	switch tool {
	case DiffExodiff:
		return fmt.Sprintf("exodiff -F %s %s %s", tolerance, gold, test)
	case DiffCSVDiff:
		return fmt.Sprintf("csvdiff --relative-tolerance %s %s %s", tolerance, gold, test)
	case DiffH5Diff:
		return fmt.Sprintf("h5diff --delta=%s %s %s", tolerance, gold, test)
	case DiffConvRate:
		return fmt.Sprintf("convergence-rate --tolerance %s %s %s", tolerance, gold, test)
	default:
		return fmt.Sprintf("echo unknown diff tool %q >&2; exit 1", tool)
	}
}

func (e *ExternalDiffStep) Run(ctx context.Context) (int, error) {
	rc, err := e.ShellStep.Run(ctx)
	if err != nil {
		return rc, err
	}
	if rc != 0 && !e.failOnDiff {
		return 0, nil
	}
	return rc, nil
}
