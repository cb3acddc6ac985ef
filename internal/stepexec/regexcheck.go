package stepexec

import (
	"context"
	"fmt"
	"regexp"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// RegexCheckStep evaluates a regular expression against an interpolated
// input string, typically a prior step's recorded output. It never spawns a
// subprocess.
type RegexCheckStep struct {
	base
	pattern string
	input   string
}

// NewRegexCheckStep builds a regex-check step. pattern and input are the
// `with.pattern` and `with.input` values from the StepSpec, read by the
// factory before interpolation so the check can interpolate input at Run
// time against the latest Context state.
func NewRegexCheckStep(spec *workflowfile.StepSpec, rctx *runctx.Context, pattern, input string) *RegexCheckStep {
	return &RegexCheckStep{
		base:    base{spec: spec, rctx: rctx, cores: 1},
		pattern: pattern,
		input:   input,
	}
}

func (r *RegexCheckStep) Command() (string, error) {
	return fmt.Sprintf("regex-check %q", r.pattern), nil
}

func (r *RegexCheckStep) Run(ctx context.Context) (int, error) {
	re, err := regexp.Compile(r.pattern)
	if err != nil {
		return spawnFailureExitCode, fmt.Errorf("compiling regex-check pattern: %w", err)
	}

	input, err := r.rctx.Interpolate(r.input)
	if err != nil {
		return spawnFailureExitCode, err
	}

	r.recordOutput(input)

	if re.MatchString(input) {
		return 0, nil
	}
	return 1, nil
}
