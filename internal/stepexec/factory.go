package stepexec

import (
	"github.com/andrsd/kuristo/internal/registry"
	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// New builds the concrete Step a StepSpec resolves to, per spec §4.2:
// no `uses` → shell step; `uses` found in the action table → action step;
// else found in the function table → function step; else a fatal
// ErrUnknownAction.
func New(spec *workflowfile.StepSpec, rctx *runctx.Context, reg *registry.Registry, cores int) (Step, error) {
	if spec.Uses == "" {
		return NewShellStep(spec, rctx, cores), nil
	}

	if ctor, ok := reg.LookupAction(spec.Uses); ok {
		return ctor(spec, rctx)
	}

	if ctor, ok := reg.LookupFunction(spec.Uses); ok {
		return ctor(spec, rctx)
	}

	return nil, &ErrUnknownAction{Uses: spec.Uses}
}
