package stepexec

import (
	"fmt"

	"github.com/andrsd/kuristo/internal/registry"
	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

// RegisterBuiltins wires the step variants spec §4.3 names as actions:
// mpi, regex-check, and the four external diff tools. mpiLauncher comes
// from kconfig so the constructor doesn't need to see the whole Config.
func RegisterBuiltins(reg *registry.Registry, mpiLauncher string) {
	reg.RegisterAction("mpi", func(spec *workflowfile.StepSpec, rctx *runctx.Context) (registry.Step, error) {
		cores := 1
		if n, ok := withInt(spec.With, "n_procs"); ok {
			cores = n
		}
		return NewMPIStep(spec, rctx, cores, mpiLauncher), nil
	})

	reg.RegisterAction("regex-check", func(spec *workflowfile.StepSpec, rctx *runctx.Context) (registry.Step, error) {
		pattern, _ := withString(spec.With, "pattern")
		input, _ := withString(spec.With, "input")
		if pattern == "" {
			return nil, fmt.Errorf("regex-check step %q: with.pattern is required", spec.Name)
		}
		if input == "" {
			input = "${{ steps." + spec.ID + ".output }}"
		}
		return NewRegexCheckStep(spec, rctx, pattern, input), nil
	})

	for name, tool := range map[string]DiffTool{
		"exodiff":          DiffExodiff,
		"csvdiff":          DiffCSVDiff,
		"h5diff":           DiffH5Diff,
		"convergence-rate": DiffConvRate,
	} {
		tool := tool
		reg.RegisterAction(name, func(spec *workflowfile.StepSpec, rctx *runctx.Context) (registry.Step, error) {
			gold, _ := withString(spec.With, "gold")
			test, _ := withString(spec.With, "test")
			tolerance, ok := withString(spec.With, "tolerance")
			if !ok {
				tolerance = "1e-10"
			}
			failOnDiff := true
			if b, ok := withBool(spec.With, "fail-on-diff"); ok {
				failOnDiff = b
			}
			if gold == "" || test == "" {
				return nil, fmt.Errorf("%s step %q: with.gold and with.test are required", name, spec.Name)
			}
			return NewExternalDiffStep(spec, rctx, tool, gold, test, tolerance, failOnDiff), nil
		})
	}
}

func withString(with map[string]any, key string) (string, bool) {
	v, ok := with[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func withInt(with map[string]any, key string) (int, bool) {
	v, ok := with[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case uint64:
		return int(n), true
	default:
		return 0, false
	}
}

func withBool(with map[string]any, key string) (bool, bool) {
	v, ok := with[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
