package registry

import (
	"testing"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

func noopConstructor(spec *workflowfile.StepSpec, ctx *runctx.Context) (Step, error) {
	return nil, nil
}

func TestRegisterAndLookupAction(t *testing.T) {
	reg := New()
	reg.RegisterAction("mpi", noopConstructor)

	if _, ok := reg.LookupAction("mpi"); !ok {
		t.Fatal("LookupAction(mpi) not found after RegisterAction")
	}
	if _, ok := reg.LookupAction("missing"); ok {
		t.Error("LookupAction(missing) found, want not found")
	}
}

func TestRegisterAction_LastWriteWins(t *testing.T) {
	reg := New()
	first := noopConstructor
	second := func(spec *workflowfile.StepSpec, ctx *runctx.Context) (Step, error) { return nil, nil }

	reg.RegisterAction("dup", first)
	reg.RegisterAction("dup", second)

	ctor, ok := reg.LookupAction("dup")
	if !ok {
		t.Fatal("LookupAction(dup) not found")
	}
	_ = ctor
}

func TestActionsAndFunctionsAreDisjointNamespaces(t *testing.T) {
	reg := New()
	reg.RegisterFunction("name", noopConstructor)

	if _, ok := reg.LookupAction("name"); ok {
		t.Error("LookupAction found a function-only name")
	}
	if _, ok := reg.LookupFunction("name"); !ok {
		t.Error("LookupFunction(name) not found")
	}
}

func TestActionNamesAndFunctionNames(t *testing.T) {
	reg := New()
	reg.RegisterAction("a1", noopConstructor)
	reg.RegisterAction("a2", noopConstructor)
	reg.RegisterFunction("f1", noopConstructor)

	if got := reg.ActionNames(); len(got) != 2 {
		t.Errorf("ActionNames() = %v, want 2 entries", got)
	}
	if got := reg.FunctionNames(); len(got) != 1 {
		t.Errorf("FunctionNames() = %v, want 1 entry", got)
	}
}
