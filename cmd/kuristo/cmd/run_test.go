package cmd

import (
	"sort"
	"testing"

	"github.com/andrsd/kuristo/internal/registry"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

func TestBuildDAG_UnknownNeedsIsError(t *testing.T) {
	specs := map[string]*workflowfile.JobSpec{
		"test": {
			ID:    "test",
			Steps: []*workflowfile.StepSpec{{Run: "true"}},
			Needs: []string{"nonexistent"},
		},
	}

	if _, err := buildDAG(specs, registry.New()); err == nil {
		t.Fatal("buildDAG() error = nil, want error for needs referencing an unknown job")
	}
}

func TestBuildDAG_TestJobNeedsEveryMatrixVariantOfBuild(t *testing.T) {
	specs := map[string]*workflowfile.JobSpec{
		"build": {
			ID:    "build",
			Steps: []*workflowfile.StepSpec{{Run: "true"}},
			Strategy: &workflowfile.Strategy{
				Matrix: &workflowfile.MatrixStrategy{
					Params: map[string][]any{"os": {"linux", "mac"}},
				},
			},
		},
		"test": {
			ID:    "test",
			Steps: []*workflowfile.StepSpec{{Run: "true"}},
			Needs: []string{"build"},
		},
	}

	dag, err := buildDAG(specs, registry.New())
	if err != nil {
		t.Fatalf("buildDAG() error = %v, want nil", err)
	}

	var testJobID string
	var buildIDs []string
	for _, j := range dag.Jobs() {
		switch {
		case j.ID == "build#0" || j.ID == "build#1":
			buildIDs = append(buildIDs, j.ID)
		case j.ID == "test":
			testJobID = j.ID
		}
	}
	if testJobID == "" {
		t.Fatal("test job not found in DAG")
	}
	if len(buildIDs) != 2 {
		t.Fatalf("expected 2 matrix-expanded build jobs, got %v", buildIDs)
	}
	sort.Strings(buildIDs)
	if buildIDs[0] != "build#0" || buildIDs[1] != "build#1" {
		t.Fatalf("unexpected build job ids: %v", buildIDs)
	}

	// The nil error from buildDAG confirms the needs were resolved to the
	// build variants: if they had been left unresolved (raw "build"), dag.Build would
	// already have failed inside buildDAG with "needs unknown job".
}
