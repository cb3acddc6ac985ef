// Package workflowfile discovers and parses ktests.yaml job definitions.
//
// This package is the "external collaborator" spec.md places outside the
// core: the scheduler never imports it directly, it only ever sees the
// JobSpec/StepSpec values produced here. That keeps the DAG builder and
// step executor free of any YAML or filesystem concerns.
package workflowfile

// File is the top-level shape of a ktests.yaml document.
type File struct {
	Jobs map[string]*JobSpec `yaml:"jobs"`
}

// JobSpec is one entry under the top-level jobs mapping. The map key is
// the job's identifier; it must be unique within a File.
type JobSpec struct {
	ID             string          `yaml:"-"`
	Name           string          `yaml:"name,omitempty"`
	Description    string          `yaml:"description,omitempty"`
	Steps          []*StepSpec     `yaml:"steps"`
	Skip           string          `yaml:"skip,omitempty"`
	Needs          rawStringList   `yaml:"needs,omitempty"`
	TimeoutMinutes float64         `yaml:"timeout-minutes,omitempty"`
	Strategy       *Strategy       `yaml:"strategy,omitempty"`
	Labels         []string        `yaml:"labels,omitempty"`

	// SourceFile records which ktests.yaml this spec came from, used to
	// disambiguate identically-named jobs across locations in error messages.
	SourceFile string `yaml:"-"`
}

// Strategy holds the `strategy.matrix` block of a JobSpec.
type Strategy struct {
	Matrix *MatrixStrategy `yaml:"matrix,omitempty"`
}

// MatrixStrategy is a mapping of parameter name to candidate values, plus
// an explicit include list of bindings not covered by the Cartesian product.
type MatrixStrategy struct {
	Params  map[string][]any `yaml:"-"`
	Include []map[string]any `yaml:"include,omitempty"`
}

// StepSpec is one entry in a JobSpec's Steps list.
type StepSpec struct {
	Name             string         `yaml:"name,omitempty"`
	Uses             string         `yaml:"uses,omitempty"`
	Run              string         `yaml:"run,omitempty"`
	Shell            string         `yaml:"shell,omitempty"`
	ID               string         `yaml:"id,omitempty"`
	With             map[string]any `yaml:"with,omitempty"`
	WorkingDirectory string         `yaml:"working-directory,omitempty"`
	TimeoutMinutes   float64        `yaml:"timeout-minutes,omitempty"`
}

// rawStringList accepts YAML's `needs: foo` or `needs: [foo, bar]` shapes
// and always normalizes to a slice, mirroring how the teacher's workflow
// parser treats GitHub Actions' `needs` field (string or []any).
type rawStringList []string
