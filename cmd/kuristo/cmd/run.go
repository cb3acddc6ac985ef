package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/job"
	"github.com/andrsd/kuristo/internal/matrix"
	"github.com/andrsd/kuristo/internal/progress"
	"github.com/andrsd/kuristo/internal/registry"
	"github.com/andrsd/kuristo/internal/reporter"
	"github.com/andrsd/kuristo/internal/resources"
	"github.com/andrsd/kuristo/internal/rundir"
	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/scheduler"
	"github.com/andrsd/kuristo/internal/stepexec"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

var (
	csvReport bool
	tagName   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Discover ktests.yaml files under --location and run their jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAll(cmd, locations)
	},
}

func init() {
	runCmd.Flags().BoolVar(&csvReport, "csv", false, "also write report.csv alongside report.yaml")
	runCmd.Flags().StringVar(&tagName, "tag", "", "protect this run from retention pruning under this tag name")
}

func runAll(cmd *cobra.Command, locations []string) error {
	specs, err := workflowfile.ParseAll(locations)
	if err != nil {
		return err
	}

	reg := registry.New()
	stepexec.RegisterBuiltins(reg, cfg.MPILauncher)

	dag, err := buildDAG(specs, reg)
	if err != nil {
		return err
	}

	budget := resources.New(cfg.Cores)
	if err := dag.Check(budget.Max()); err != nil {
		return err
	}

	runID := rundir.NewRunID(time.Now())
	layout := rundir.New(cfg.LogRoot, runID)

	var rep progress.Reporter = progress.NoOp{}
	if useColor() {
		rep = newTerminalReporter()
	}

	start := time.Now()
	sched := scheduler.New(dag, budget, layout, rep)
	results, err := sched.RunAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("running jobs: %w", err)
	}
	duration := time.Since(start)

	report := reporter.Build(results, duration)
	if err := reporter.WriteYAML(layout.ReportYAMLPath(), report); err != nil {
		return err
	}
	if csvReport {
		if err := reporter.WriteCSV(layout.ReportCSVPath(), report); err != nil {
			return err
		}
	}

	if err := layout.SwingLatest(); err != nil {
		return fmt.Errorf("updating runs/latest: %w", err)
	}
	if tagName != "" {
		if err := layout.Tag(tagName); err != nil {
			return err
		}
	}

	if _, err := rundir.Prune(cfg.LogRoot, cfg.RetentionRuns); err != nil {
		return fmt.Errorf("pruning old runs: %w", err)
	}

	return exitStatus(results)
}

// pendingJob is one matrix-expanded concrete job awaiting its needs to be
// resolved against the other specs' own expansions, which may not all be
// known yet during the expansion pass (map iteration order is unspecified).
type pendingJob struct {
	job   *job.Job
	needs []string // the owning spec's raw (pre-expansion) needs, by spec id
}

// buildDAG expands every JobSpec's matrix strategy into concrete Jobs and
// wires the dependency edges, resolving `needs` against the concrete jobs a
// parent spec expanded to: if spec B matrix-expands into B#0 and B#1, a job
// that needs B needs both B#0 and B#1, since neither alone represents "B
// finished".
func buildDAG(specs map[string]*workflowfile.JobSpec, reg *registry.Registry) (*scheduler.DAG, error) {
	idsBySpec := make(map[string][]string)
	var pending []pendingJob

	for specID, spec := range specs {
		bindings, err := matrix.Expand(strategyOf(spec))
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", specID, err)
		}

		for _, binding := range bindings {
			rctx := runctx.New(binding, nil)

			name, err := matrix.Name(displayName(spec), spec.Name, binding, nil, rctx.Interpolate)
			if err != nil {
				return nil, fmt.Errorf("job %q: deriving matrix name: %w", specID, err)
			}

			steps := make([]stepexec.Step, 0, len(spec.Steps))
			for _, stepSpec := range spec.Steps {
				cores := 1
				step, err := stepexec.New(stepSpec, rctx, reg, cores)
				if err != nil {
					return nil, fmt.Errorf("job %q step %q: %w", specID, stepSpec.Name, err)
				}
				steps = append(steps, step)
			}

			concreteID := specID
			if len(bindings) > 1 {
				concreteID = fmt.Sprintf("%s#%d", specID, len(idsBySpec[specID]))
			}

			j := job.New(concreteID, name, steps, requiredCoresOf(steps), rctx)
			idsBySpec[specID] = append(idsBySpec[specID], concreteID)
			pending = append(pending, pendingJob{job: j, needs: spec.Needs})
		}
	}

	dag := scheduler.New()
	for _, p := range pending {
		needs := make([]string, 0, len(p.needs))
		for _, depSpecID := range p.needs {
			concreteIDs, ok := idsBySpec[depSpecID]
			if !ok {
				return nil, fmt.Errorf("job %q needs unknown job %q", p.job.ID, depSpecID)
			}
			needs = append(needs, concreteIDs...)
		}
		dag.Add(p.job, needs)
	}

	if err := dag.Build(); err != nil {
		return nil, err
	}
	return dag, nil
}

func strategyOf(spec *workflowfile.JobSpec) *workflowfile.MatrixStrategy {
	if spec.Strategy == nil {
		return nil
	}
	return spec.Strategy.Matrix
}

func displayName(spec *workflowfile.JobSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return spec.ID
}

func requiredCoresOf(steps []stepexec.Step) int {
	max := 1
	for _, s := range steps {
		if s.NumCores() > max {
			max = s.NumCores()
		}
	}
	return max
}

func exitStatus(results []job.Result) error {
	for _, r := range results {
		if r.Status != job.Skipped && r.ReturnCode != 0 {
			return fmt.Errorf("one or more jobs failed")
		}
	}
	return nil
}
