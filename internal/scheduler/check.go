package scheduler

import (
	"fmt"
	"strings"

	"github.com/andrsd/kuristo/internal/job"
)

// Check runs the three validation passes spec §4.7 requires before any job
// is admitted: acyclicity, oversize-vs-budget, and blocked-by-skipped-
// dependency propagation.
func (d *DAG) Check(maxCores int) error {
	if cycle := d.FindCycle(); cycle != nil {
		return fmt.Errorf("cyclic dependency detected: %s", strings.Join(cycle, " → "))
	}

	d.markOversizeSkips(maxCores)
	d.propagateSkippedDependencies()

	return nil
}

// markOversizeSkips skips any job whose required core count exceeds the
// total budget — it could never be admitted no matter how idle the system
// is.
func (d *DAG) markOversizeSkips(maxCores int) {
	for _, id := range d.order {
		n := d.nodes[id]
		if n.job.RequiredCores > maxCores {
			n.job.Skip(discardWriter{}, fmt.Sprintf("Job too big (requires %d cores)", n.job.RequiredCores))
		}
	}
}

// propagateSkippedDependencies marks Skipped any job with a Skipped
// predecessor, processed in topological order from sources so the
// propagation is transitive without revisiting nodes.
func (d *DAG) propagateSkippedDependencies() {
	for _, id := range d.topoOrder() {
		n := d.nodes[id]
		if n.job.Status() == job.Skipped {
			continue
		}
		for _, dep := range n.needs {
			if d.nodes[dep].job.Status() == job.Skipped {
				n.job.Skip(discardWriter{}, "Skipped dependency")
				break
			}
		}
	}
}

// topoOrder returns a topological ordering via Kahn's algorithm, assuming
// Check has already confirmed the graph is acyclic.
func (d *DAG) topoOrder() []string {
	inDegree := make(map[string]int, len(d.nodes))
	for id, n := range d.nodes {
		inDegree[id] = len(n.needs)
	}

	var queue []string
	for _, id := range d.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var result []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		result = append(result, id)

		for _, dep := range d.nodes[id].blocks {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	return result
}

// discardWriter is an io.Writer that drops everything written to it, used
// for skip bookkeeping performed before a job's real log file exists.
type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
