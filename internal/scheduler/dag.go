// Package scheduler builds the job DAG from workflow specs, validates it,
// and runs it to completion under a core budget, grounded on spec §4.7.
// Check's three passes run sequentially, each depending on the previous
// one's skip markings (oversize skips must land before propagation can
// spread them, and both assume FindCycle already confirmed the graph is
// acyclic); golang.org/x/sync/errgroup is reserved for run.go's concurrent
// job workers, the same library the teacher's runner.CheckRunner.Prepare
// uses to parallelize its own independent preflight checks.
package scheduler

import (
	"fmt"
	"sort"

	"github.com/andrsd/kuristo/internal/job"
)

// node is one DAG entry: a Job plus its dependency edges.
type node struct {
	job     *job.Job
	needs   []string // ids this job depends on
	blocks  []string // ids that depend on this job (reverse edges)
}

// DAG is the job dependency graph. Node iteration order (for ready-set
// discovery) follows insertion order, the order jobs were added via Add.
type DAG struct {
	nodes map[string]*node
	order []string
}

// New returns an empty DAG.
func New() *DAG {
	return &DAG{nodes: make(map[string]*node)}
}

// Add inserts a Job as a DAG node with the given dependency ids. Unknown
// dependency ids are not checked here; Build validates them once every Add
// call has happened.
func (d *DAG) Add(j *job.Job, needs []string) {
	d.nodes[j.ID] = &node{job: j, needs: append([]string(nil), needs...)}
	d.order = append(d.order, j.ID)
}

// Build wires the reverse (blocks) edges and validates that every `needs`
// name refers to a job actually present in the DAG. An unknown dependency
// name is a fatal startup error naming both jobs, per spec §4.7.
func (d *DAG) Build() error {
	for id, n := range d.nodes {
		for _, dep := range n.needs {
			depNode, ok := d.nodes[dep]
			if !ok {
				return fmt.Errorf("job %q needs unknown job %q", id, dep)
			}
			depNode.blocks = append(depNode.blocks, id)
		}
	}
	return nil
}

// Jobs returns every job in insertion order.
func (d *DAG) Jobs() []*job.Job {
	out := make([]*job.Job, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.nodes[id].job)
	}
	return out
}

// FindCycle returns the ids of a cycle in the DAG, in order, or nil if the
// graph is acyclic.
func (d *DAG) FindCycle() []string {
	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(d.nodes))
	var stack []string

	var visit func(id string) []string
	visit = func(id string) []string {
		state[id] = visiting
		stack = append(stack, id)

		deps := append([]string(nil), d.nodes[id].needs...)
		sort.Strings(deps)
		for _, dep := range deps {
			switch state[dep] {
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			case visiting:
				// Found the back-edge; extract the cycle from stack.
				start := 0
				for i, s := range stack {
					if s == dep {
						start = i
						break
					}
				}
				cycle := append([]string(nil), stack[start:]...)
				return append(cycle, dep)
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = visited
		return nil
	}

	ids := append([]string(nil), d.order...)
	sort.Strings(ids)
	for _, id := range ids {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

func (d *DAG) predecessors(id string) []string {
	return d.nodes[id].needs
}

func (d *DAG) dependents(id string) []string {
	return d.nodes[id].blocks
}
