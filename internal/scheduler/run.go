package scheduler

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrsd/kuristo/internal/job"
	"github.com/andrsd/kuristo/internal/progress"
	"github.com/andrsd/kuristo/internal/resources"
	"github.com/andrsd/kuristo/internal/rundir"
)

// Scheduler runs a checked DAG to completion under a core budget. Per
// spec §4.7/§5, a single mutex protects node statuses, the cores counter,
// and the results slice; step execution itself happens outside the lock.
type Scheduler struct {
	dag      *DAG
	cores    *resources.Cores
	layout   *rundir.Layout
	reporter progress.Reporter

	mu      sync.Mutex
	results []job.Result
	nextLog int
}

// New builds a Scheduler over dag with the given core budget and run
// directory layout. reporter may be progress.NoOp{}.
func New(dag *DAG, cores *resources.Cores, layout *rundir.Layout, reporter progress.Reporter) *Scheduler {
	return &Scheduler{dag: dag, cores: cores, layout: layout, reporter: reporter}
}

// RunAll admits and runs every Waiting job, honoring already-Skipped jobs
// from Check, until every node is terminal. It returns all job results and
// the aggregate non-nil error only for scheduler-level failures (log file
// creation, etc.) — individual job/step failures are reflected in Result,
// not the returned error.
func (s *Scheduler) RunAll(ctx context.Context) ([]job.Result, error) {
	if err := s.layout.Ensure(); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)

	s.mu.Lock()
	for _, id := range s.dag.order {
		n := s.dag.nodes[id]
		if n.job.Status() == job.Skipped {
			s.reporter.OnJobSkip(n.job.ID, n.job.Name, n.job.Result().Reason)
			s.results = append(s.results, n.job.Result())
		}
	}
	s.admitReady(gctx, g)
	s.mu.Unlock()

	werr := g.Wait()

	s.mu.Lock()
	s.sortResultsByOrder()
	s.mu.Unlock()

	if werr != nil {
		return s.results, werr
	}
	return s.results, nil
}

// sortResultsByOrder reorders s.results into DAG insertion order (the
// id-order invariant in the report: one entry per node, in the order it
// was added to the DAG), undoing the completion-order append pattern used
// while jobs are still running concurrently. Must be called with s.mu held.
func (s *Scheduler) sortResultsByOrder() {
	index := make(map[string]int, len(s.dag.order))
	for i, id := range s.dag.order {
		index[id] = i
	}
	sort.Slice(s.results, func(i, j int) bool {
		return index[s.results[i].ID] < index[s.results[j].ID]
	})
}

// admitReady computes the ready set (Waiting jobs whose every predecessor
// is terminal and non-skip-blocking) and, in discovery order, admits as
// many as the core budget allows. Must be called with s.mu held.
func (s *Scheduler) admitReady(ctx context.Context, g *errgroup.Group) {
	for _, id := range s.dag.order {
		n := s.dag.nodes[id]
		if n.job.Status() != job.Waiting {
			continue
		}
		if !s.predecessorsDone(n) {
			continue
		}
		if s.cores.Available() < n.job.RequiredCores {
			continue
		}

		s.cores.Allocate(n.job.RequiredCores)
		n.job.SetRunning()
		logIndex := s.nextLog
		s.nextLog++

		g.Go(func() error {
			return s.runWorker(ctx, g, n, logIndex)
		})
	}
}

// predecessorsDone reports whether every predecessor of n has reached a
// terminal, non-blocking state. A Skipped predecessor must already have
// propagated its skip to n during Check; by the time RunAll runs, a ready
// job's predecessors are always Finished.
func (s *Scheduler) predecessorsDone(n *node) bool {
	for _, dep := range n.needs {
		if s.dag.nodes[dep].job.Status() != job.Finished {
			return false
		}
	}
	return true
}

// runWorker executes one job's steps outside the scheduler's mutex, then
// re-takes it to record the result, free cores, and re-run admission.
func (s *Scheduler) runWorker(ctx context.Context, g *errgroup.Group, n *node, logIndex int) error {
	logPath := s.layout.JobLogPath(logIndex)
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating log for job %q: %w", n.job.ID, err)
	}
	defer logFile.Close()

	result := n.job.Run(ctx, logFile, s.reporter)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cores.Free(n.job.RequiredCores)
	s.results = append(s.results, result)
	s.admitReady(ctx, g)

	return nil
}

// Results returns the terminal results recorded so far. Safe to call only
// after RunAll has returned.
func (s *Scheduler) Results() []job.Result {
	return s.results
}

// RunDuration is a convenience for the caller assembling a reporter.Report:
// measures the wall-clock span of a RunAll call.
func RunDuration(start time.Time) time.Duration {
	return time.Since(start)
}
