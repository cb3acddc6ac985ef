// Package batch is the HPC batch backend: an alternate sink a JobSpec can be
// submitted to instead of running locally under the Scheduler. It is the
// "external collaborator" named in spec.md's system overview — the core
// never imports it.
package batch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrsd/kuristo/internal/workflowfile"
)

// Status is the lifecycle of a batch submission as tracked by this process;
// the real queue's own state machine (pending/running/done) is polled and
// mapped onto this.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

// Submission is a single job handed off to the batch queue.
type Submission struct {
	ID          string
	ExternalID  string
	JobID       string
	SubmittedAt time.Time
	Status      Status
}

// Queue is a minimal interface over whatever external scheduler actually
// runs the job (Slurm, PBS, a REST API) — kept narrow so a real backend can
// be swapped in without touching callers.
type Queue interface {
	Submit(job *workflowfile.JobSpec) (externalID string, err error)
	Poll(externalID string) (Status, error)
}

// Backend submits JobSpecs to a Queue and tracks their opaque ids.
type Backend struct {
	queue       Queue
	submissions map[string]*Submission
}

// New wraps queue with submission bookkeeping.
func New(queue Queue) *Backend {
	return &Backend{queue: queue, submissions: make(map[string]*Submission)}
}

// Submit hands job to the backing queue and records a locally-addressable
// submission id (independent of whatever id the external queue assigns),
// the same opaque-id pattern google/uuid serves elsewhere in this module
// for run ids.
func (b *Backend) Submit(job *workflowfile.JobSpec) (*Submission, error) {
	externalID, err := b.queue.Submit(job)
	if err != nil {
		return nil, fmt.Errorf("submitting job %q to batch queue: %w", job.ID, err)
	}

	sub := &Submission{
		ID:          uuid.NewString(),
		ExternalID:  externalID,
		JobID:       job.ID,
		SubmittedAt: time.Now(),
		Status:      StatusSubmitted,
	}
	b.submissions[sub.ID] = sub

	return sub, nil
}

// Status returns the last-known status for a submission id, polling the
// queue to refresh it.
func (b *Backend) Status(submissionID string) (Status, error) {
	sub, ok := b.submissions[submissionID]
	if !ok {
		return "", fmt.Errorf("unknown submission %q", submissionID)
	}

	status, err := b.queue.Poll(sub.ExternalID)
	if err != nil {
		return sub.Status, fmt.Errorf("polling batch queue for %q: %w", submissionID, err)
	}
	sub.Status = status
	return status, nil
}
