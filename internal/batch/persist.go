package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// record is the on-disk shape of one submission, written so a later `batch
// status` invocation — a separate process, with a fresh, empty Backend —
// can re-discover what an earlier `batch submit` handed to the queue.
type record struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	JobID      string `json:"job_id"`
}

// SavePath is where a run's batch submissions are recorded, alongside its
// run directory.
func SavePath(logRoot, runID string) string {
	return filepath.Join(logRoot, "runs", runID, "batch-submissions.json")
}

// Save persists submissions to path as JSON, mirroring internal/kconfig's
// plain encoding/json use for this module's other small on-disk records.
func Save(path string, submissions []*Submission) error {
	records := make([]record, 0, len(submissions))
	for _, s := range submissions {
		records = append(records, record{ID: s.ID, ExternalID: s.ExternalID, JobID: s.JobID})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling batch submissions: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating batch submission directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads back submissions written by Save. Their Status is always
// reported as StatusSubmitted; callers re-poll the queue for the current
// state.
func Load(path string) ([]*Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	out := make([]*Submission, 0, len(records))
	for _, r := range records {
		out = append(out, &Submission{ID: r.ID, ExternalID: r.ExternalID, JobID: r.JobID, Status: StatusSubmitted})
	}
	return out, nil
}
