package batch

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/andrsd/kuristo/internal/workflowfile"
)

// ExecQueue is the default Queue: it hands a job off to an external batch
// scheduler (Slurm, PBS, a site-local wrapper script) by invoking a
// configured shell command line, the same os/exec spawn pattern
// internal/stepexec uses for a job's own steps — a batch backend is just
// another process to supervise, not a bespoke network client.
type ExecQueue struct {
	// SubmitCmd is run through `sh -c`; the job script is piped to its
	// stdin and its stdout, trimmed, becomes the external job id.
	SubmitCmd string
	// PollCmd is run through `sh -c "<PollCmd> <externalID>"`; its trimmed
	// stdout is mapped to a Status by parseState.
	PollCmd string
}

// Submit renders a minimal shell script naming job and hands it to
// SubmitCmd, returning whatever id the scheduler prints back.
func (q *ExecQueue) Submit(job *workflowfile.JobSpec) (string, error) {
	if q.SubmitCmd == "" {
		return "", fmt.Errorf("no batch submit command configured (set batch_submit_cmd in kuristo.json)")
	}

	script := fmt.Sprintf("#!/bin/sh\n# kuristo job %s\n", job.ID)

	cmd := exec.Command("sh", "-c", q.SubmitCmd) //nolint:gosec // command comes from trusted local config
	cmd.Stdin = strings.NewReader(script)
	var out bytes.Buffer
	cmd.Stdout = &out
	var errOut bytes.Buffer
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("batch submit command failed: %w: %s", err, errOut.String())
	}

	id := strings.TrimSpace(out.String())
	if id == "" {
		return "", fmt.Errorf("batch submit command produced no job id")
	}
	return id, nil
}

// Poll runs PollCmd against externalID and maps its output to a Status.
func (q *ExecQueue) Poll(externalID string) (Status, error) {
	if q.PollCmd == "" {
		return StatusSubmitted, fmt.Errorf("no batch poll command configured (set batch_poll_cmd in kuristo.json)")
	}

	cmd := exec.Command("sh", "-c", fmt.Sprintf("%s %s", q.PollCmd, externalID)) //nolint:gosec // command comes from trusted local config
	var out bytes.Buffer
	cmd.Stdout = &out
	var errOut bytes.Buffer
	cmd.Stderr = &errOut

	if err := cmd.Run(); err != nil {
		return StatusFailed, fmt.Errorf("batch poll command failed: %w: %s", err, errOut.String())
	}

	return parseState(strings.TrimSpace(out.String())), nil
}

// parseState maps the common Slurm/PBS job-state vocabulary onto Status.
// An unrecognized state is treated as still submitted/pending rather than
// failing the poll outright.
func parseState(s string) Status {
	switch strings.ToUpper(s) {
	case "COMPLETED", "COMPLETING", "CD":
		return StatusDone
	case "RUNNING", "R":
		return StatusRunning
	case "FAILED", "CANCELLED", "TIMEOUT", "NODE_FAIL", "F", "CA":
		return StatusFailed
	default:
		return StatusSubmitted
	}
}
