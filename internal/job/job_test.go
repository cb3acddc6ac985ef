package job

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/andrsd/kuristo/internal/progress"
	"github.com/andrsd/kuristo/internal/stepexec"
)

type fakeStep struct {
	cmd            string
	rc             int
	err            error
	timeoutMinutes float64
}

func (s fakeStep) Command() (string, error)             { return s.cmd, nil }
func (s fakeStep) Run(ctx context.Context) (int, error) { return s.rc, s.err }
func (s fakeStep) NumCores() int                        { return 1 }
func (s fakeStep) TimeoutMinutes() float64              { return s.timeoutMinutes }

func TestRun_AllStepsSucceedFinishesWithZeroReturnCode(t *testing.T) {
	j := New("j1", "build", []stepexec.Step{
		fakeStep{cmd: "step1", rc: 0},
		fakeStep{cmd: "step2", rc: 0},
	}, 1, nil)

	var log bytes.Buffer
	result := j.Run(context.Background(), &log, progress.NoOp{})

	if result.Status != Finished {
		t.Errorf("Status = %v, want Finished", result.Status)
	}
	if result.ReturnCode != 0 {
		t.Errorf("ReturnCode = %d, want 0", result.ReturnCode)
	}
}

func TestRun_FailingStepAggregatesNonZeroReturnCode(t *testing.T) {
	j := New("j1", "build", []stepexec.Step{
		fakeStep{cmd: "step1", rc: 1},
	}, 1, nil)

	var log bytes.Buffer
	result := j.Run(context.Background(), &log, progress.NoOp{})

	if result.ReturnCode == 0 {
		t.Error("ReturnCode = 0, want nonzero after a failing step")
	}
}

func TestRun_ContinueOnStepFailureRunsRemainingSteps(t *testing.T) {
	step1 := fakeStep{cmd: "step1", rc: 1}
	j := New("j1", "build", []stepexec.Step{step1, step1}, 1, nil)
	j.ContinueOnStepFailure = true

	var log bytes.Buffer
	j.Run(context.Background(), &log, progress.NoOp{})

	ran := bytes.Count(log.Bytes(), []byte("TASK_START"))
	if ran != 2 {
		t.Errorf("TASK_START count = %d, want 2 (both steps should run)", ran)
	}
}

func TestRun_ShortCircuitsWhenContinueOnStepFailureFalse(t *testing.T) {
	step1 := fakeStep{cmd: "step1", rc: 1}
	j := New("j1", "build", []stepexec.Step{step1, step1}, 1, nil)
	j.ContinueOnStepFailure = false

	var log bytes.Buffer
	j.Run(context.Background(), &log, progress.NoOp{})

	ran := bytes.Count(log.Bytes(), []byte("TASK_START"))
	if ran != 1 {
		t.Errorf("TASK_START count = %d, want 1 (should stop after first failure)", ran)
	}
}

func TestSkip_TransitionsWaitingToSkipped(t *testing.T) {
	j := New("j1", "build", nil, 1, nil)
	var log bytes.Buffer

	j.Skip(&log, "too big")

	if j.Status() != Skipped {
		t.Errorf("Status() = %v, want Skipped", j.Status())
	}
	if got := log.String(); got != "SKIP j1: too big\n" {
		t.Errorf("log = %q, want %q", got, "SKIP j1: too big\n")
	}
}

func TestRun_LogsStepRunErrorAsTaskFailure(t *testing.T) {
	step := fakeStep{cmd: "bad", rc: 0, err: fmt.Errorf("boom")}
	j := New("j1", "build", []stepexec.Step{step}, 1, nil)

	var log bytes.Buffer
	result := j.Run(context.Background(), &log, progress.NoOp{})

	if result.Status != Finished {
		t.Errorf("Status = %v, want Finished", result.Status)
	}
	if got := log.String(); !bytes.Contains([]byte(got), []byte("error=boom")) {
		t.Errorf("log = %q, want it to contain the step's run error", got)
	}
}
