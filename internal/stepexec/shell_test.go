package stepexec

import (
	"context"
	"testing"
	"time"

	"github.com/andrsd/kuristo/internal/runctx"
	"github.com/andrsd/kuristo/internal/workflowfile"
)

func TestShellStep_Command_InterpolatesMatrixBinding(t *testing.T) {
	rctx := runctx.New(map[string]any{"os": "linux"}, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "echo ${{ matrix.os }}"}, rctx, 1)

	cmd, err := step.Command()
	if err != nil {
		t.Fatalf("Command() error = %v, want nil", err)
	}
	if cmd != "echo linux" {
		t.Errorf("Command() = %q, want %q", cmd, "echo linux")
	}
}

func TestShellStep_Run_SuccessReturnsZero(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "true"}, rctx, 1)

	rc, err := step.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if rc != 0 {
		t.Errorf("Run() rc = %d, want 0", rc)
	}
}

func TestShellStep_Run_NonZeroExitIsReturnedNotErrored(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "exit 7"}, rctx, 1)

	rc, err := step.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (nonzero exit is not a Go error)", err)
	}
	if rc != 7 {
		t.Errorf("Run() rc = %d, want 7", rc)
	}
}

func TestShellStep_Run_RecordsOutputWhenIDSet(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{ID: "greet", Run: "echo hello"}, rctx, 1)

	if _, err := step.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	out, err := rctx.Interpolate("${{ steps.greet.output }}")
	if err != nil {
		t.Fatalf("Interpolate() error = %v, want nil", err)
	}
	if out != "hello\n" {
		t.Errorf("recorded output = %q, want %q", out, "hello\n")
	}
}

func TestShellStep_Run_TimeoutKillsProcessGroup(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "sleep 5"}, rctx, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	rc, err := step.Run(ctx)
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("Run() error = nil, want an error recording the timeout")
	}
	if err.Error() != "Step timed out" {
		t.Errorf("Run() error = %q, want %q", err.Error(), "Step timed out")
	}
	if rc != timeoutExitCode {
		t.Errorf("Run() rc = %d, want %d", rc, timeoutExitCode)
	}
	if elapsed > gracefulShutdownTimeout+2*time.Second {
		t.Errorf("Run() took %v, want at most the graceful shutdown window plus 2s", elapsed)
	}
}

func TestShellStep_Run_SpawnFailureReturnsDistinctCode(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "true", Shell: "/nonexistent-shell-binary"}, rctx, 1)

	rc, err := step.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want error for a missing shell binary")
	}
	if rc != spawnFailureExitCode {
		t.Errorf("Run() rc = %d, want %d", rc, spawnFailureExitCode)
	}
}

func TestShellStep_TimeoutMinutes_DefaultsWhenUnset(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "true"}, rctx, 1)

	if got := step.TimeoutMinutes(); got != defaultTimeoutMinutes {
		t.Errorf("TimeoutMinutes() = %v, want %v", got, defaultTimeoutMinutes)
	}
}

func TestShellStep_NumCores(t *testing.T) {
	rctx := runctx.New(nil, nil)
	step := NewShellStep(&workflowfile.StepSpec{Run: "true"}, rctx, 3)

	if got := step.NumCores(); got != 3 {
		t.Errorf("NumCores() = %d, want 3", got)
	}
}
