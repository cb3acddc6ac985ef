package runctx

import "testing"

func TestInterpolate_NoPlaceholderReturnsUnchanged(t *testing.T) {
	ctx := New(nil, nil)
	out, err := ctx.Interpolate("echo hello")
	if err != nil {
		t.Fatalf("Interpolate() error = %v, want nil", err)
	}
	if out != "echo hello" {
		t.Errorf("Interpolate() = %q, want %q", out, "echo hello")
	}
}

func TestInterpolate_MatrixBinding(t *testing.T) {
	ctx := New(map[string]any{"os": "linux"}, nil)
	out, err := ctx.Interpolate("build on ${{ matrix.os }}")
	if err != nil {
		t.Fatalf("Interpolate() error = %v, want nil", err)
	}
	if out != "build on linux" {
		t.Errorf("Interpolate() = %q, want %q", out, "build on linux")
	}
}

func TestInterpolate_StepOutput(t *testing.T) {
	ctx := New(nil, nil)
	ctx.RecordStepOutput("compile", "ok\n")

	out, err := ctx.Interpolate("result: ${{ steps.compile.output }}")
	if err != nil {
		t.Fatalf("Interpolate() error = %v, want nil", err)
	}
	if out != "result: ok\n" {
		t.Errorf("Interpolate() = %q, want %q", out, "result: ok\n")
	}
}

func TestInterpolate_MissingPathResolvesEmpty(t *testing.T) {
	ctx := New(nil, nil)
	out, err := ctx.Interpolate("value: [${{ matrix.missing }}]")
	if err != nil {
		t.Fatalf("Interpolate() error = %v, want nil", err)
	}
	if out != "value: []" {
		t.Errorf("Interpolate() = %q, want %q", out, "value: []")
	}
}

func TestInterpolate_UnclosedPlaceholderIsError(t *testing.T) {
	ctx := New(nil, nil)
	_, err := ctx.Interpolate("broken ${{ matrix.os")
	if err == nil {
		t.Fatal("Interpolate() error = nil, want error for unclosed placeholder")
	}
}

func TestInterpolate_EmptyPlaceholderIsError(t *testing.T) {
	ctx := New(nil, nil)
	_, err := ctx.Interpolate("empty ${{ }}")
	if err == nil {
		t.Fatal("Interpolate() error = nil, want error for empty placeholder")
	}
}

func TestRecordStepOutput_IgnoresEmptyID(t *testing.T) {
	ctx := New(nil, nil)
	ctx.RecordStepOutput("", "should not be stored")

	out, err := ctx.Interpolate("${{ steps }}")
	if err != nil {
		t.Fatalf("Interpolate() error = %v, want nil", err)
	}
	if out != "{}" {
		t.Errorf("Interpolate() = %q, want %q (no step recorded)", out, "{}")
	}
}

func TestEnv_ReturnsOverlay(t *testing.T) {
	ctx := New(nil, map[string]string{"FOO": "bar"})
	env := ctx.Env()
	if env["FOO"] != "bar" {
		t.Errorf("Env()[\"FOO\"] = %q, want %q", env["FOO"], "bar")
	}
}
