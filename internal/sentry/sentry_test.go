package sentry

import "testing"

func TestInit_NoDSNReturnsNoOpCleanup(t *testing.T) {
	t.Setenv("SENTRY_DSN", "")

	cleanup := Init("1.0.0")
	if cleanup == nil {
		t.Fatal("Init() returned nil cleanup, want a no-op func")
	}
	cleanup() // must not panic
}

func TestCaptureError_NilIsSafe(t *testing.T) {
	CaptureError(nil) // must not panic
}
