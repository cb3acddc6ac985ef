package rundir

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewRunID_IsSortableAndUnique(t *testing.T) {
	now := time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
	a := NewRunID(now)
	b := NewRunID(now)

	if a == b {
		t.Errorf("NewRunID() produced identical ids for two calls: %q", a)
	}
	if len(a) < len("20260731-120000-") {
		t.Errorf("NewRunID() = %q, want a timestamp-prefixed id", a)
	}
}

func TestEnsureAndSwingLatest(t *testing.T) {
	logRoot := t.TempDir()
	layout := New(logRoot, "run-1")

	if err := layout.Ensure(); err != nil {
		t.Fatalf("Ensure() error = %v, want nil", err)
	}
	if _, err := os.Stat(layout.RunDir()); err != nil {
		t.Fatalf("run dir not created: %v", err)
	}

	if err := layout.SwingLatest(); err != nil {
		t.Fatalf("SwingLatest() error = %v, want nil", err)
	}

	got := LatestRunID(logRoot)
	if got != "run-1" {
		t.Errorf("LatestRunID() = %q, want %q", got, "run-1")
	}
}

func TestSwingLatest_RepointsToNewestRun(t *testing.T) {
	logRoot := t.TempDir()

	first := New(logRoot, "run-1")
	_ = first.Ensure()
	_ = first.SwingLatest()

	second := New(logRoot, "run-2")
	_ = second.Ensure()
	if err := second.SwingLatest(); err != nil {
		t.Fatalf("SwingLatest() error = %v, want nil", err)
	}

	if got := LatestRunID(logRoot); got != "run-2" {
		t.Errorf("LatestRunID() = %q, want %q", got, "run-2")
	}
}

func TestTagAndListTags(t *testing.T) {
	logRoot := t.TempDir()
	layout := New(logRoot, "run-1")
	_ = layout.Ensure()

	if err := layout.Tag("release"); err != nil {
		t.Fatalf("Tag() error = %v, want nil", err)
	}

	tags, err := ListTags(logRoot)
	if err != nil {
		t.Fatalf("ListTags() error = %v, want nil", err)
	}
	if len(tags) != 1 || tags[0] != "release" {
		t.Errorf("ListTags() = %v, want [release]", tags)
	}

	targets, err := TagTargets(logRoot)
	if err != nil {
		t.Fatalf("TagTargets() error = %v, want nil", err)
	}
	if targets["release"] != "run-1" {
		t.Errorf("TagTargets()[release] = %q, want %q", targets["release"], "run-1")
	}
}

func TestDeleteTag_RemovesTagSymlink(t *testing.T) {
	logRoot := t.TempDir()
	layout := New(logRoot, "run-1")
	_ = layout.Ensure()
	_ = layout.Tag("release")

	if err := DeleteTag(logRoot, "release"); err != nil {
		t.Fatalf("DeleteTag() error = %v, want nil", err)
	}

	tags, err := ListTags(logRoot)
	if err != nil {
		t.Fatalf("ListTags() error = %v, want nil", err)
	}
	if len(tags) != 0 {
		t.Errorf("ListTags() = %v, want empty after delete", tags)
	}
}

func TestDeleteTag_MissingTagIsNotAnError(t *testing.T) {
	logRoot := t.TempDir()
	if err := DeleteTag(logRoot, "nonexistent"); err != nil {
		t.Errorf("DeleteTag() error = %v, want nil for a nonexistent tag", err)
	}
}

func TestResolveRunID_EmptyAndLatestResolveSymlink(t *testing.T) {
	logRoot := t.TempDir()
	layout := New(logRoot, "run-1")
	_ = layout.Ensure()
	_ = layout.SwingLatest()

	for _, name := range []string{"", "latest"} {
		got, err := ResolveRunID(logRoot, name)
		if err != nil {
			t.Fatalf("ResolveRunID(%q) error = %v, want nil", name, err)
		}
		if got != "run-1" {
			t.Errorf("ResolveRunID(%q) = %q, want %q", name, got, "run-1")
		}
	}
}

func TestResolveRunID_ExplicitNamePassesThrough(t *testing.T) {
	got, err := ResolveRunID(t.TempDir(), "run-42")
	if err != nil {
		t.Fatalf("ResolveRunID() error = %v, want nil", err)
	}
	if got != "run-42" {
		t.Errorf("ResolveRunID() = %q, want %q", got, "run-42")
	}
}

func TestResolveRunID_NoRunsIsError(t *testing.T) {
	_, err := ResolveRunID(t.TempDir(), "")
	if err == nil {
		t.Fatal("ResolveRunID() error = nil, want error when no runs exist")
	}
}

func TestListRuns_SortedChronologically(t *testing.T) {
	logRoot := t.TempDir()
	_ = New(logRoot, "20260101-000000-aaa").Ensure()
	_ = New(logRoot, "20260201-000000-bbb").Ensure()

	runs, err := ListRuns(logRoot)
	if err != nil {
		t.Fatalf("ListRuns() error = %v, want nil", err)
	}
	if len(runs) != 2 || runs[0] != "20260101-000000-aaa" || runs[1] != "20260201-000000-bbb" {
		t.Errorf("ListRuns() = %v, want chronological order", runs)
	}
}

func TestListRuns_NoRunsDirReturnsEmpty(t *testing.T) {
	runs, err := ListRuns(t.TempDir())
	if err != nil {
		t.Fatalf("ListRuns() error = %v, want nil", err)
	}
	if len(runs) != 0 {
		t.Errorf("ListRuns() = %v, want empty", runs)
	}
}

func TestPrune_KeepsNewestAndSkipsTagged(t *testing.T) {
	logRoot := t.TempDir()
	ids := []string{"20260101-000000-aaa", "20260102-000000-bbb", "20260103-000000-ccc"}
	for _, id := range ids {
		_ = New(logRoot, id).Ensure()
	}
	_ = New(logRoot, ids[0]).Tag("keep-me")

	removed, err := Prune(logRoot, 1)
	if err != nil {
		t.Fatalf("Prune() error = %v, want nil", err)
	}

	for _, id := range removed {
		if id == ids[0] {
			t.Errorf("Prune() removed tagged run %q", id)
		}
	}

	if _, err := os.Stat(filepath.Join(logRoot, "runs", ids[2])); err != nil {
		t.Errorf("newest run %q was pruned, want kept", ids[2])
	}
}
