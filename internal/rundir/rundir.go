// Package rundir manages the on-disk run artifact layout: one directory per
// run under <logroot>/runs/<runid>/, a `runs/latest` symlink swung under an
// advisory lock, and `tags/<tagname>` symlinks protecting runs from
// retention pruning. Grounded on the run-id/lockfile concerns the teacher's
// internal/persistence handles with a hand-rolled UUID and no locking; here
// google/uuid and nightlyone/lockfile (both already in the teacher's
// dependency closet) take over those two jobs.
package rundir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/nightlyone/lockfile"
)

// Layout is rooted at logRoot and exposes the directories/files for one run.
type Layout struct {
	logRoot string
	runID   string
}

// NewRunID returns a fresh, sortable run identifier: a timestamp prefix
// (for human-readable ordering under runs/) plus a uuid suffix to guarantee
// uniqueness across concurrent invocations on the same host/second.
func NewRunID(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

// New returns a Layout for runID under logRoot.
func New(logRoot, runID string) *Layout {
	return &Layout{logRoot: logRoot, runID: runID}
}

// RunDir is <logroot>/runs/<runid>.
func (l *Layout) RunDir() string {
	return filepath.Join(l.logRoot, "runs", l.runID)
}

// JobLogPath is <logroot>/runs/<runid>/job-<n>.log for the nth job admitted.
func (l *Layout) JobLogPath(n int) string {
	return filepath.Join(l.RunDir(), fmt.Sprintf("job-%d.log", n))
}

// ReportYAMLPath is <logroot>/runs/<runid>/report.yaml.
func (l *Layout) ReportYAMLPath() string {
	return filepath.Join(l.RunDir(), "report.yaml")
}

// ReportCSVPath is <logroot>/runs/<runid>/report.csv.
func (l *Layout) ReportCSVPath() string {
	return filepath.Join(l.RunDir(), "report.csv")
}

// Ensure creates the run directory (and its logroot/runs parent) if absent.
func (l *Layout) Ensure() error {
	if err := os.MkdirAll(l.RunDir(), 0o755); err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	return nil
}

// latestLockPath is the advisory lock guarding the runs/latest symlink swing,
// preventing two concurrent `kuristo run` invocations from racing on it.
func latestLockPath(logRoot string) string {
	return filepath.Join(logRoot, "runs", ".latest.lock")
}

// SwingLatest atomically repoints <logroot>/runs/latest at this run,
// holding an advisory file lock for the duration of the swing.
func (l *Layout) SwingLatest() error {
	lock, err := lockfile.New(latestLockPath(l.logRoot))
	if err != nil {
		return fmt.Errorf("constructing latest lock: %w", err)
	}
	if err := lock.TryLock(); err != nil {
		return fmt.Errorf("locking runs/latest: %w", err)
	}
	defer lock.Unlock()

	latest := filepath.Join(l.logRoot, "runs", "latest")
	tmp := latest + ".tmp"
	_ = os.Remove(tmp)
	if err := os.Symlink(l.RunDir(), tmp); err != nil {
		return fmt.Errorf("creating latest symlink: %w", err)
	}
	if err := os.Rename(tmp, latest); err != nil {
		return fmt.Errorf("swinging latest symlink: %w", err)
	}
	return nil
}

// Tag creates <logroot>/tags/<name> pointing at this run, protecting it from
// retention pruning.
func (l *Layout) Tag(name string) error {
	tagsDir := filepath.Join(l.logRoot, "tags")
	if err := os.MkdirAll(tagsDir, 0o755); err != nil {
		return fmt.Errorf("creating tags directory: %w", err)
	}
	path := filepath.Join(tagsDir, name)
	_ = os.Remove(path)
	if err := os.Symlink(l.RunDir(), path); err != nil {
		return fmt.Errorf("tagging run %q as %q: %w", l.runID, name, err)
	}
	return nil
}

// DeleteTag removes a tag symlink, making the run it pointed at eligible for
// pruning again.
func DeleteTag(logRoot, name string) error {
	path := filepath.Join(logRoot, "tags", name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting tag %q: %w", name, err)
	}
	return nil
}

// ListTags returns the tag names currently defined under logRoot.
func ListTags(logRoot string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(logRoot, "tags"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// TagTargets returns every tag name defined under logRoot mapped to the run
// id it points at, for the `tag list` command.
func TagTargets(logRoot string) (map[string]string, error) {
	tags, err := ListTags(logRoot)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(tags))
	for _, name := range tags {
		target, err := os.Readlink(filepath.Join(logRoot, "tags", name))
		if err != nil {
			continue
		}
		out[name] = filepath.Base(target)
	}
	return out, nil
}

// tagTargets resolves every tag symlink under logRoot to the run directory
// it protects.
func tagTargets(logRoot string) (map[string]bool, error) {
	tags, err := ListTags(logRoot)
	if err != nil {
		return nil, err
	}
	protected := make(map[string]bool, len(tags))
	for _, name := range tags {
		target, err := os.Readlink(filepath.Join(logRoot, "tags", name))
		if err != nil {
			continue
		}
		protected[filepath.Base(target)] = true
	}
	return protected, nil
}

// ResolveRunID maps a user-supplied run name to a concrete run id: "" or
// "latest" resolves the `runs/latest` symlink's target, anything else is
// returned unchanged (the caller still has to verify it exists).
func ResolveRunID(logRoot, name string) (string, error) {
	if name == "" || name == "latest" {
		target, err := os.Readlink(filepath.Join(logRoot, "runs", "latest"))
		if err != nil {
			return "", fmt.Errorf("no runs found under %q: %w", logRoot, err)
		}
		return filepath.Base(target), nil
	}
	return name, nil
}

// ListRuns returns every run id under <logroot>/runs, oldest first (run ids
// are timestamp-prefixed, so lexical order is chronological).
func ListRuns(logRoot string) ([]string, error) {
	runsDir := filepath.Join(logRoot, "runs")
	entries, err := os.ReadDir(runsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var runIDs []string
	for _, e := range entries {
		if e.IsDir() {
			runIDs = append(runIDs, e.Name())
		}
	}
	sort.Strings(runIDs)
	return runIDs, nil
}

// LatestRunID returns the run id `runs/latest` currently points at, or "" if
// no run has completed yet.
func LatestRunID(logRoot string) string {
	target, err := os.Readlink(filepath.Join(logRoot, "runs", "latest"))
	if err != nil {
		return ""
	}
	return filepath.Base(target)
}

// Prune removes the oldest run directories under <logroot>/runs beyond
// keepCount, skipping any run currently protected by a tag.
func Prune(logRoot string, keepCount int) ([]string, error) {
	runsDir := filepath.Join(logRoot, "runs")
	entries, err := os.ReadDir(runsDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	var runIDs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		runIDs = append(runIDs, e.Name())
	}
	sort.Strings(runIDs) // run ids are timestamp-prefixed, so lexical order is chronological

	protected, err := tagTargets(logRoot)
	if err != nil {
		return nil, err
	}

	var removed []string
	cutoff := len(runIDs) - keepCount
	for i := 0; i < cutoff; i++ {
		id := runIDs[i]
		if protected[id] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(runsDir, id)); err != nil {
			return removed, fmt.Errorf("pruning run %q: %w", id, err)
		}
		removed = append(removed, id)
	}

	return removed, nil
}
