package workflowfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// maxFileSizeBytes bounds how large a single ktests.yaml may be before it is
// rejected outright, a defense against resource exhaustion from a malformed
// or hostile file dropped into a scanned location.
const maxFileSizeBytes = 1 * 1024 * 1024

// Discover finds all ktests.yaml / ktests.yml files directly inside dir.
// Symlinks are skipped; only regular files with a .yml/.yaml extension and
// a "ktests" basename are considered workflow files.
func Discover(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("workflow location cannot be empty")
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving workflow location: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading workflow location %q: %w", dir, err)
	}

	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ext)
		if base != "ktests" {
			continue
		}

		full := filepath.Join(dir, entry.Name())
		abs, err := filepath.Abs(full)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absDir, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		found = append(found, full)
	}

	return found, nil
}

// Parse reads and decodes a single ktests.yaml file, stamping each JobSpec
// with its identifier (the map key) and the originating path.
func Parse(path string) (map[string]*JobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow file: %w", err)
	}

	if len(data) > maxFileSizeBytes {
		return nil, fmt.Errorf("workflow file %q exceeds maximum size of %d bytes", path, maxFileSizeBytes)
	}
	if bytes.Contains(data, []byte{0x00}) {
		return nil, fmt.Errorf("workflow file %q contains null bytes", path)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing workflow file %q: %w", path, err)
	}

	for id, job := range f.Jobs {
		if job == nil {
			return nil, fmt.Errorf("workflow file %q: job %q has no body", path, id)
		}
		job.ID = id
		job.SourceFile = path
	}

	return f.Jobs, nil
}

// ParseAll discovers and parses every workflow file under each of locations,
// merging the resulting job tables. A job identifier that repeats across
// files is rejected: identifiers must be unique across the whole set of
// locations being run together. Repeats within a single file are not
// checked here; the YAML decoder has already resolved them in Parse.
func ParseAll(locations []string) (map[string]*JobSpec, error) {
	all := make(map[string]*JobSpec)

	for _, loc := range locations {
		files, err := Discover(loc)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			jobs, err := Parse(path)
			if err != nil {
				return nil, err
			}
			for id, job := range jobs {
				if existing, ok := all[id]; ok {
					return nil, fmt.Errorf(
						"duplicate job id %q defined in both %q and %q",
						id, existing.SourceFile, job.SourceFile,
					)
				}
				all[id] = job
			}
		}
	}

	return all, nil
}
