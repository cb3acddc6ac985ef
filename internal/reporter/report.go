// Package reporter writes report.yaml (and optionally report.csv) after a
// run terminates, per spec §4.9. YAML marshaling reuses goccy/go-yaml, the
// same library the teacher parses workflow files with.
package reporter

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/andrsd/kuristo/internal/job"
)

// ResultRecord is one job's entry in report.yaml's results list.
type ResultRecord struct {
	ID         string  `yaml:"id"`
	JobName    string  `yaml:"job_name"`
	Status     string  `yaml:"status"`
	Reason     string  `yaml:"reason,omitempty"`
	ReturnCode *int    `yaml:"return_code,omitempty"`
	Duration   *float64 `yaml:"duration,omitempty"`
}

// Report is the top-level report.yaml shape.
type Report struct {
	Results      []ResultRecord `yaml:"results"`
	TotalRuntime float64        `yaml:"total_runtime"`
}

// Build assembles a Report from terminal job results and the wall-clock
// duration of the whole run.
func Build(results []job.Result, totalRuntime time.Duration) Report {
	out := Report{
		Results:      make([]ResultRecord, 0, len(results)),
		TotalRuntime: round3(totalRuntime.Seconds()),
	}

	for _, r := range results {
		rec := ResultRecord{ID: r.ID, JobName: r.Name}
		if r.Status == job.Skipped {
			rec.Status = "skipped"
			rec.Reason = r.Reason
		} else {
			if r.ReturnCode == 0 {
				rec.Status = "success"
			} else {
				rec.Status = "failed"
			}
			rc := r.ReturnCode
			rec.ReturnCode = &rc
			d := round3(r.Duration.Seconds())
			rec.Duration = &d
		}
		out.Results = append(out.Results, rec)
	}

	return out
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// ReadYAML loads a report.yaml previously written by WriteYAML, used by the
// `status` and `log` commands to summarize a past run without re-running it.
func ReadYAML(path string) (Report, error) {
	var report Report
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("parsing %s: %w", path, err)
	}
	return report, nil
}

// WriteYAML marshals report to path as YAML.
func WriteYAML(path string, report Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report.yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes the same data as rows: id, name, status, duration, return
// code.
func WriteCSV(path string, report Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"id", "name", "status", "duration", "return_code"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range report.Results {
		duration := ""
		if r.Duration != nil {
			duration = strconv.FormatFloat(*r.Duration, 'f', 3, 64)
		}
		returnCode := ""
		if r.ReturnCode != nil {
			returnCode = strconv.Itoa(*r.ReturnCode)
		}
		row := []string{r.ID, r.JobName, r.Status, duration, returnCode}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %q: %w", r.ID, err)
		}
	}

	return nil
}
