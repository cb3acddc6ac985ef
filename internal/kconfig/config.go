// Package kconfig loads kuristo's runner configuration: the core budget,
// the run-log root, the MPI launcher path, and the retention count. It
// merges a repo-local file over built-in defaults, then applies the
// KURISTO_CORES environment override, mirroring the resolution order
// (defaults < local config < env) the teacher's internal/persistence
// config loader uses for DETENT_HOME/detent.json.
package kconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrsd/kuristo/internal/resources"
)

// CoresEnv overrides the core budget for this invocation (testing, CI
// runners with an explicit allocation).
const CoresEnv = "KURISTO_CORES"

// fileName is the repo-local config file kconfig looks for, analogous to
// the teacher's detent.json.
const fileName = "kuristo.json"

// OnFatal is the type of Config.OnFatal, a hook a CLI entrypoint can set
// (e.g. to a Sentry capture function) without this package importing Sentry
// — the same inversion as the teacher's
// tools.DefaultUnsupportedToolsReporter. Load does not invoke it: its
// errors are returned to the caller.
type OnFatal func(error)

// fileConfig is the on-disk shape of kuristo.json; all fields optional.
type fileConfig struct {
	Cores          *int   `json:"cores,omitempty"`
	LogRoot        string `json:"log_root,omitempty"`
	MPILauncher    string `json:"mpi_launcher,omitempty"`
	RetentionRuns  *int   `json:"retention_runs,omitempty"`
	BatchSubmitCmd string `json:"batch_submit_cmd,omitempty"`
	BatchPollCmd   string `json:"batch_poll_cmd,omitempty"`
}

// Config is the resolved, ready-to-use runner configuration.
type Config struct {
	Cores         int
	LogRoot       string
	MPILauncher   string
	RetentionRuns int

	// BatchSubmitCmd/BatchPollCmd configure internal/batch.ExecQueue: the
	// external command line used to submit a job script and to poll a
	// submitted job's state (e.g. "sbatch --parsable", "squeue -h -j").
	BatchSubmitCmd string
	BatchPollCmd   string

	OnFatal OnFatal
}

const (
	defaultLogRoot       = ".kuristo"
	defaultMPILauncher   = "mpiexec"
	defaultRetentionRuns = 50
)

// Load resolves Config for repoRoot (the directory kuristo.json is looked
// up in; pass "" to skip the local file and use defaults+env only).
func Load(repoRoot string) (*Config, error) {
	cfg := &Config{
		Cores:         resources.DefaultMax(),
		LogRoot:       defaultLogRoot,
		MPILauncher:   defaultMPILauncher,
		RetentionRuns: defaultRetentionRuns,
	}

	if repoRoot != "" {
		local, err := loadFile(filepath.Join(repoRoot, fileName))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", fileName, err)
		}
		applyFile(cfg, local)
	}

	if raw := os.Getenv(CoresEnv); raw != "" {
		n, err := parsePositiveInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%s=%q: %w", CoresEnv, raw, err)
		}
		cfg.Cores = n
	}

	return cfg, nil
}

func loadFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &fc, nil
}

func applyFile(cfg *Config, fc *fileConfig) {
	if fc == nil {
		return
	}
	if fc.Cores != nil {
		cfg.Cores = *fc.Cores
	}
	if fc.LogRoot != "" {
		cfg.LogRoot = fc.LogRoot
	}
	if fc.MPILauncher != "" {
		cfg.MPILauncher = fc.MPILauncher
	}
	if fc.RetentionRuns != nil {
		cfg.RetentionRuns = *fc.RetentionRuns
	}
	if fc.BatchSubmitCmd != "" {
		cfg.BatchSubmitCmd = fc.BatchSubmitCmd
	}
	if fc.BatchPollCmd != "" {
		cfg.BatchPollCmd = fc.BatchPollCmd
	}
}

func parsePositiveInt(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return n, nil
}
