package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/registry"
	"github.com/andrsd/kuristo/internal/resources"
	"github.com/andrsd/kuristo/internal/rundir"
	"github.com/andrsd/kuristo/internal/stepexec"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Print a diagnostic report of the runner environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		printDoctorReport()
		return nil
	},
}

func printDoctorReport() {
	fmt.Printf("%sKuristo Diagnostic Report%s\n\n", ansiCyan, ansiReset)

	fmt.Println("General")
	fmt.Printf("  Version          %s%s%s\n", ansiCyan, Version, ansiReset)
	fmt.Printf("  Platform         %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go runtime       %s\n", runtime.Version())
	fmt.Printf("  Log directory    %s\n", filepath.Join(cfg.LogRoot, "runs"))
	latest := rundir.LatestRunID(cfg.LogRoot)
	if latest == "" {
		latest = "none"
	}
	fmt.Printf("  Latest run       %s\n", latest)
	fmt.Println()

	fmt.Println("Resources")
	fmt.Printf("  Cores (max used) %s%d%s\n", ansiCyan, cfg.Cores, ansiReset)
	fmt.Printf("  System cores     %d\n", resources.DefaultMax())
	fmt.Println()

	fmt.Println("Retention")
	fmt.Printf("  Keep runs        %d\n", cfg.RetentionRuns)
	fmt.Printf("  MPI launcher     %s\n", cfg.MPILauncher)
	fmt.Println()

	reg := registry.New()
	stepexec.RegisterBuiltins(reg, cfg.MPILauncher)

	fmt.Println("Actions registered")
	printSortedNames(reg.ActionNames())
	fmt.Println()

	fmt.Println("Functions registered")
	printSortedNames(reg.FunctionNames())
}

func printSortedNames(names []string) {
	if len(names) == 0 {
		fmt.Printf("  %s(none)%s\n", ansiGrey, ansiReset)
		return
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s•%s %s%s%s\n", ansiGrey, ansiReset, ansiGreen, n, ansiReset)
	}
}
