package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/rundir"
)

var (
	tagRunID      string
	tagListFlag   bool
	tagDeleteFlag bool
)

var tagCmd = &cobra.Command{
	Use:   "tag [name]",
	Short: "Add, list, or delete run tags that protect a run from retention pruning",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tagListFlag {
			return listTags()
		}

		if len(args) == 0 {
			return fmt.Errorf("tag name is required")
		}
		name := args[0]

		if tagDeleteFlag {
			if err := rundir.DeleteTag(cfg.LogRoot, name); err != nil {
				return err
			}
			fmt.Printf("Deleted tag '%s%s%s'\n", ansiGreen, name, ansiReset)
			return nil
		}

		runID := tagRunID
		if runID == "" {
			runID = rundir.LatestRunID(cfg.LogRoot)
			if runID == "" {
				return fmt.Errorf("no runs found: cannot tag a nonexistent run")
			}
		}

		layout := rundir.New(cfg.LogRoot, runID)
		if err := layout.Tag(name); err != nil {
			return err
		}
		fmt.Printf("Tagged run '%s%s%s' as '%s%s%s'\n", ansiCyan, runID, ansiReset, ansiGreen, name, ansiReset)
		return nil
	},
}

func init() {
	tagCmd.Flags().StringVar(&tagRunID, "run", "", "run id to tag (defaults to latest)")
	tagCmd.Flags().BoolVarP(&tagListFlag, "list", "l", false, "list all tags")
	tagCmd.Flags().BoolVarP(&tagDeleteFlag, "delete", "d", false, "delete the named tag")
}

func listTags() error {
	targets, err := rundir.TagTargets(cfg.LogRoot)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Printf("%sNo tags found%s\n", ansiGrey, ansiReset)
		return nil
	}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%s%s%s %s->%s %s%s%s\n", ansiGreen, name, ansiReset, ansiGrey, ansiReset, ansiCyan, targets[name], ansiReset)
	}
	return nil
}
