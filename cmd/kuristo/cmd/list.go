package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrsd/kuristo/internal/workflowfile"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every job discovered under --location",
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := workflowfile.ParseAll(locations)
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(specs))
		for id := range specs {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			spec := specs[id]
			name := spec.Name
			if name == "" {
				name = id
			}
			fmt.Printf("%s•%s %s%s%s: %s%s%s\n", ansiGrey, ansiReset, ansiCyan, name, ansiReset, ansiGrey, spec.Description, ansiReset)
		}

		fmt.Println()
		fmt.Printf("Found jobs: %s%d%s\n", ansiGreen, len(ids), ansiReset)
		return nil
	},
}
