package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/metascan"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := metascan.RunFilter{Limit: c.Limit}
	if c.Variant != "" {
		variant, err := metascan.ParseVariant(c.Variant)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
			return err
		}
		filter.Variant = &variant
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'metascan scan' to create one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-9s  %d records, %d errors\n",
			r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Variant, r.Records, r.Errors)
	}

	return nil
}
