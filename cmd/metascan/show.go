package main

import (
	"fmt"

	"github.com/fwojciec/metascan"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		if metascan.ErrorCode(err) == metascan.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'metascan history' to see saved runs.\n", c.ID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
		}
		return err
	}

	if c.JSON {
		return writeJSON(deps.Stdout, run)
	}

	fmt.Fprintf(deps.Stdout, "Run %s (%s, %s)\n\n", run.ID, run.Variant, run.Mode)
	writeResult(deps.Stdout, run.Result)
	return nil
}
