package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/metascan"
	mslog "github.com/fwojciec/metascan/slog"
)

// Run executes the scan command.
func (c *ScanCmd) Run(deps *Dependencies) error {
	input, err := c.input(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
		return err
	}
	if len(metascan.SplitInput(input)) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no URLs given. Pass URLs as arguments or use --file.")
		return metascan.Errorf(metascan.EINVALID, "no URLs given")
	}

	scanner, err := c.newScanner(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
		return err
	}
	if !c.JSON {
		scanner.Progress = func(p metascan.ScanProgress) {
			if p.Error != nil {
				fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", p.URL, metascan.ErrorMessage(p.Error))
			}
		}
	}

	result, err := mslog.NewLoggingRunner(scanner, deps.Logger).RunBatch(deps.Ctx, input)
	var ve *metascan.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(deps.Stderr, "error: not valid URLs: %s\n", strings.Join(ve.Invalid, ", "))
		return err
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", metascan.ErrorMessage(err))
		return err
	}

	var runID string
	if !c.NoSave {
		if runID, err = c.save(deps, input, result); err != nil {
			fmt.Fprintf(deps.Stderr, "error: saving run: %s\n", metascan.ErrorMessage(err))
			return err
		}
	}

	if c.JSON {
		return writeJSON(deps.Stdout, result)
	}
	writeResult(deps.Stdout, result)
	if runID != "" {
		fmt.Fprintf(deps.Stdout, "\nSaved run %s\n", runID)
	}
	return nil
}

// input returns the batch text from arguments, --file, or the saved input,
// in that order of preference.
func (c *ScanCmd) input(deps *Dependencies) (string, error) {
	if len(c.URLs) > 0 {
		return strings.Join(c.URLs, "\n"), nil
	}

	if c.File != "" {
		var data []byte
		var err error
		if c.File == "-" {
			data, err = io.ReadAll(deps.Stdin)
		} else {
			data, err = os.ReadFile(c.File)
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", c.File, err)
		}
		return string(data), nil
	}

	if deps.Inputs == nil {
		return "", nil
	}
	return deps.Inputs.LastInput(deps.Ctx)
}

func (c *ScanCmd) save(deps *Dependencies, input string, result *metascan.BatchResult) (string, error) {
	if deps.Inputs != nil {
		if err := deps.Inputs.SaveInput(deps.Ctx, input); err != nil {
			return "", err
		}
	}
	if deps.Runs == nil {
		return "", nil
	}

	run := &metascan.Run{
		Input:   input,
		Variant: metascan.Variant(c.Variant),
		Mode:    metascan.Mode(c.Mode),
		Result:  result,
	}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}
