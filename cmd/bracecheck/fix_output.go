package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bracecheck/internal/fix"
)

// applyFixes rewrites the checked files with the suggested fixes and reports
// what changed on stderr. When every finding was fixed the run counts as balanced.
func applyFixes(cmd *cobra.Command, rep *runReport) error {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	res, err := fix.Apply(rep.fileSet, rep.bag.Items())
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		return &exitError{code: exitFailure, err: fmt.Errorf("bracecheck: %w", err)}
	}

	if !quiet {
		out := cmd.ErrOrStderr()
		for _, ch := range res.FileChanges {
			fmt.Fprintf(out, "fixed %s (%d edits)\n", ch.Path, ch.EditCount)
		}
		for _, sk := range res.Skipped {
			fmt.Fprintf(out, "skipped %s: %s\n", sk.ID, sk.Reason)
		}
	}

	if len(res.Applied) == rep.findings {
		rep.unbalanced = false
	}
	return nil
}
