package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bracecheck/internal/driver"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the on-disk result cache",
		Long:  "Remove every cached scan result under $XDG_CACHE_HOME/bracecheck (or ~/.cache/bracecheck).",
		Args:  cobra.NoArgs,
		RunE:  runClean,
	}
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache(cacheAppName)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to open cache: %w", err)}
	}
	if err := cache.DropAll(); err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)}
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	return nil
}
