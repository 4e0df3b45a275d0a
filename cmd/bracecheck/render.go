package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bracecheck/internal/diagfmt"
	"bracecheck/internal/driver"
	"bracecheck/internal/source"
	"bracecheck/internal/version"
)

type renderFlags struct {
	quiet     bool
	timings   bool
	withNotes bool
	suggest   bool
	preview   bool
	fullPath  bool
}

func readRenderFlags(cmd *cobra.Command) (renderFlags, error) {
	var (
		rf  renderFlags
		err error
	)
	if rf.quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return rf, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if rf.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return rf, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if rf.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return rf, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if rf.suggest, err = cmd.Flags().GetBool("suggest"); err != nil {
		return rf, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if rf.preview, err = cmd.Flags().GetBool("preview"); err != nil {
		return rf, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if rf.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return rf, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	return rf, nil
}

// useColor resolves --color against the writer the output goes to.
func useColor(mode string, w io.Writer) bool {
	return mode == "on" || (mode == "auto" && isTerminal(w))
}

// render writes rep to stdout in the configured format and, with --timings,
// the phase summary to stderr.
func render(cmd *cobra.Command, set settings, rep *runReport) error {
	rf, err := readRenderFlags(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	pathMode := diagfmt.PathModeAuto
	if rep.multi {
		pathMode = diagfmt.PathModeRelative
	}
	if rf.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	showFixes := rf.suggest || rf.preview
	clean := !rep.unbalanced && rep.readFailures == 0

	if rf.timings && set.Format.MachineReadable() && rep.fileSet.Len() > 0 {
		// тайминги едут вместе с диагностиками, render в них не попадает
		driver.AppendTimingDiagnostic(rep.bag, rep.timingFile, "check", "", rep.timer.Report())
	}

	idx := rep.timer.Begin("render")
	switch set.Format {
	case diagfmt.FormatPlain:
		if clean && rf.quiet {
			break
		}
		files := rep.files
		if rf.fullPath {
			files = absolutePaths(files)
		}
		err = diagfmt.Plain(out, files, rep.multi)
	case diagfmt.FormatPretty:
		if clean {
			err = writeBalanced(out, rf.quiet)
			break
		}
		diagfmt.Pretty(out, rep.bag, rep.fileSet, diagfmt.PrettyOpts{
			Color:       useColor(set.Color, out),
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   rf.withNotes,
			ShowFixes:   showFixes,
			ShowPreview: rf.preview,
		})
	case diagfmt.FormatShort:
		if clean {
			err = writeBalanced(out, rf.quiet)
			break
		}
		err = diagfmt.Short(out, rep.bag, rep.fileSet, rf.withNotes)
	case diagfmt.FormatJSON, diagfmt.FormatYAML:
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     rf.withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  rf.preview,
		}
		if set.Format == diagfmt.FormatJSON {
			err = diagfmt.JSON(out, rep.bag, rep.fileSet, opts)
		} else {
			err = diagfmt.YAML(out, rep.bag, rep.fileSet, opts)
		}
	case diagfmt.FormatSarif:
		err = diagfmt.Sarif(out, rep.bag, rep.fileSet, diagfmt.SarifRunMeta{
			ToolName:       "bracecheck",
			ToolVersion:    version.Collect().Version,
			InvocationArgs: cmd.Flags().Args(),
			PathMode:       pathMode,
		})
	default:
		err = fmt.Errorf("unknown format: %s", set.Format)
	}
	rep.timer.End(idx, string(set.Format))
	if err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}

	if rf.timings && !rf.quiet && !set.Format.MachineReadable() {
		printTimings(cmd.ErrOrStderr(), rep.timer)
	}
	return nil
}

func writeBalanced(w io.Writer, quiet bool) error {
	if quiet {
		return nil
	}
	_, err := fmt.Fprintln(w, diagfmt.BalancedMessage)
	return err
}

func absolutePaths(files []diagfmt.FileMessages) []diagfmt.FileMessages {
	out := make([]diagfmt.FileMessages, len(files))
	for i, f := range files {
		out[i] = f
		if f.Path == stdinName {
			continue
		}
		if abs, err := source.AbsolutePath(f.Path); err == nil {
			out[i].Path = abs
		}
	}
	return out
}
