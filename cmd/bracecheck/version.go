package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bracecheck/internal/version"
)

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
	color       bool
}

type versionPayload struct {
	Tool       string `json:"tool" yaml:"tool"`
	Version    string `json:"version" yaml:"version"`
	Tagline    string `json:"tagline" yaml:"tagline"`
	GitCommit  string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty" yaml:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
}

const versionTagline = "every brace accounted for"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show bracecheck build information",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("message", false, "include git commit message")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	hash, _ := cmd.Flags().GetBool("hash")
	message, _ := cmd.Flags().GetBool("message")
	date, _ := cmd.Flags().GetBool("date")
	full, _ := cmd.Flags().GetBool("full")
	format, _ := cmd.Flags().GetString("format")
	colorMode, _ := cmd.Flags().GetString("color")

	opts := versionOptions{
		format:      strings.ToLower(strings.TrimSpace(format)),
		showHash:    hash || full,
		showMessage: message || full,
		showDate:    date || full,
		color:       useColor(colorMode, cmd.OutOrStdout()),
	}

	info := version.Collect()
	switch opts.format {
	case "pretty":
		renderVersionPretty(cmd.OutOrStdout(), info, opts)
		return nil
	case "json", "yaml":
		return renderVersionData(cmd.OutOrStdout(), info, opts)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", format)
	}
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	fmt.Fprintf(out, "bracecheck %s: %s\n", version.Colored(info.Version, opts.color), versionTagline)
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionData(out io.Writer, info version.Info, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "bracecheck",
		Version: info.Version,
		Tagline: versionTagline,
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	if opts.format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(payload); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
