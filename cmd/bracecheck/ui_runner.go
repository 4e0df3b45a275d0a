package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"bracecheck/internal/driver"
	"bracecheck/internal/source"
	"bracecheck/internal/ui"
)

type dirOutcome struct {
	fileSet *source.FileSet
	results []driver.CheckDirResult
	err     error
}

// runDirWithUI runs CheckDir while a Bubble Tea view renders its progress events.
func runDirWithUI(ctx context.Context, out io.Writer, dir string, opts driver.Options) (*source.FileSet, []driver.CheckDirResult, error) {
	files, err := driver.ListFiles(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, results, err := driver.CheckDir(ctx, dir, optsCopy)
		outcomeCh <- dirOutcome{fileSet: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(fmt.Sprintf("checking %s", dir), files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// события больше никто не читает: не даём CheckDir заблокироваться
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
