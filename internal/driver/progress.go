package driver

import "time"

// Stage describes where a file is in the pipeline.
type Stage string

const (
	// StageLoad is reading and decoding the file.
	StageLoad Stage = "load"
	// StageScan is the brace scan.
	StageScan Stage = "scan"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file balanced.
	StatusDone Status = "done"
	// StatusUnbalanced indicates the scan produced findings.
	StatusUnbalanced Status = "unbalanced"
	// StatusError indicates the file could not be read.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
