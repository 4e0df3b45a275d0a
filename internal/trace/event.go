package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of the event.
// Lower numeric values are coarser.
type Scope uint8

const (
	// ScopeDriver covers whole CLI operations (check a file, check a tree).
	ScopeDriver Scope = iota + 1
	// ScopePhase covers load / scan / render phases.
	ScopePhase
	// ScopeFile covers per-file work inside a directory run.
	ScopeFile
	// ScopeDebug is for fine-grained events such as cache lookups.
	ScopeDebug
	// ScopeFailure marks events that describe an error.
	ScopeFailure
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeFile:
		return "file"
	case ScopeDebug:
		return "debug"
	case ScopeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "check", "scan", "file:src/a.c"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
