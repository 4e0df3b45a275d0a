// Package trace records what the checker is doing while it runs.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	bracecheck --trace=- --trace-level=detail src/
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only failures
//   - LevelPhase: driver operations and phases (load, scan, render)
//   - LevelDetail: per-file events
//   - LevelDebug: everything, including cache lookups
//
// # Context propagation
//
// Tracers travel through the driver in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePhase, "scan", 0)
//	defer span.End("")
package trace
