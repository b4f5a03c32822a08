// Package trace provides operator-facing tracing for tpgen.
//
// Generation is quick, so the tracer is mostly useful to see what a pass did:
// which targets were rendered and committed, and which symbols were put on the
// binding allowlist.
//
// # Usage
//
//	tpgen generate --trace=- --trace-level=debug tracepoints.toml
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a pass fails
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only ring dumps after a failure
//   - LevelPhase: driver and pass boundaries
//   - LevelDetail: per output target events
//   - LevelDebug: everything, including every allowlisted symbol
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "render", parentID)
//	defer span.End("")
package trace
