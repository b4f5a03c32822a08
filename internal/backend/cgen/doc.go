// Package cgen emits the C interface around LTTng-UST tracepoints: a header
// declaring one wrapper per event instance, an implementation forwarding each
// wrapper to the tracepoint macro, and the allowlist of wrapper names for a
// binding generator.
//
// Output is a pure function of the provider list. The package does not
// validate the schema; callers must ensure wrapper names are unique.
package cgen
