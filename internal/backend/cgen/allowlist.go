package cgen

import (
	"context"

	"tpgen/internal/bindgen"
	"tpgen/internal/schema"
	"tpgen/internal/trace"
)

// AllowlistInterface registers every generated wrapper on b and returns it.
// A nil b starts from an empty configuration. Each registration is traced at
// symbol scope.
func AllowlistInterface(ctx context.Context, providers []schema.Provider, b *bindgen.Builder) *bindgen.Builder {
	if b == nil {
		b = bindgen.NewBuilder()
	}
	t := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	schema.Walk(providers, func(in schema.Instance) {
		name := FuncName(in.Provider, in.Class, in.Instance)
		trace.Point(t, trace.ScopeSymbol, "allowlist", name, parent)
		b = b.AllowlistFunction(name)
	})
	return b
}
