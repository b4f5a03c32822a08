package cgen

import (
	"fmt"
	"io"
	"strings"

	"tpgen/internal/outfile"
	"tpgen/internal/schema"
)

// TracepointMacro is the tracing facility every wrapper forwards to.
const TracepointMacro = "tracepoint"

// RenderImpl returns the interface implementation. It includes
// interfaceHeader and tracepointHeader verbatim, then defines one wrapper per
// instance whose body is a single TracepointMacro call keyed by the provider
// and instance names.
func RenderImpl(providers []schema.Provider, interfaceHeader, tracepointHeader string) string {
	var buf strings.Builder
	buf.WriteString("#include \"" + interfaceHeader + "\"\n")
	buf.WriteString("#include \"" + tracepointHeader + "\"\n")
	schema.Walk(providers, func(in schema.Instance) {
		fields := in.Class.Fields
		fmt.Fprintf(&buf, "void %s(%s) {\n", FuncName(in.Provider, in.Class, in.Instance), RenderArgs(fields, Typed))
		fmt.Fprintf(&buf, "    %s(%s, %s", TracepointMacro, in.Provider.Name, in.Instance.Name)
		if args := RenderArgs(fields, Bare); args != "" {
			buf.WriteString(", " + args)
		}
		buf.WriteString(");\n")
		buf.WriteString("}\n\n")
	})
	return buf.String()
}

// WriteImpl writes the interface implementation to w.
func WriteImpl(w io.Writer, providers []schema.Provider, interfaceHeader, tracepointHeader string) error {
	_, err := io.WriteString(w, RenderImpl(providers, interfaceHeader, tracepointHeader))
	return err
}

// GenerateImpl creates or replaces the interface implementation at path.
func GenerateImpl(path string, providers []schema.Provider, interfaceHeader, tracepointHeader string) error {
	data := []byte(RenderImpl(providers, interfaceHeader, tracepointHeader))
	if err := outfile.WriteAtomic(path, data); err != nil {
		return fmt.Errorf("failed to create tracepoint interface implementation: %w", err)
	}
	return nil
}
