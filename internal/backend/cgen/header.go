package cgen

import (
	"fmt"
	"io"
	"strings"

	"tpgen/internal/outfile"
	"tpgen/internal/schema"
)

// HeaderGuard is the include-guard macro of the interface header.
const HeaderGuard = "_TPGEN_TRACEPOINT_INTERFACE"

// Revision identifies the emitted text layout. Bump it whenever the header or
// implementation output changes for the same schema.
const Revision uint16 = 1

// RenderHeader returns the interface header: one extern declaration per
// instance, in schema order, inside the include guard.
func RenderHeader(providers []schema.Provider) string {
	var buf strings.Builder
	buf.WriteString("#if !defined(" + HeaderGuard + ")\n")
	buf.WriteString("#define " + HeaderGuard + "\n")
	buf.WriteString("#include <stdint.h>\n")
	buf.WriteString("#include <stddef.h>\n")
	schema.Walk(providers, func(in schema.Instance) {
		fmt.Fprintf(&buf, "extern void %s(%s);\n",
			FuncName(in.Provider, in.Class, in.Instance),
			RenderArgs(in.Class.Fields, Typed))
	})
	buf.WriteString("#endif")
	return buf.String()
}

// WriteHeader writes the interface header to w.
func WriteHeader(w io.Writer, providers []schema.Provider) error {
	_, err := io.WriteString(w, RenderHeader(providers))
	return err
}

// GenerateHeader creates or replaces the interface header at path.
func GenerateHeader(path string, providers []schema.Provider) error {
	if err := outfile.WriteAtomic(path, []byte(RenderHeader(providers))); err != nil {
		return fmt.Errorf("failed to create tracepoint interface header: %w", err)
	}
	return nil
}
