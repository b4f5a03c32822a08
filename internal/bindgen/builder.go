// Package bindgen models the configuration handed to a foreign-function
// binding generator: the set of C symbols it may expose.
package bindgen

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Builder accumulates allowlisted function names. Registration order is
// kept for output, duplicates are dropped, and membership does not depend on
// the order names were added in.
type Builder struct {
	functions []string
	seen      map[string]struct{}
}

// NewBuilder returns an empty configuration.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// AllowlistFunction registers name as an allowed function and returns b so
// calls can be chained or folded over.
func (b *Builder) AllowlistFunction(name string) *Builder {
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	if _, ok := b.seen[name]; ok {
		return b
	}
	b.seen[name] = struct{}{}
	b.functions = append(b.functions, name)
	return b
}

// Allows reports whether name is allowlisted.
func (b *Builder) Allows(name string) bool {
	_, ok := b.seen[name]
	return ok
}

// Functions returns the allowlisted names in registration order.
func (b *Builder) Functions() []string {
	out := make([]string, len(b.functions))
	copy(out, b.functions)
	return out
}

// Sorted returns the allowlisted names in lexical order.
func (b *Builder) Sorted() []string {
	out := b.Functions()
	sort.Strings(out)
	return out
}

// Len returns the number of allowlisted names.
func (b *Builder) Len() int {
	return len(b.functions)
}

// Format selects how Render writes the allowlist.
type Format string

const (
	// FormatList writes one name per line.
	FormatList Format = "list"
	// FormatVersionScript writes a GNU ld version script that exports only
	// the allowlisted names.
	FormatVersionScript Format = "version-script"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatList:
		return FormatList, nil
	case FormatVersionScript:
		return FormatVersionScript, nil
	default:
		return "", fmt.Errorf("unsupported allowlist format %q (expected: list|version-script)", s)
	}
}

// Render writes the allowlist in registration order.
func (b *Builder) Render(w io.Writer, format Format) error {
	bw := bufio.NewWriter(w)
	switch format {
	case FormatList, "":
		for _, name := range b.functions {
			fmt.Fprintf(bw, "%s\n", name)
		}
	case FormatVersionScript:
		bw.WriteString("{\n")
		if len(b.functions) > 0 {
			bw.WriteString("  global:\n")
			for _, name := range b.functions {
				fmt.Fprintf(bw, "    %s;\n", name)
			}
		}
		bw.WriteString("  local:\n    *;\n};\n")
	default:
		return fmt.Errorf("unsupported allowlist format %q", format)
	}
	return bw.Flush()
}
