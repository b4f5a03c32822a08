package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tpgen/internal/diag"
	"tpgen/internal/loader"
	"tpgen/internal/schema"
	"tpgen/internal/trace"
)

// loadSchema loads and validates path, printing diagnostics to stderr.
func loadSchema(cmd *cobra.Command, path string) ([]schema.Provider, *diag.Bag, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	ctx := cmd.Context()
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "load", trace.CurrentSpan(ctx).SpanID)

	bag := diag.NewBag(maxDiagnostics)
	providers, err := loader.Load(path, diag.BagReporter{Bag: bag})
	bag.Sort()
	printDiagnostics(cmd.ErrOrStderr(), bag, quiet(cmd))

	span.WithExtra("diagnostics", fmt.Sprint(bag.Len())).End(path)
	if err != nil {
		return nil, bag, fmt.Errorf("%s: %w", path, err)
	}
	return providers, bag, nil
}

// printDiagnostics writes bag to out. In quiet mode only errors are shown.
func printDiagnostics(out io.Writer, bag *diag.Bag, quiet bool) {
	items := bag.Items()
	if quiet {
		errs := make([]diag.Diagnostic, 0, len(items))
		for _, d := range items {
			if d.Severity == diag.SevError {
				errs = append(errs, d)
			}
		}
		items = errs
	}
	text := diag.FormatShort(items, diag.FormatOpts{Color: useColor(), IncludeNotes: true})
	if text != "" {
		fmt.Fprintln(out, text)
	}
}
