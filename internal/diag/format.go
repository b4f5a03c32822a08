package diag

import (
	"strings"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	noteColor    = color.New(color.FgBlue)
)

// FormatOpts controls FormatShort.
type FormatOpts struct {
	Color        bool
	IncludeNotes bool
}

// FormatShort renders one line per diagnostic:
//
//	error SCH3001 tracepoints.toml:provider[1].class[0].instance[0] message
//
// Notes follow their diagnostic as "note" lines. Newlines inside messages are
// folded into spaces. The result has no trailing newline and is empty when
// there is nothing to print.
func FormatShort(diags []Diagnostic, opts FormatOpts) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, formatLine(severityLabel(d.Severity, opts.Color), d.Code, d.Location, d.Message))
		if !opts.IncludeNotes {
			continue
		}
		for _, n := range d.Notes {
			label := "note"
			if opts.Color {
				label = noteColor.Sprint(label)
			}
			lines = append(lines, formatLine(label, d.Code, n.Location, n.Msg))
		}
	}
	return strings.Join(lines, "\n")
}

func formatLine(label string, code Code, loc Location, msg string) string {
	return label + " " + code.ID() + " " + loc.String() + " " + strings.Join(strings.Fields(msg), " ")
}

func severityLabel(sev Severity, useColor bool) string {
	label := sev.Label()
	if !useColor {
		return label
	}
	switch sev {
	case SevError:
		return errorColor.Sprint(label)
	case SevWarning:
		return warningColor.Sprint(label)
	default:
		return infoColor.Sprint(label)
	}
}
