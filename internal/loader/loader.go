// Package loader reads provider schemas from TOML or YAML files, converts
// them into the schema model, and checks the model before generation.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"tpgen/internal/ctf"
	"tpgen/internal/diag"
	"tpgen/internal/schema"
)

// ErrInvalid is returned when the schema produced error diagnostics.
var ErrInvalid = errors.New("invalid schema")

// Format is a schema file syntax.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatUnknown
}

// Load reads the schema at path. Problems with the document are reported to
// r; the returned error is ErrInvalid when any of them is an error, or an IO
// error when the file cannot be read.
func Load(path string, r diag.Reporter) ([]schema.Provider, error) {
	format := FormatFromPath(path)
	if format == FormatUnknown {
		diag.ReportError(r, diag.SchUnsupportedFile, diag.Location{File: path},
			fmt.Sprintf("cannot tell schema format from %q (expected .toml, .yaml or .yml)", filepath.Base(path))).Emit()
		return nil, ErrInvalid
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return Decode(path, data, format, r)
}

// Decode converts data into providers and validates them. file is only used
// to label diagnostics.
func Decode(file string, data []byte, format Format, r diag.Reporter) ([]schema.Provider, error) {
	cr := &countingReporter{next: fileReporter{file: file, next: r}}

	var doc rawDocument
	switch format {
	case FormatTOML:
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		if err != nil {
			diag.ReportError(cr, diag.SchDecode, diag.Location{}, err.Error()).Emit()
			return nil, ErrInvalid
		}
		for _, key := range meta.Undecoded() {
			diag.ReportWarning(cr, diag.SchDecode, diag.Location{Path: key.String()}, "unknown key ignored").Emit()
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			diag.ReportError(cr, diag.SchDecode, diag.Location{}, err.Error()).Emit()
			return nil, ErrInvalid
		}
	default:
		diag.ReportError(cr, diag.SchUnsupportedFile, diag.Location{}, "unsupported schema format "+format.String()).Emit()
		return nil, ErrInvalid
	}

	providers := convert(&doc, cr)
	Validate(providers, cr)
	if cr.errors > 0 {
		return providers, ErrInvalid
	}
	return providers, nil
}

func convert(doc *rawDocument, r diag.Reporter) []schema.Provider {
	providers := make([]schema.Provider, 0, len(doc.Providers))
	for pi, rp := range doc.Providers {
		p := schema.Provider{Name: rp.Name}
		for ci, rc := range rp.Classes {
			c := schema.EventClass{Name: rc.Name}
			for fi, rf := range rc.Fields {
				// Unparsed fields stay in place with an invalid type so later
				// diagnostics keep the document's field indices.
				typ, err := ctf.Parse(rf.Type)
				if err != nil {
					diag.ReportError(r, diag.TypUnknownTag, diag.Location{Path: fieldPath(pi, ci, fi)},
						fmt.Sprintf("field %q: %v", rf.Name, err)).Emit()
				}
				typ.NoWrite = rf.NoWrite
				c.Fields = append(c.Fields, schema.Field{Name: rf.Name, Type: typ})
			}
			for _, name := range rc.Instances {
				c.Instances = append(c.Instances, schema.EventInstance{Name: name})
			}
			p.Classes = append(p.Classes, c)
		}
		providers = append(providers, p)
	}
	return providers
}

// fileReporter stamps the schema file onto every location.
type fileReporter struct {
	file string
	next diag.Reporter
}

func (r fileReporter) Report(code diag.Code, sev diag.Severity, loc diag.Location, msg string, notes []diag.Note) {
	if r.next == nil {
		return
	}
	if loc.File == "" {
		loc.File = r.file
	}
	for i := range notes {
		if notes[i].Location.File == "" {
			notes[i].Location.File = r.file
		}
	}
	r.next.Report(code, sev, loc, msg, notes)
}

// countingReporter remembers how many errors passed through.
type countingReporter struct {
	next   diag.Reporter
	errors int
}

func (r *countingReporter) Report(code diag.Code, sev diag.Severity, loc diag.Location, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		r.errors++
	}
	r.next.Report(code, sev, loc, msg, notes)
}
