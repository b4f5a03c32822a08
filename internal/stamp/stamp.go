// Package stamp records what the last successful generation pass produced so
// an unchanged schema does not rewrite unchanged outputs.
package stamp

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tpgen/internal/outfile"
	"tpgen/internal/schema"
)

// Current schema version - increment when Stamp format changes
const stampSchemaVersion uint16 = 1

// Target is one written output and the digest of its content.
type Target struct {
	Path   string
	Digest schema.Digest
}

// Stamp is the msgpack payload stored next to the outputs.
type Stamp struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Inputs that shape the output
	Revision         uint16 // generator output revision
	Fingerprint      schema.Digest
	HeaderInclude    string
	TracepointHeader string
	AllowlistFormat  string

	// Outputs
	Symbols uint32
	Targets []Target
}

// New builds a stamp for a pass over providers. Targets are added with Add.
func New(revision uint16, fingerprint schema.Digest, headerInclude, tracepointHeader, allowlistFormat string, symbols int) (*Stamp, error) {
	n, err := safecast.Conv[uint32](symbols)
	if err != nil {
		return nil, fmt.Errorf("symbol count %d: %w", symbols, err)
	}
	return &Stamp{
		Schema:           stampSchemaVersion,
		Revision:         revision,
		Fingerprint:      fingerprint,
		HeaderInclude:    headerInclude,
		TracepointHeader: tracepointHeader,
		AllowlistFormat:  allowlistFormat,
		Symbols:          n,
	}, nil
}

// Add records a target and the digest of the content written to it.
func (s *Stamp) Add(path string, content []byte) {
	s.Targets = append(s.Targets, Target{Path: path, Digest: sha256.Sum256(content)})
}

// Load reads the stamp at path. A missing file is not an error: ok is false.
func Load(path string) (st *Stamp, ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out Stamp
	if err := msgpack.NewDecoder(bytes.NewReader(data)).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("failed to decode stamp %s: %w", path, err)
	}
	if out.Schema != stampSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// Save serializes s and atomically replaces path.
func Save(path string, s *Stamp) error {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}
	if err := outfile.WriteAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write stamp: %w", err)
	}
	return nil
}

// Matches reports whether s was produced from the same inputs as want and
// for the same set of targets.
func (s *Stamp) Matches(want *Stamp) bool {
	if s == nil || want == nil {
		return false
	}
	if s.Schema != want.Schema ||
		s.Revision != want.Revision ||
		s.Fingerprint != want.Fingerprint ||
		s.HeaderInclude != want.HeaderInclude ||
		s.TracepointHeader != want.TracepointHeader ||
		s.AllowlistFormat != want.AllowlistFormat ||
		s.Symbols != want.Symbols ||
		len(s.Targets) != len(want.Targets) {
		return false
	}
	for i := range s.Targets {
		if s.Targets[i].Path != want.Targets[i].Path {
			return false
		}
	}
	return true
}

// OnDisk reports whether every recorded target still holds the content it
// was stamped with.
func (s *Stamp) OnDisk() (bool, error) {
	for _, t := range s.Targets {
		data, err := os.ReadFile(t.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return false, nil
			}
			return false, err
		}
		if sha256.Sum256(data) != t.Digest {
			return false, nil
		}
	}
	return true, nil
}
