// Package outfile writes generated files so that readers never observe a
// partially written target: content goes to a temporary file in the target's
// directory and is renamed into place once complete.
package outfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Perm is the mode of committed files.
const Perm os.FileMode = 0o644

// WriteAtomic writes data to path through a temporary sibling file.
func WriteAtomic(path string, data []byte) error {
	var b Batch
	if err := b.Stage(path, data); err != nil {
		return err
	}
	return b.Commit()
}

type staged struct {
	tmp    string
	target string
	backup string // previous target content moved aside during Commit
}

// Batch stages several files and renames them into place together. The zero
// value is ready to use.
type Batch struct {
	staged []staged
}

// Stage writes data next to path without touching path itself. On failure
// the temporary file is removed and the returned error names path.
func (b *Batch) Stage(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = f.Chmod(Perm); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	b.staged = append(b.staged, staged{tmp: f.Name(), target: path})
	return nil
}

// Commit renames every staged file into place, in staging order. Existing
// targets are moved aside first; if any rename fails, every target already
// replaced gets its previous content back (or is removed when it did not
// exist) and all temporaries are deleted.
func (b *Batch) Commit() error {
	for _, s := range b.staged {
		info, err := os.Lstat(s.target)
		if err == nil && !info.Mode().IsRegular() {
			return errors.Join(fmt.Errorf("%s: not a regular file", s.target), b.Abort())
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Join(fmt.Errorf("%s: %w", s.target, err), b.Abort())
		}
	}

	for i := range b.staged {
		s := &b.staged[i]
		if err := s.moveAside(); err != nil {
			return errors.Join(err, b.rollback(i))
		}
		if err := os.Rename(s.tmp, s.target); err != nil {
			return errors.Join(fmt.Errorf("%s: %w", s.target, err), b.rollback(i))
		}
	}

	var errs []error
	for _, s := range b.staged {
		if s.backup == "" {
			continue
		}
		if err := os.Remove(s.backup); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	b.staged = nil
	return errors.Join(errs...)
}

// moveAside renames an existing target to a reserved sibling name.
func (s *staged) moveAside() error {
	if _, err := os.Lstat(s.target); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	f, err := os.CreateTemp(filepath.Dir(s.target), "."+filepath.Base(s.target)+".bak-*")
	if err != nil {
		return fmt.Errorf("%s: %w", s.target, err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("%s: %w", s.target, err)
	}
	if err := os.Rename(s.target, name); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("%s: %w", s.target, err)
	}
	s.backup = name
	return nil
}

// rollback undoes staged[0..failed]: entries before failed were renamed into
// place, failed itself may only have been moved aside.
func (b *Batch) rollback(failed int) error {
	var errs []error
	for i := failed; i >= 0; i-- {
		s := b.staged[i]
		if i < failed {
			if err := os.Remove(s.target); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
		}
		if s.backup != "" {
			if err := os.Rename(s.backup, s.target); err != nil {
				errs = append(errs, fmt.Errorf("restore %s: %w", s.target, err))
			}
		}
	}
	return errors.Join(append(errs, b.Abort())...)
}

// Abort removes every staged temporary file.
func (b *Batch) Abort() error {
	var errs []error
	for _, s := range b.staged {
		if err := os.Remove(s.tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	b.staged = nil
	return errors.Join(errs...)
}

// Pending returns the number of staged but uncommitted files.
func (b *Batch) Pending() int {
	return len(b.staged)
}
