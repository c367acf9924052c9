// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/boreapps/bore/internal/console"
	"github.com/boreapps/bore/internal/domain"
)

var errNoSnapshot = errors.New("no default snapshot captured")

// Store loads and saves the catalog document and owns the in-memory catalog.
type Store struct {
	path         string
	baselinePath string
	files        domain.FileManager

	current  *Catalog
	snapshot []byte

	startupSnapshot bool
}

// Option configures a Store.
type Option func(*Store)

// WithBaseline persists the default snapshot at path so that it outlives
// the process. The baseline is kept until the document changes outside
// bore, in which case the next capture takes the new document instead.
// Without it the snapshot is the document as it was at load time.
func WithBaseline(path string) Option {
	return func(s *Store) {
		s.baselinePath = path
	}
}

// WithStartupSnapshot makes the document as loaded the revert target even
// when a baseline is kept. The baseline is still maintained for later
// processes.
func WithStartupSnapshot() Option {
	return func(s *Store) {
		s.startupSnapshot = true
	}
}

// NewStore creates a store for the document at path.
func NewStore(path string, files domain.FileManager, opts ...Option) *Store {
	store := &Store{
		path:    path,
		files:   files,
		current: &Catalog{},
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Current returns the in-memory catalog. Callers must not mutate it.
func (s *Store) Current() *Catalog {
	return s.current
}

// Lookup finds an app in the current catalog.
func (s *Store) Lookup(name string) (domain.AppEntry, bool) {
	return s.current.Lookup(name)
}

// Load reads and parses the document, replacing the in-memory catalog.
func (s *Store) Load() (*Catalog, error) {
	data, err := s.files.ReadFile(s.path)
	if err != nil {
		return nil, domain.NewStorageError(s.path, err)
	}

	catalog, err := Decode(data)
	if err != nil {
		return nil, domain.NewStorageError(s.path, err)
	}

	s.current = catalog
	console.DefaultOutput.Progressf("Loaded %d apps in %d categories from %s",
		catalog.Len(), len(catalog.categories), s.path)

	return catalog, nil
}

// Save writes catalog to the document and makes it the in-memory catalog.
// On failure the in-memory catalog is left untouched.
func (s *Store) Save(catalog *Catalog) error {
	data, err := Encode(catalog)
	if err != nil {
		return domain.NewStorageError(s.path, err)
	}

	if err := s.files.WriteFileAtomic(s.path, data); err != nil {
		return domain.NewStorageError(s.path, err)
	}

	s.current = catalog
	s.recordWritten(data)

	return nil
}

// Raw returns the document bytes as currently stored.
func (s *Store) Raw() ([]byte, error) {
	data, err := s.files.ReadFile(s.path)
	if err != nil {
		return nil, domain.NewStorageError(s.path, err)
	}

	return data, nil
}

// CaptureDefault records the document bytes used by RestoreDefault.
// Only the first call has an effect.
func (s *Store) CaptureDefault() error {
	if s.snapshot != nil {
		return nil
	}

	data, err := s.Raw()
	if err != nil {
		return err
	}

	if s.baselinePath == "" {
		s.snapshot = data

		return nil
	}

	baseline, ok := s.persistedBaseline(data)
	if !ok {
		if err := s.files.WriteFileAtomic(s.baselinePath, data); err != nil {
			return domain.NewStorageError(s.baselinePath, fmt.Errorf("write baseline: %w", err))
		}

		console.DefaultOutput.Progressf("Saved default app list to %s", s.baselinePath)

		baseline = data
		s.recordWritten(data)
	}

	s.snapshot = baseline
	if s.startupSnapshot {
		s.snapshot = data
	}

	return nil
}

// persistedBaseline returns the stored baseline while the document is still
// the one bore last wrote.
func (s *Store) persistedBaseline(current []byte) ([]byte, bool) {
	if !s.files.FileExists(s.baselinePath) || !s.files.FileExists(s.writtenPath()) {
		return nil, false
	}

	written, err := s.files.ReadFile(s.writtenPath())
	if err != nil || !bytes.Equal(written, current) {
		console.DefaultOutput.Progressf("App list changed outside bore, taking it as the new default")

		return nil, false
	}

	baseline, err := s.files.ReadFile(s.baselinePath)
	if err != nil {
		return nil, false
	}

	return baseline, true
}

// recordWritten remembers the document bytes bore produced, so a later
// capture can tell its own edits from outside ones.
func (s *Store) recordWritten(data []byte) {
	if s.baselinePath == "" {
		return
	}

	if err := s.files.WriteFileAtomic(s.writtenPath(), data); err != nil {
		console.DefaultOutput.Warningf("Could not record app list state: %v", err)
	}
}

func (s *Store) writtenPath() string {
	return s.baselinePath + ".last"
}

// Snapshot returns the captured default document bytes.
func (s *Store) Snapshot() []byte {
	return bytes.Clone(s.snapshot)
}

// RestoreDefault overwrites the document with the captured snapshot and reloads it.
func (s *Store) RestoreDefault() (*Catalog, error) {
	if s.snapshot == nil {
		return nil, domain.NewStorageError(s.path, errNoSnapshot)
	}

	if err := s.files.WriteFileAtomic(s.path, s.snapshot); err != nil {
		return nil, domain.NewStorageError(s.path, err)
	}

	s.recordWritten(s.snapshot)

	return s.Load()
}
