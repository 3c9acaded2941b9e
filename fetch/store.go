// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// Descriptor describes a cached pipeline document.
type Descriptor struct {
	Size int64
	Hex  string
}

// IndexFileName is the name of the index file.
const IndexFileName = "index.json"

// Store is a content-addressed cache for fetched pipeline documents.
//
// Documents are stored under their sha256, the index maps source locations
// to descriptors.
type Store struct {
	index map[string]Descriptor

	fs afero.Fs

	mu sync.RWMutex
}

// NewStore creates a new store on top of the given filesystem.
func NewStore(fs afero.Fs) (*Store, error) {
	index := make(map[string]Descriptor)

	_, err := fs.Stat(IndexFileName)
	if os.IsNotExist(err) {
		if err := afero.WriteFile(fs, IndexFileName, []byte("{}"), 0644); err != nil {
			return nil, err
		}
		return &Store{fs: fs, index: index}, nil
	}
	if err != nil {
		return nil, err
	}

	b, err := afero.ReadFile(fs, IndexFileName)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(b, &index); err != nil {
		return nil, err
	}

	return &Store{fs: fs, index: index}, nil
}

// id normalizes a location to its index key
func id(uri *URI) string {
	clone := *uri.URL
	clone.RawQuery = ""
	return clone.String()
}

// Fetch retrieves a pipeline document from the store
func (s *Store) Fetch(_ context.Context, uri *URI) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	desc, ok := s.index[id(uri)]
	if !ok {
		return nil, fmt.Errorf("descriptor not found")
	}

	return s.fs.Open(desc.Hex)
}

// Store caches a pipeline document
func (s *Store) Store(r io.Reader, uri *URI) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hasher := sha256.New()

	var buf bytes.Buffer

	mw := io.MultiWriter(hasher, &buf)

	if _, err := io.Copy(mw, r); err != nil {
		return err
	}

	hex := fmt.Sprintf("%x", hasher.Sum(nil))

	if err := afero.WriteFile(s.fs, hex, buf.Bytes(), 0644); err != nil {
		return err
	}

	s.index[id(uri)] = Descriptor{
		Size: int64(buf.Len()),
		Hex:  hex,
	}

	b, err := json.Marshal(s.index)
	if err != nil {
		return err
	}

	return afero.WriteFile(s.fs, IndexFileName, b, 0644)
}

// Exists checks if a pipeline document exists in the store, verifying size and hash.
func (s *Store) Exists(uri *URI) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	desc, ok := s.index[id(uri)]
	if !ok {
		return false, nil
	}

	fi, err := s.fs.Stat(desc.Hex)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Errorf("descriptor exists in index, but no corresponding file was found, possible cache corruption: %s", desc.Hex)
		}
		return false, err
	}

	if fi.Size() != desc.Size {
		return false, fmt.Errorf("size mismatch, expected %d, got %d", desc.Size, fi.Size())
	}

	hasher := sha256.New()

	f, err := s.fs.Open(desc.Hex)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := io.Copy(hasher, f); err != nil {
		return false, err
	}

	if fmt.Sprintf("%x", hasher.Sum(nil)) != desc.Hex {
		return false, errors.New("hash mismatch")
	}

	return true, nil
}

// List returns a copy of the index
func (s *Store) List() map[string]Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.index)
}

// GC removes blobs no index entry points at
func (s *Store) GC() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool, len(s.index))
	for _, desc := range s.index {
		live[desc.Hex] = true
	}

	entries, err := afero.ReadDir(s.fs, ".")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == IndexFileName {
			continue
		}
		if !live[entry.Name()] {
			if err := s.fs.Remove(entry.Name()); err != nil {
				return err
			}
		}
	}

	return nil
}
