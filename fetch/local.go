// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalFetcher fetches a file from the local filesystem.
type LocalFetcher struct {
	fsys afero.Fs
}

// NewLocalFetcher creates a new local fetcher
func NewLocalFetcher(fsys afero.Fs) *LocalFetcher {
	return &LocalFetcher{fsys}
}

// Fetch opens a file handle at the given location
func (f *LocalFetcher) Fetch(ctx context.Context, uri *URI) (io.ReadCloser, error) {
	if uri == nil || uri.URL == nil {
		return nil, fmt.Errorf("uri is nil")
	}

	if ctx != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	clone := *uri.URL

	if clone.Scheme != "" && clone.Scheme != "file" {
		return nil, fmt.Errorf("scheme is not \"file\" or empty")
	}

	clone.Scheme = ""
	clone.RawQuery = ""
	p := clone.String()
	p = filepath.Clean(p)

	fileInfo, err := f.fsys.Stat(p)
	if err != nil {
		return nil, err
	}

	if fileInfo.IsDir() {
		p = filepath.Join(p, DefaultFileName)
		if _, err := f.fsys.Stat(p); err != nil {
			return nil, err
		}
	}

	return f.fsys.Open(p)
}
