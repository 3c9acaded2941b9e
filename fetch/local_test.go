// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFetcher(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "deploy.yaml", []byte("schema-version: v1"), 0o644))
	require.NoError(t, fsys.MkdirAll("project", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "project/"+DefaultFileName, []byte("schema-version: v1"), 0o644))

	f := NewLocalFetcher(fsys)

	testCases := []struct {
		name        string
		location    string
		expectedErr string
	}{
		{
			name:     "file exists",
			location: "file:deploy.yaml",
		},
		{
			name:     "no scheme",
			location: "deploy.yaml",
		},
		{
			name:     "directory falls back to default file name",
			location: "file:project",
		},
		{
			name:        "file does not exist",
			location:    "file:missing.yaml",
			expectedErr: "open missing.yaml: file does not exist",
		},
		{
			name:        "wrong scheme",
			location:    "https://example.com/deploy.yaml",
			expectedErr: "scheme is not \"file\" or empty",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uri, err := Parse(tc.location)
			require.NoError(t, err)

			rc, err := f.Fetch(t.Context(), uri)
			if tc.expectedErr != "" {
				require.EqualError(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			defer rc.Close()

			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, "schema-version: v1", string(b))
		})
	}

	t.Run("nil uri", func(t *testing.T) {
		_, err := f.Fetch(t.Context(), nil)
		require.EqualError(t, err, "uri is nil")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		uri, err := Parse("file:deploy.yaml")
		require.NoError(t, err)

		_, err = f.Fetch(ctx, uri)
		require.ErrorIs(t, err, context.Canceled)
	})
}
