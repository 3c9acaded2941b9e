// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipevet/pipevet/config"
)

func TestFetcherService(t *testing.T) {
	testCases := []struct {
		name        string
		location    string
		expected    any
		expectedErr string
	}{
		{
			name:     "http",
			location: "http://example.com/deploy.yaml",
			expected: &HTTPFetcher{},
		},
		{
			name:     "https",
			location: "https://example.com/deploy.yaml",
			expected: &HTTPFetcher{},
		},
		{
			name:     "file",
			location: "file:deploy.yaml",
			expected: &LocalFetcher{},
		},
		{
			name:     "no scheme",
			location: "deploy.yaml",
			expected: &LocalFetcher{},
		},
		{
			name:     "github purl",
			location: "pkg:github/pipevet/pipevet@main#testdata/deploy.yaml",
			expected: &GitHubClient{},
		},
		{
			name:     "gitlab purl",
			location: "pkg:gitlab/pipevet/pipevet@main#deploy.yaml",
			expected: &GitLabClient{},
		},
		{
			name:     "oci",
			location: "oci://registry.local/pipelines:latest",
			expected: &OCIClient{},
		},
		{
			name:        "unknown purl type",
			location:    "pkg:npm/left-pad@1.0.0",
			expectedErr: "unsupported package type: \"npm\"",
		},
		{
			name:        "unknown scheme",
			location:    "ftp://example.com/deploy.yaml",
			expectedErr: "unsupported scheme: \"ftp\"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewFetcherService()
			require.NoError(t, err)

			fetcher, err := svc.GetFetcher(mustURI(t, tc.location))
			if tc.expectedErr != "" {
				require.EqualError(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tc.expected, fetcher)
		})
	}
}

func TestFetcherServiceCaching(t *testing.T) {
	svc, err := NewFetcherService()
	require.NoError(t, err)

	uri := mustURI(t, "https://example.com/deploy.yaml")

	first, err := svc.GetFetcher(uri)
	require.NoError(t, err)

	second, err := svc.GetFetcher(uri)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestFetcherServiceStorageWrapping(t *testing.T) {
	store, err := NewStore(afero.NewMemMapFs())
	require.NoError(t, err)

	svc, err := NewFetcherService(WithStorage(store), WithFetchPolicy(config.FetchPolicyIfNotPresent))
	require.NoError(t, err)

	t.Run("remote schemes are wrapped", func(t *testing.T) {
		fetcher, err := svc.GetFetcher(mustURI(t, "https://example.com/deploy.yaml"))
		require.NoError(t, err)

		sf, ok := fetcher.(*StoreFetcher)
		require.True(t, ok)
		assert.IsType(t, &HTTPFetcher{}, sf.Source)
		assert.Equal(t, config.FetchPolicyIfNotPresent, sf.Policy)
	})

	t.Run("local files are never wrapped", func(t *testing.T) {
		fetcher, err := svc.GetFetcher(mustURI(t, "file:deploy.yaml"))
		require.NoError(t, err)
		assert.IsType(t, &LocalFetcher{}, fetcher)
	})
}

func TestFetcherServiceErrors(t *testing.T) {
	t.Run("never without a store", func(t *testing.T) {
		_, err := NewFetcherService(WithFetchPolicy(config.FetchPolicyNever))
		require.EqualError(t, err, "store is not initialized")
	})

	t.Run("invalid policy", func(t *testing.T) {
		_, err := NewFetcherService(WithFetchPolicy(config.FetchPolicy("sometimes")))
		require.EqualError(t, err, "invalid fetch policy: sometimes")
	})

	t.Run("nil uri", func(t *testing.T) {
		svc, err := NewFetcherService()
		require.NoError(t, err)

		_, err = svc.GetFetcher(nil)
		require.EqualError(t, err, "uri cannot be nil")
	})

	t.Run("never policy serves the store", func(t *testing.T) {
		store, err := NewStore(afero.NewMemMapFs())
		require.NoError(t, err)

		svc, err := NewFetcherService(WithStorage(store), WithFetchPolicy(config.FetchPolicyNever))
		require.NoError(t, err)

		fetcher, err := svc.GetFetcher(mustURI(t, "https://example.com/deploy.yaml"))
		require.NoError(t, err)
		assert.Same(t, store, fetcher)
	})
}
