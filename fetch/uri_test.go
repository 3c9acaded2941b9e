// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURI(t *testing.T) {
	testCases := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "https",
			value:    "https://example.com/deploy.yaml",
			expected: "https://example.com/deploy.yaml",
		},
		{
			name:     "purl",
			value:    "pkg:github/pipevet/pipevet@main#testdata/deploy.yaml",
			expected: "pkg:github/pipevet/pipevet@main#testdata/deploy.yaml",
		},
		{
			name:     "relative path",
			value:    "deploy.yaml",
			expected: "deploy.yaml",
		},
		{
			name:     "double quoted",
			value:    `"pkg:github/pipevet/pipevet@main"`,
			expected: "pkg:github/pipevet/pipevet@main",
		},
		{
			name:     "single quoted",
			value:    "'oci://registry.local/pipelines:latest'",
			expected: "oci://registry.local/pipelines:latest",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uri, err := Parse(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, uri.String())
		})
	}

	t.Run("invalid", func(t *testing.T) {
		uri := &URI{}
		require.Error(t, uri.Set("://missing-scheme"))
	})

	t.Run("type", func(t *testing.T) {
		uri := &URI{}
		assert.Equal(t, "uri", uri.Type())
	})
}

func TestSupportedSchemes(t *testing.T) {
	assert.Equal(t, []string{"file", "http", "https", "pkg", "oci"}, SupportedSchemes())
}
