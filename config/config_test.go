// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package config

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expected    *Config
		expectedErr string
	}{
		{
			name:    "empty document gets defaults",
			content: "",
			expected: &Config{
				Hosts:       map[string]Host{},
				FetchPolicy: DefaultFetchPolicy,
			},
		},
		{
			name:    "fetch policy override",
			content: "fetch-policy: never\n",
			expected: &Config{
				Hosts:       map[string]Host{},
				FetchPolicy: FetchPolicyNever,
			},
		},
		{
			name: "hosts",
			content: `hosts:
  gitlab.example.com:
    type: gitlab
    base: https://gitlab.example.com
    token-from-env: EXAMPLE_TOKEN
`,
			expected: &Config{
				Hosts: map[string]Host{
					"gitlab.example.com": {
						Type:         "gitlab",
						Base:         "https://gitlab.example.com",
						TokenFromEnv: "EXAMPLE_TOKEN",
					},
				},
				FetchPolicy: DefaultFetchPolicy,
			},
		},
		{
			name:        "invalid fetch policy",
			content:     "fetch-policy: sometimes\n",
			expectedErr: "invalid fetch policy: sometimes",
		},
		{
			name: "unsupported host type",
			content: `hosts:
  bitbucket.org:
    type: bitbucket
`,
			expectedErr: `host "bitbucket.org" has unsupported type "bitbucket"`,
		},
		{
			name:        "not yaml",
			content:     "\t",
			expectedErr: "failed to parse config file",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tc.content))
			if tc.expectedErr != "" {
				require.ErrorContains(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, cfg)
		})
	}
}

func TestFileSystemConfigLoader(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		loader := &FileSystemConfigLoader{Fs: afero.NewMemMapFs()}

		cfg, err := loader.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, &Config{
			Hosts:       map[string]Host{},
			FetchPolicy: DefaultFetchPolicy,
		}, cfg)
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fsys, DefaultFileName, []byte("fetch-policy: always\n"), 0o644))

		loader := &FileSystemConfigLoader{Fs: fsys}

		cfg, err := loader.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, FetchPolicyAlways, cfg.FetchPolicy)
	})
}
