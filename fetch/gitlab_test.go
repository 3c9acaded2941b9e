// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitLabFetcher(t *testing.T) {
	t.Run("basic fetch", func(t *testing.T) {
		t.Parallel()
		if testing.Short() {
			t.Skip("skipping tests that require network access")
		}

		ctx := log.WithContext(t.Context(), log.New(io.Discard))

		client, err := NewGitLabClient(nil, "", "")
		require.NoError(t, err)

		rc, err := client.Fetch(ctx, nil)
		assert.Nil(t, rc)
		require.EqualError(t, err, `uri is nil`)

		rc, err = client.Fetch(ctx, mustURI(t, "file:foo.yaml"))
		require.EqualError(t, err, `purl scheme is not "pkg": "file"`)
		assert.Nil(t, rc)

		rc, err = client.Fetch(ctx, mustURI(t, "pkg:github/foo/bar@main"))
		require.EqualError(t, err, `purl type is not "gitlab": "github"`)
		assert.Nil(t, rc)

		rc, err = client.Fetch(ctx, mustURI(t, "pkg:gitlab/gitlab-org/cli@main#README.md"))
		require.NoError(t, err)

		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.NotEmpty(t, b)
	})

	t.Run("environment variables", func(t *testing.T) {
		_, err := NewGitLabClient(nil, "", "")
		require.NoError(t, err)

		customEnv := "CUSTOM_GITLAB_TOKEN"
		_, err = NewGitLabClient(nil, "", customEnv)
		require.EqualError(t, err, "token environment variable CUSTOM_GITLAB_TOKEN is not set")

		t.Setenv(customEnv, "dummy-token")
		client, err := NewGitLabClient(nil, "", customEnv)
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("base url", func(t *testing.T) {
		t.Parallel()
		client, err := NewGitLabClient(nil, "", "")
		require.NoError(t, err)
		assert.Equal(t, "https://gitlab.com/api/v4/", client.client.BaseURL().String())

		client, err = NewGitLabClient(nil, "https://gitlab.example.com/", "")
		require.NoError(t, err)
		assert.Equal(t, "https://gitlab.example.com/api/v4/", client.client.BaseURL().String())
	})
}
