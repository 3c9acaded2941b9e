// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActionRef(t *testing.T) {
	testCases := []struct {
		name          string
		uses          string
		expected      ActionRef
		expectedError string
	}{
		{
			name: "remote tag",
			uses: "actions/checkout@v4",
			expected: ActionRef{
				Kind:  ActionRemote,
				Owner: "actions",
				Repo:  "checkout",
				Ref:   "v4",
			},
		},
		{
			name: "remote commit sha",
			uses: "actions/setup-python@82c7e631bb3cdc910f68e0081d67478d79c6982d",
			expected: ActionRef{
				Kind:  ActionRemote,
				Owner: "actions",
				Repo:  "setup-python",
				Ref:   "82c7e631bb3cdc910f68e0081d67478d79c6982d",
			},
		},
		{
			name: "remote with subdirectory",
			uses: "github/codeql-action/analyze@v3",
			expected: ActionRef{
				Kind:  ActionRemote,
				Owner: "github",
				Repo:  "codeql-action",
				Path:  "analyze",
				Ref:   "v3",
			},
		},
		{
			name: "local",
			uses: "./.ci/actions/setup",
			expected: ActionRef{
				Kind: ActionLocal,
				Path: ".ci/actions/setup",
			},
		},
		{
			name: "docker",
			uses: "docker://alpine:3.20",
			expected: ActionRef{
				Kind:  ActionDocker,
				Image: "alpine:3.20",
			},
		},
		{
			name:          "empty",
			uses:          "",
			expectedError: "uses is empty",
		},
		{
			name:          "missing ref",
			uses:          "actions/checkout",
			expectedError: "reference \"actions/checkout\" is missing a version (@ref)",
		},
		{
			name:          "empty ref",
			uses:          "actions/checkout@",
			expectedError: "reference \"actions/checkout@\" is missing a version (@ref)",
		},
		{
			name:          "no repo",
			uses:          "checkout@v4",
			expectedError: "reference \"checkout@v4\" is not of the form owner/repo[/path]@ref",
		},
		{
			name:          "empty docker image",
			uses:          "docker://",
			expectedError: "docker reference \"docker://\" has no image",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseActionRef(tc.uses)
			if tc.expectedError != "" {
				require.EqualError(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
		})
	}
}

func TestActionRefHelpers(t *testing.T) {
	pinned, err := ParseActionRef("actions/checkout@11bd71901bbe5b1630ceea73d27597364c9af683")
	require.NoError(t, err)
	assert.True(t, pinned.Pinned())
	assert.False(t, pinned.Floating())
	assert.Equal(t, "actions/checkout", pinned.Slug())

	floating, err := ParseActionRef("actions/checkout@main")
	require.NoError(t, err)
	assert.False(t, floating.Pinned())
	assert.True(t, floating.Floating())
	assert.Equal(t, "actions/checkout@main", floating.String())

	local, err := ParseActionRef("./.ci/actions/setup")
	require.NoError(t, err)
	assert.Equal(t, "./.ci/actions/setup", local.String())

	docker, err := ParseActionRef("docker://alpine:3.20")
	require.NoError(t, err)
	assert.Equal(t, "docker://alpine:3.20", docker.String())
}
