// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipevet/pipevet/schema"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

func TestNewStepList(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	out, err := NewStepList(deployPipeline())
	require.NoError(t, err)
	out = ansi.Strip(out)

	assert.Contains(t, out, "build (ubuntu-latest)")
	assert.Contains(t, out, "1. checkout")
	assert.Contains(t, out, "actions/checkout@11bd71901bbe5b1630ceea73d27597364c9af683")
	assert.Contains(t, out, "pytest")
}

func TestNewStepListMultilineRun(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	p := v1.Pipeline{
		Jobs: v1.JobMap{
			"build": v1.Job{
				RunsOn: v1.DefaultRunsOn,
				Steps: []v1.Step{
					{Name: "deploy", Run: "aws deploy create-deployment \\\n  --application-name orders-api"},
				},
			},
		},
	}

	out, err := NewStepList(p)
	require.NoError(t, err)
	out = ansi.Strip(out)

	// only the first line of a multiline script shows, with an ellipsis
	assert.Contains(t, out, "aws deploy create-deployment \\ …")
	assert.NotContains(t, out, "--application-name")
}

func TestNewStepListJobFilter(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	p := v1.Pipeline{
		Jobs: v1.JobMap{
			"build": v1.Job{RunsOn: v1.DefaultRunsOn, Steps: []v1.Step{{Name: "test", Run: "pytest"}}},
			"docs":  v1.Job{RunsOn: v1.DefaultRunsOn, Env: schema.Env{}, Steps: []v1.Step{{Name: "render", Run: "mkdocs build"}}},
		},
	}

	out, err := NewStepList(p, "docs")
	require.NoError(t, err)
	out = ansi.Strip(out)

	assert.Contains(t, out, "mkdocs build")
	assert.NotContains(t, out, "pytest")

	_, err = NewStepList(p, "release")
	require.EqualError(t, err, "job \"release\" not found")
}
