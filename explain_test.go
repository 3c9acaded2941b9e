// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/pipevet/pipevet/schema/v1"
)

func TestExplain(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	md, err := Explain(deployPipeline())
	require.NoError(t, err)

	assert.Contains(t, md, "# deploy service")
	assert.Contains(t, md, "Runs on pushes to main.")
	assert.Contains(t, md, "Required secrets: `AWS_ACCESS_KEY_ID`, `AWS_SECRET_ACCESS_KEY`.")
	assert.Contains(t, md, "Referenced actions: `actions/checkout@11bd71901bbe5b1630ceea73d27597364c9af683`")
	assert.Contains(t, md, "## build")
	assert.Contains(t, md, "Runs on `ubuntu-latest`, 5 step(s).")
	assert.Contains(t, md, "aws deploy create-deployment")
}

func TestExplainUnscopedTrigger(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	p := v1.Pipeline{
		Jobs: v1.JobMap{
			"build": v1.Job{
				RunsOn: v1.DefaultRunsOn,
				Steps:  []v1.Step{{Name: "cond", Run: "make", If: "failure()"}},
			},
		},
	}

	md, err := Explain(p)
	require.NoError(t, err)
	assert.Contains(t, md, "# pipeline")
	assert.Contains(t, md, "Runs on every push.")
	assert.Contains(t, md, "_(if: `failure()`)_")
}

func TestExplainUnknownJob(t *testing.T) {
	t.Setenv("NO_COLOR", "true")

	_, err := Explain(deployPipeline(), "release")
	require.EqualError(t, err, "job \"release\" not found")
}
