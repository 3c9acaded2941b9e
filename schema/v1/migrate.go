// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import (
	"fmt"

	"github.com/pipevet/pipevet/schema"
	v0 "github.com/pipevet/pipevet/schema/v0"
)

// Migrate converts a v0 pipeline to v1 format
//
// The flat stage list becomes a single job named after schema.DefaultJobName,
// preserving stage order as step order. Stage names survive as step name
// prefixes so the origin of each step stays visible.
func Migrate(old any) (Pipeline, error) {
	v0Pipeline, ok := old.(v0.Pipeline)
	if !ok {
		return Pipeline{}, fmt.Errorf("expected v0.Pipeline, got %T", old)
	}

	p := Pipeline{
		SchemaVersion: SchemaVersion,
		Jobs:          make(JobMap, 1),
	}

	// a branch-less v0 document still runs on push, just unscoped
	p.On = Trigger{Push: &PushTrigger{}}
	if v0Pipeline.Branch != "" {
		p.On.Push.Branches = []string{v0Pipeline.Branch}
	}

	var steps []Step
	for _, stage := range v0Pipeline.Stages {
		for _, v0Step := range stage.Steps {
			var env schema.Env
			if v0Step.Env != nil {
				env = make(schema.Env, len(v0Step.Env))
				for envName, envValue := range v0Step.Env {
					env[envName] = envValue
				}
			}

			name := v0Step.Name
			if name == "" {
				name = stage.Name
			} else {
				name = stage.Name + ": " + name
			}

			steps = append(steps, Step{
				Name: name,
				Run:  v0Step.Run,
				Env:  env,
			})
		}
	}

	p.Jobs[schema.DefaultJobName] = Job{
		RunsOn: DefaultRunsOn,
		Steps:  steps,
	}

	return p, nil
}
