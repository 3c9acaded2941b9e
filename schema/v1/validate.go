// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/xeipuuv/gojsonschema"

	"github.com/pipevet/pipevet/schema"
)

// Read reads a pipeline from a file
func Read(r io.Reader) (Pipeline, error) {
	if rs, ok := r.(io.Seeker); ok {
		_, err := rs.Seek(0, io.SeekStart)
		if err != nil {
			return Pipeline{}, err
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Pipeline{}, err
	}

	var versioned schema.Versioned
	if err := yaml.Unmarshal(data, &versioned); err != nil {
		return Pipeline{}, err
	}

	switch version := versioned.SchemaVersion; version {
	case SchemaVersion:
		var p Pipeline
		return p, yaml.Unmarshal(data, &p)
	default:
		return Pipeline{}, fmt.Errorf("unsupported schema version: expected %q, got %q", SchemaVersion, version)
	}
}

var schemaOnce = sync.OnceValues(func() (string, error) {
	s := PipelineSchema()
	b, err := json.Marshal(s)
	return string(b), err
})

// Validate validates a pipeline
func Validate(p Pipeline) error {
	if len(p.Jobs) == 0 {
		return errors.New("no jobs available")
	}

	if p.On.Push == nil {
		return errors.New(".on must have the push trigger set")
	}

	for _, branch := range p.On.Branches() {
		if branch == "" {
			return errors.New(".on.push.branches must not contain empty branch names")
		}
		if ok := BranchNamePattern.MatchString(branch); !ok {
			return fmt.Errorf(".on.push.branches %q does not satisfy %q", branch, BranchNamePattern.String())
		}
	}

	for envName := range p.Env {
		if ok := EnvVariablePattern.MatchString(envName); !ok {
			return fmt.Errorf(".env %q does not satisfy %q", envName, EnvVariablePattern.String())
		}
	}

	for name, job := range p.Jobs {
		if ok := JobNamePattern.MatchString(name); !ok {
			return fmt.Errorf("job name %q does not satisfy %q", name, JobNamePattern.String())
		}

		if job.RunsOn == "" {
			return fmt.Errorf(".jobs.%s must have the runs-on field set", name)
		}

		if len(job.Steps) == 0 {
			return fmt.Errorf(".jobs.%s has no steps", name)
		}

		for envName := range job.Env {
			if ok := EnvVariablePattern.MatchString(envName); !ok {
				return fmt.Errorf(".jobs.%s.env %q does not satisfy %q", name, envName, EnvVariablePattern.String())
			}
		}

		ids := make(map[string]int, len(job.Steps))

		for idx, step := range job.Steps {
			// ensure that only one of run or uses fields is set
			switch {
			// both
			case step.Uses != "" && step.Run != "":
				return fmt.Errorf(".jobs.%s.steps[%d] has both run and uses fields set", name, idx)
			// neither
			case step.Uses == "" && step.Run == "":
				return fmt.Errorf(".jobs.%s.steps[%d] must have one of [run, uses] fields set", name, idx)
			}

			if step.ID != "" {
				if ok := JobNamePattern.MatchString(step.ID); !ok {
					return fmt.Errorf(".jobs.%s.steps[%d].id %q does not satisfy %q", name, idx, step.ID, JobNamePattern.String())
				}

				if _, ok := ids[step.ID]; ok {
					return fmt.Errorf(".jobs.%s.steps[%d] and .jobs.%s.steps[%d] have the same ID %q", name, ids[step.ID], name, idx, step.ID)
				}
				ids[step.ID] = idx
			}

			if step.Uses != "" {
				if _, err := ParseActionRef(step.Uses); err != nil {
					return fmt.Errorf(".jobs.%s.steps[%d].uses %w", name, idx, err)
				}
			}

			if len(step.With) > 0 && step.Uses == "" {
				return fmt.Errorf(".jobs.%s.steps[%d] has with but no uses", name, idx)
			}

			if step.WorkDir != "" {
				if filepath.IsAbs(step.WorkDir) {
					return fmt.Errorf(".jobs.%s.steps[%d].working-directory %q must not be absolute", name, idx, step.WorkDir)
				}
			}

			if step.Timeout != "" {
				_, err := time.ParseDuration(step.Timeout)
				if err != nil {
					return fmt.Errorf(".jobs.%s.steps[%d].timeout %q is not a valid time duration", name, idx, step.Timeout)
				}
			}

			for envName := range step.Env {
				if ok := EnvVariablePattern.MatchString(envName); !ok {
					return fmt.Errorf(".jobs.%s.steps[%d].env %q does not satisfy %q", name, idx, envName, EnvVariablePattern.String())
				}
			}
		}
	}

	s, err := schemaOnce()
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewStringLoader(s)

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(p))
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	var resErr error
	for _, err := range result.Errors() {
		resErr = errors.Join(resErr, errors.New(err.String()))
	}

	return resErr
}

// ReadAndValidate reads and validates a pipeline
func ReadAndValidate(r io.Reader) (Pipeline, error) {
	p, err := Read(r)
	if err != nil {
		return Pipeline{}, err
	}
	return p, Validate(p)
}
