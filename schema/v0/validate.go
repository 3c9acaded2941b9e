// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v0

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/pipevet/pipevet/schema"
)

// Read reads a legacy pipeline from a file
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

// Validate validates a legacy pipeline
func Validate(p Pipeline) error {
	if len(p.Stages) == 0 {
		return errors.New("no stages available")
	}

	seen := make(map[string]int, len(p.Stages))

	for idx, stage := range p.Stages {
		if ok := StageNamePattern.MatchString(stage.Name); !ok {
			return fmt.Errorf(".stages[%d].name %q does not satisfy %q", idx, stage.Name, StageNamePattern.String())
		}

		if prev, ok := seen[stage.Name]; ok {
			return fmt.Errorf(".stages[%d] and .stages[%d] have the same name %q", prev, idx, stage.Name)
		}
		seen[stage.Name] = idx

		if len(stage.Steps) == 0 {
			return fmt.Errorf(".stages[%d] %q has no steps", idx, stage.Name)
		}

		for sIdx, step := range stage.Steps {
			if step.Run == "" {
				return fmt.Errorf(".stages[%d].steps[%d] must have the run field set", idx, sIdx)
			}

			for envName := range step.Env {
				if ok := EnvVariablePattern.MatchString(envName); !ok {
					return fmt.Errorf(".stages[%d].steps[%d].env %q does not satisfy %q", idx, sIdx, envName, EnvVariablePattern.String())
				}
			}
		}
	}

	return nil
}

// ReadAndValidate reads and validates a legacy pipeline
func ReadAndValidate(r io.Reader) (Pipeline, error) {
	p, err := Read(r)
	if err != nil {
		return Pipeline{}, err
	}
	return p, Validate(p)
}
