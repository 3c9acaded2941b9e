// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package v1 contains the current pipeline document dialect
package v1

import (
	"cmp"
	"slices"

	"github.com/invopop/jsonschema"

	"github.com/pipevet/pipevet/schema"
)

// SchemaVersion is the current schema version for pipeline documents
const SchemaVersion = "v1"

// DefaultRunsOn is the runner label given to jobs migrated from the legacy format
const DefaultRunsOn = "ubuntu-latest"

// Pipeline represents a pipeline file
//
// The document is purely declarative: ordering, failure propagation and log
// capture all belong to the external runner
type Pipeline struct {
	SchemaVersion string     `json:"schema-version"`
	Name          string     `json:"name,omitempty"`
	On            Trigger    `json:"on"`
	Env           schema.Env `json:"env,omitempty"`
	Jobs          JobMap     `json:"jobs"`
}

// JSONSchemaExtend extends the JSON schema for a pipeline
func (Pipeline) JSONSchemaExtend(s *jsonschema.Schema) {
	if schemaVersion, ok := s.Properties.Get("schema-version"); ok && schemaVersion != nil {
		schemaVersion.Description = "Pipeline schema version."
		schemaVersion.Enum = []any{SchemaVersion}
		schemaVersion.AdditionalProperties = jsonschema.FalseSchema
	}
	if name, ok := s.Properties.Get("name"); ok && name != nil {
		name.Description = "Human-readable name for the pipeline"
	}
	if on, ok := s.Properties.Get("on"); ok && on != nil {
		on.Description = "Events that start the pipeline"
	}
	if env, ok := s.Properties.Get("env"); ok && env != nil {
		env.Description = "Environment variables shared by every job"
		env.Type = "object"
		env.PropertyNames = &jsonschema.Schema{
			Pattern: EnvVariablePattern.String(),
		}
	}
	if jobs, ok := s.Properties.Get("jobs"); ok && jobs != nil {
		jobs.Description = "Map of jobs where the key is the job name"
	}
}

// Job is a named sequence of steps executed on a single runner
type Job struct {
	Name   string     `json:"name,omitempty"`
	RunsOn string     `json:"runs-on"`
	Env    schema.Env `json:"env,omitempty"`
	Steps  []Step     `json:"steps"`
}

// JSONSchemaExtend extends the JSON schema for a job
func (Job) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "A job definition, aka a collection of steps run in order on one runner"

	if name, ok := s.Properties.Get("name"); ok && name != nil {
		name.Description = "Human-readable name for the job, pure sugar"
	}
	if runsOn, ok := s.Properties.Get("runs-on"); ok && runsOn != nil {
		runsOn.Description = "Runner label the external platform schedules the job onto (e.g. ubuntu-latest)"
	}
	if env, ok := s.Properties.Get("env"); ok && env != nil {
		env.Description = "Environment variables shared by every step in the job"
		env.Type = "object"
		env.PropertyNames = &jsonschema.Schema{
			Pattern: EnvVariablePattern.String(),
		}
	}
	if steps, ok := s.Properties.Get("steps"); ok && steps != nil {
		steps.Description = "Job steps, run front to back"
	}
}

// JobMap is a map of jobs, where the key is the job name
type JobMap map[string]Job

// JSONSchemaExtend extends the JSON schema for a job map
func (JobMap) JSONSchemaExtend(s *jsonschema.Schema) {
	s.PropertyNames = &jsonschema.Schema{
		Pattern: JobNamePattern.String(),
	}
}

// Find returns a job by name
func (jm JobMap) Find(name string) (Job, bool) {
	job, ok := jm[name]
	return job, ok
}

// OrderedJobNames returns a list of job names in alphabetical order
//
// The build job is always first
func (jm JobMap) OrderedJobNames() []string {
	names := make([]string, 0, len(jm))
	for k := range jm {
		names = append(names, k)
	}
	slices.SortStableFunc(names, func(a, b string) int {
		if a == schema.DefaultJobName {
			return -1
		}
		if b == schema.DefaultJobName {
			return 1
		}
		return cmp.Compare(a, b)
	})
	return names
}

// PipelineSchema returns a JSON schema for a pipevet pipeline
func PipelineSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := reflector.Reflect(&Pipeline{})

	s.ID = "https://raw.githubusercontent.com/pipevet/pipevet/main/schema/v1/schema.json"

	return s
}
