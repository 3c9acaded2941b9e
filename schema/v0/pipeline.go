// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package v0 contains the legacy flat pipeline dialect
//
// v0 documents predate jobs and triggers: a single watched branch and an
// ordered list of stages, each stage an ordered list of shell commands.
package v0

import (
	"github.com/invopop/jsonschema"

	"github.com/pipevet/pipevet/schema"
)

// SchemaVersion is the schema version for legacy pipelines
const SchemaVersion = "v0"

// Pipeline represents a legacy pipeline file
type Pipeline struct {
	SchemaVersion string  `json:"schema-version"`
	Branch        string  `json:"branch,omitempty"`
	Stages        []Stage `json:"stages"`
}

// JSONSchemaExtend extends the JSON schema for a legacy pipeline
func (Pipeline) JSONSchemaExtend(s *jsonschema.Schema) {
	if schemaVersion, ok := s.Properties.Get("schema-version"); ok && schemaVersion != nil {
		schemaVersion.Description = "Pipeline schema version."
		schemaVersion.Enum = []any{SchemaVersion}
		schemaVersion.AdditionalProperties = jsonschema.FalseSchema
	}
	if branch, ok := s.Properties.Get("branch"); ok && branch != nil {
		branch.Description = "Branch whose pushes trigger the pipeline"
	}
	if stages, ok := s.Properties.Get("stages"); ok && stages != nil {
		stages.Description = "Ordered list of stages, run front to back"
	}
}

// Stage is a named group of sequential steps
type Stage struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
}

// JSONSchemaExtend extends the JSON schema for a stage
func (Stage) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "A named group of sequential steps"

	if name, ok := s.Properties.Get("name"); ok && name != nil {
		name.Description = "Stage name (e.g. build, test, deploy)"
		name.Pattern = StageNamePattern.String()
	}
}

// Step is a single command within a stage
type Step struct {
	// Name is a human-readable name for the step
	Name string `json:"name,omitempty"`
	// Run is the command to run
	Run string `json:"run"`
	// Env is a map of extra environment variables
	Env schema.Env `json:"env,omitempty"`
}

// JSONSchemaExtend extends the JSON schema for a step
func (Step) JSONSchemaExtend(s *jsonschema.Schema) {
	if run, ok := s.Properties.Get("run"); ok && run != nil {
		run.Description = "Command/script to run"
	}
	if env, ok := s.Properties.Get("env"); ok && env != nil {
		env.Description = "Extra environment variables for this step"
		env.Type = "object"
		env.PropertyNames = &jsonschema.Schema{
			Pattern: EnvVariablePattern.String(),
		}
	}
}

// PipelineSchema returns a JSON schema for a legacy pipeline
func PipelineSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := reflector.Reflect(&Pipeline{})

	s.ID = "https://raw.githubusercontent.com/pipevet/pipevet/main/schema/v0/schema.json"

	return s
}
