// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package schema provides the pipeline document types and schema for pipevet
package schema

// Versioned is a tiny struct used to grab the schema version for a pipeline document
type Versioned struct {
	// SchemaVersion is the document schema that this pipeline follows
	SchemaVersion string `json:"schema-version"`
}

// With is a map of string keys and values used to pass parameters to referenced actions
type With = map[string]any

// Env is a map of environment variable names to values
type Env = map[string]any

// DefaultJobName is the job name given to pipelines migrated from the legacy flat format
const DefaultJobName = "build"
