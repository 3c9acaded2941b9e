// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import (
	"github.com/invopop/jsonschema"
)

// Trigger describes the events that cause the external runner to start the pipeline
//
// Only push triggers are modeled, matching the dialect's most common form
type Trigger struct {
	Push *PushTrigger `json:"push,omitempty"`
}

// JSONSchemaExtend extends the JSON schema for a trigger
func (Trigger) JSONSchemaExtend(s *jsonschema.Schema) {
	s.Description = "Events that start the pipeline"

	if push, ok := s.Properties.Get("push"); ok && push != nil {
		push.Description = "Run the pipeline on pushes to the listed branches"
	}
}

// PushTrigger scopes a push trigger to a set of branches
type PushTrigger struct {
	Branches []string `json:"branches,omitempty"`
}

// JSONSchemaExtend extends the JSON schema for a push trigger
func (PushTrigger) JSONSchemaExtend(s *jsonschema.Schema) {
	if branches, ok := s.Properties.Get("branches"); ok && branches != nil {
		branches.Description = "Branches whose pushes trigger the pipeline"
		branches.Items = &jsonschema.Schema{
			Type:    "string",
			Pattern: BranchNamePattern.String(),
		}
	}
}

// Branches returns the branch names the trigger watches
func (t Trigger) Branches() []string {
	if t.Push == nil {
		return nil
	}
	return t.Push.Branches
}
