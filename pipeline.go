// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package pipevet statically inspects CI pipeline documents: parsing,
// migration, validation, linting and explanation. It never executes a step.
package pipevet

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/invopop/jsonschema"

	"github.com/pipevet/pipevet/fetch"
	"github.com/pipevet/pipevet/schema/migrate"
	v0 "github.com/pipevet/pipevet/schema/v0"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

// Fetch fetches a pipeline document from a given URL
//
// Legacy documents are migrated to the current schema version before being
// returned, the result is always validated
func Fetch(ctx context.Context, svc *fetch.FetcherService, uri *fetch.URI) (v1.Pipeline, error) {
	logger := log.FromContext(ctx)

	fetcher, err := svc.GetFetcher(uri)
	if err != nil {
		return v1.Pipeline{}, err
	}

	fetcherType := fmt.Sprintf("%T", fetcher)
	if sf, ok := fetcher.(*fetch.StoreFetcher); ok {
		fetcherType = fmt.Sprintf("%T|%T", sf.Store, sf.Source)
	}

	logger.Debug("fetching", "url", uri, "fetcher", fetcherType)

	rc, err := fetcher.Fetch(ctx, uri)
	if err != nil {
		return v1.Pipeline{}, err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return v1.Pipeline{}, err
	}

	p, err := migrate.ToV1(b)
	if err != nil {
		return v1.Pipeline{}, err
	}

	return p, v1.Validate(p)
}

// PipelineSchema generates the schema for either a given version, or all versions in one meta schema
func PipelineSchema(version string) *jsonschema.Schema {
	var s *jsonschema.Schema

	switch version {
	case v0.SchemaVersion:
		s = v0.PipelineSchema()
	case v1.SchemaVersion:
		s = v1.PipelineSchema()
	default:
		s = &jsonschema.Schema{
			If: &jsonschema.Schema{
				Properties: jsonschema.NewProperties(),
			},
			Then:    v0.PipelineSchema(),
			Else:    v1.PipelineSchema(),
			ID:      "https://raw.githubusercontent.com/pipevet/pipevet/main/pipevet.schema.json",
			Version: jsonschema.Version,
		}

		s.If.Properties.Set("schema-version", &jsonschema.Schema{
			Type: "string",
			Enum: []any{v0.SchemaVersion},
		})
	}

	return s
}
