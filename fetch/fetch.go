// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package fetch provides clients for retrieving pipeline documents
//
// Pipelines live wherever CI keeps them: working trees, raw URLs, repository
// hosts, OCI registries. Every client only ever reads; nothing here executes
// a pipeline.
package fetch

import (
	"context"
	"io"
)

// DefaultFileName is the default file name to use when a path resolves to "."
const DefaultFileName = "pipeline.yaml"

// DefaultVersion is the default ref to use when a version is not specified
const DefaultVersion = "main"

// QualifierTokenFromEnv is the qualifier naming the env var holding an auth token
const QualifierTokenFromEnv = "token-from-env"

// QualifierBaseURL is the qualifier for the base URL to use when fetching from a host
const QualifierBaseURL = "base"

// Fetcher fetches a file from a location.
type Fetcher interface {
	Fetch(ctx context.Context, uri *URI) (io.ReadCloser, error)
}

// Storage is a Fetcher that can also report on and accept content
type Storage interface {
	Fetcher
	Exists(uri *URI) (bool, error)
	Store(r io.Reader, uri *URI) error
}
