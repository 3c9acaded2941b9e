// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package actions holds typed input specs for well-known hosted actions
//
// The catalog lets the linter flag misspelled or ill-typed with: keys before
// the external runner ever sees them. Unknown actions are skipped, never
// failed: the catalog is a convenience, not a registry of the world.
package actions

import (
	"fmt"
	"slices"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/pipevet/pipevet/schema"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

var _register sync.RWMutex

// checkout covers actions/checkout
type checkout struct {
	Repository string `json:"repository" jsonschema:"description=Repository to check out (owner/repo)"`
	Ref        string `json:"ref"        jsonschema:"description=Branch, tag or SHA to check out"`
	Token      string `json:"token"      jsonschema:"description=Token used to fetch the repository"`
	Path       string `json:"path"       jsonschema:"description=Relative path to place the repository under"`
	FetchDepth int    `json:"fetch-depth" jsonschema:"description=Number of commits to fetch, 0 for all"`
	Submodules bool   `json:"submodules" jsonschema:"description=Whether to check out submodules"`
	LFS        bool   `json:"lfs"        jsonschema:"description=Whether to download LFS objects"`
}

// setupPython covers actions/setup-python
type setupPython struct {
	PythonVersion     string `json:"python-version"      jsonschema:"description=Version range or exact version of Python to use"`
	PythonVersionFile string `json:"python-version-file" jsonschema:"description=File containing the Python version to use"`
	Cache             string `json:"cache"               jsonschema:"description=Package manager whose cache to reuse (pip, pipenv, poetry)"`
	Architecture      string `json:"architecture"        jsonschema:"description=Target architecture"`
}

// setupNode covers actions/setup-node
type setupNode struct {
	NodeVersion     string `json:"node-version"      jsonschema:"description=Version spec of Node.js to use"`
	NodeVersionFile string `json:"node-version-file" jsonschema:"description=File containing the Node.js version to use"`
	Cache           string `json:"cache"             jsonschema:"description=Package manager whose cache to reuse (npm, yarn, pnpm)"`
	RegistryURL     string `json:"registry-url"      jsonschema:"description=Registry to configure for auth"`
}

// uploadArtifact covers actions/upload-artifact
type uploadArtifact struct {
	Name             string `json:"name"              jsonschema:"description=Artifact name"`
	Path             string `json:"path"              jsonschema:"description=File, directory or glob to upload"`
	IfNoFilesFound   string `json:"if-no-files-found" jsonschema:"description=Behavior when no files match (warn, error, ignore)"`
	RetentionDays    int    `json:"retention-days"    jsonschema:"description=Days before the artifact expires"`
	CompressionLevel int    `json:"compression-level" jsonschema:"description=Zlib compression level"`
}

// downloadArtifact covers actions/download-artifact
type downloadArtifact struct {
	Name string `json:"name" jsonschema:"description=Artifact name to download"`
	Path string `json:"path" jsonschema:"description=Destination path"`
}

var _registrations = map[string]func() any{
	"actions/checkout":          func() any { return &checkout{} },
	"actions/setup-python":      func() any { return &setupPython{} },
	"actions/setup-node":        func() any { return &setupNode{} },
	"actions/upload-artifact":   func() any { return &uploadArtifact{} },
	"actions/download-artifact": func() any { return &downloadArtifact{} },
}

// Known reports whether the catalog carries an input spec for the given slug
func Known(slug string) bool {
	_register.RLock()
	defer _register.RUnlock()
	_, ok := _registrations[slug]
	return ok
}

// Names returns the catalog's slugs in alphabetical order
func Names() []string {
	_register.RLock()
	defer _register.RUnlock()

	names := make([]string, 0, len(_registrations))
	for name := range _registrations {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Register adds an input spec to the catalog
//
// spec must be a factory returning a fresh pointer-to-struct whose json tags
// name the action's inputs
func Register(slug string, spec func() any) error {
	_register.Lock()
	defer _register.Unlock()

	if slug == "" {
		return fmt.Errorf("action slug cannot be empty")
	}
	if spec == nil {
		return fmt.Errorf("spec factory cannot be nil")
	}
	if _, exists := _registrations[slug]; exists {
		return fmt.Errorf("%q is already registered", slug)
	}

	_registrations[slug] = spec
	return nil
}

// Vet checks a step's with map against the referenced action's input spec
//
// Returns one human-readable problem per unknown or ill-typed input. A
// reference outside the catalog vets clean.
func Vet(ref v1.ActionRef, with schema.With) []string {
	if ref.Kind != v1.ActionRemote {
		return nil
	}

	_register.RLock()
	factory, ok := _registrations[ref.Slug()]
	_register.RUnlock()
	if !ok {
		return nil
	}

	spec := factory()

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           spec,
		TagName:          "json",
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return []string{err.Error()}
	}

	var problems []string
	if err := decoder.Decode(with); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", ref.Slug(), err))
	}

	slices.Sort(md.Unused)
	for _, key := range md.Unused {
		problems = append(problems, fmt.Sprintf("%s does not accept input %q", ref.Slug(), key))
	}

	return problems
}
