// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package migrate provides functions to migrate pipeline documents between schema versions
package migrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/pipevet/pipevet/schema"
	v0 "github.com/pipevet/pipevet/schema/v0"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

// ToV1 decodes raw document bytes of any supported schema version and
// returns the v1 form
func ToV1(b []byte) (v1.Pipeline, error) {
	var versioned schema.Versioned
	if err := yaml.Unmarshal(b, &versioned); err != nil {
		return v1.Pipeline{}, err
	}

	switch version := versioned.SchemaVersion; version {
	case v1.SchemaVersion:
		var p v1.Pipeline
		return p, yaml.Unmarshal(b, &p)
	case v0.SchemaVersion:
		var old v0.Pipeline
		if err := yaml.Unmarshal(b, &old); err != nil {
			return v1.Pipeline{}, err
		}
		return v1.Migrate(old)
	default:
		return v1.Pipeline{}, fmt.Errorf("unsupported schema version: %q", version)
	}
}

// Path migrates a pipeline document at path p to the specified schema version,
// rewriting the file in place and leaving the original next to it as a .bak
func Path(p string, to string) error {
	if to != v1.SchemaVersion {
		return fmt.Errorf("unsupported target schema version: %q", to)
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var versioned schema.Versioned
	if err := yaml.Unmarshal(b, &versioned); err != nil {
		return err
	}

	switch version := versioned.SchemaVersion; version {
	case v1.SchemaVersion:
		return nil
	case v0.SchemaVersion:
		var old v0.Pipeline
		if err := yaml.Unmarshal(b, &old); err != nil {
			return err
		}
		pipeline, err := v1.Migrate(old)
		if err != nil {
			return err
		}

		prefix := []byte("# yaml-language-server: $schema=https://raw.githubusercontent.com/pipevet/pipevet/main/pipevet.schema.json\n")
		out, err := pretty(pipeline, prefix)
		if err != nil {
			return err
		}
		return writeAndBackup(p, b, out)
	default:
		return fmt.Errorf("unsupported schema version: %q", version)
	}
}

func pretty(p any, prefix []byte) ([]byte, error) {
	b, err := yaml.MarshalWithOptions(p,
		yaml.Indent(2),
		yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true),
		yaml.UseSingleQuote(false),
	)
	if err != nil {
		return nil, err
	}

	return append(prefix, b...), nil
}

// writeAndBackup replaces the file at p with out, keeping the original bytes
// in a sibling .bak file
//
// The new content lands via a temp file + rename so a crash mid-write never
// leaves a half-migrated pipeline behind
func writeAndBackup(p string, orig, out []byte) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s must be a path to a regular file", p)
	}

	if err := os.WriteFile(p+".bak", orig, info.Mode()); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), filepath.Base(p)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// a successful rename destroys the temp file, cleanup errors are moot
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(out); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode()); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), p)
}
