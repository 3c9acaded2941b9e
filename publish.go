// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/spf13/afero"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"

	"github.com/pipevet/pipevet/fetch"
	"github.com/pipevet/pipevet/schema/migrate"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

// Publish validates local pipeline documents and pushes them to an OCI registry
//
// Each path becomes one layer of a single artifact, named by its slash-form
// relative path. Documents that fail validation are never pushed.
func Publish(ctx context.Context, fsys afero.Fs, dst *remote.Repository, paths []string) error {
	logger := log.FromContext(ctx)

	if len(paths) == 0 {
		return fmt.Errorf("need at least one pipeline document")
	}

	tmp, err := os.MkdirTemp("", "pipevet-publish-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	ociStore, err := file.New(tmp)
	if err != nil {
		return err
	}
	defer ociStore.Close()

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	layers := make([]ocispec.Descriptor, 0, len(paths))
	for _, p := range paths {
		b, err := afero.ReadFile(fsys, p)
		if err != nil {
			return err
		}

		pipeline, err := migrate.ToV1(b)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err := v1.Validate(pipeline); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}

		name := filepath.ToSlash(filepath.Clean(p))

		logger.Debug("staging", "entry", name)

		desc, err := ociStore.Add(ctx, name, fetch.MediaTypePipeline, filepath.Join(cwd, p))
		if err != nil {
			return err
		}
		layers = append(layers, desc)
	}

	root, err := oras.PackManifest(ctx, ociStore, oras.PackManifestVersion1_1, fetch.MediaTypePipeline, oras.PackManifestOptions{
		Layers: layers,
	})
	if err != nil {
		return err
	}

	if err := ociStore.Tag(ctx, root, root.Digest.String()); err != nil {
		return err
	}

	desc, err := oras.Copy(ctx, ociStore, root.Digest.String(), dst, dst.Reference.Reference, oras.DefaultCopyOptions)
	if err != nil {
		return err
	}
	logger.Info("published", "digest", desc.Digest, "to", dst.Reference.Reference)

	return nil
}
