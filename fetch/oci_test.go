// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/olareg/olareg"
	olaregcfg "github.com/olareg/olareg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"

	"github.com/pipevet/pipevet"
	"github.com/pipevet/pipevet/fetch"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

func TestOCIClient(t *testing.T) {
	newRegistry := func(t *testing.T, tls bool) *httptest.Server {
		t.Helper()
		r := olareg.New(olaregcfg.Config{
			Storage: olaregcfg.ConfigStorage{
				StoreType: olaregcfg.StoreMem,
			},
		})
		var s *httptest.Server
		if tls {
			s = httptest.NewTLSServer(r)
		} else {
			s = httptest.NewServer(r)
		}
		t.Cleanup(func() {
			s.Close()
			_ = r.Close()
		})
		return s
	}

	ctx := log.WithContext(t.Context(), log.New(io.Discard))

	t.Chdir(t.TempDir())
	err := os.WriteFile(fetch.DefaultFileName, []byte(`schema-version: v1
on:
  push:
    branches:
      - main
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - name: test
        run: pytest
`), 0o700)
	require.NoError(t, err)

	run := func(t *testing.T, s *httptest.Server, plainHTTP bool) {
		serverURL, err := url.Parse(s.URL)
		require.NoError(t, err)
		registry := serverURL.Host

		dst, err := remote.NewRepository(fmt.Sprintf("%s/pipeline-1:latest", registry))
		require.NoError(t, err)
		dst.PlainHTTP = plainHTTP
		dst.Client = &auth.Client{
			Client: s.Client(),
		}

		require.NoError(t, pipevet.Publish(ctx, afero.NewOsFs(), dst, []string{fetch.DefaultFileName}))

		client, err := fetch.NewOCIClient(s.Client(), !plainHTTP, plainHTTP)
		require.NoError(t, err)

		// default file
		uri, err := fetch.Parse(fmt.Sprintf("oci:%s/pipeline-1:latest", registry))
		require.NoError(t, err)

		rc, err := client.Fetch(ctx, uri)
		require.NoError(t, err)
		defer rc.Close()

		p, err := v1.ReadAndValidate(rc)
		require.NoError(t, err)
		assert.Equal(t, []string{"main"}, p.On.Branches())

		// fails w/ internal not found error
		uri, err = fetch.Parse(fmt.Sprintf("oci:%s/pipeline-1:latest#other.yaml", registry))
		require.NoError(t, err)

		rc, err = client.Fetch(ctx, uri)
		assert.Nil(t, rc)
		require.EqualError(t, err, "other.yaml: not found")

		// fails w/ HTTP 404
		uri, err = fetch.Parse(fmt.Sprintf("oci:%s/pipeline-1:dne", registry))
		require.NoError(t, err)

		rc, err = client.Fetch(ctx, uri)
		assert.Nil(t, rc)
		require.EqualError(t, err, fmt.Sprintf("%s/pipeline-1:dne: not found", registry))

		// fails w/ nil uri
		rc, err = client.Fetch(ctx, nil)
		assert.Nil(t, rc)
		require.EqualError(t, err, "uri is nil")

		// fails w/ non-oci protocol scheme
		httpsURI, err := fetch.Parse("https://example.com/pipeline.yaml")
		require.NoError(t, err)

		rc, err = client.Fetch(ctx, httpsURI)
		assert.Nil(t, rc)
		require.EqualError(t, err, `scheme is not "oci"`)
	}

	t.Run("plain http", func(t *testing.T) {
		run(t, newRegistry(t, false), true)
	})

	t.Run("tls", func(t *testing.T) {
		run(t, newRegistry(t, true), false)
	})
}
