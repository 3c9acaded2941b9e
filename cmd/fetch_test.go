// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package cmd_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/rogpeppe/go-internal/testscript"

	v1 "github.com/pipevet/pipevet/schema/v1"
)

func TestFetchE2E(t *testing.T) {
	httpHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/deploy.yaml":
			p := v1.Pipeline{
				SchemaVersion: v1.SchemaVersion,
				On:            v1.Trigger{Push: &v1.PushTrigger{Branches: []string{"main"}}},
				Jobs: v1.JobMap{
					"build": v1.Job{
						RunsOn: "ubuntu-latest",
						Steps: []v1.Step{
							{Name: "test", Run: "pytest"},
						},
					},
				},
			}
			b, _ := yaml.Marshal(p)
			_, _ = w.Write(b)

		case "/invalid.yaml":
			_, _ = w.Write([]byte("not a valid pipeline yaml"))

		case "/error.yaml":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("server error"))

		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("not found"))
		}
	})

	httpServer := httptest.NewServer(httpHandler)
	t.Cleanup(httpServer.Close)

	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("..", "testdata", "fetch"),
		Setup: func(env *testscript.Env) error {
			env.Setenv("NO_COLOR", "true")
			env.Setenv("HTTP_BASE_URL", httpServer.URL)
			env.Setenv("HOME", filepath.Join(env.WorkDir, "home"))
			return nil
		},
		RequireUniqueNames: true,
		// UpdateScripts:      true,
	})
}
