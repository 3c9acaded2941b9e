// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package server exposes pipevet's validation and linting over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pipevet/pipevet"
	"github.com/pipevet/pipevet/schema/migrate"
	v0 "github.com/pipevet/pipevet/schema/v0"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

// MaxDocumentSize caps the accepted request body for lint requests
const MaxDocumentSize = 1 << 20

// LintResponse is the JSON body returned by the lint endpoint
type LintResponse struct {
	Valid    bool              `json:"valid"`
	Error    string            `json:"error,omitempty"`
	Findings []pipevet.Finding `json:"findings"`
}

// NewRouter builds the HTTP API
//
// Handlers pull their logger from the request context, so wire one in with
// log.WithContext before serving.
func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", handleHealth)
	r.Get("/v1/schema", handleSchema)
	r.Post("/v1/lint", handleLint)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	version := r.URL.Query().Get("version")
	switch version {
	case "", v0.SchemaVersion, v1.SchemaVersion:
	default:
		http.Error(w, "unknown schema version "+version, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	if err := json.NewEncoder(w).Encode(pipevet.PipelineSchema(version)); err != nil {
		log.FromContext(r.Context()).Error("failed to encode schema", "err", err)
	}
}

func handleLint(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := LintResponse{Findings: []pipevet.Finding{}}

	pipeline, err := migrate.ToV1(body)
	if err == nil {
		err = v1.Validate(pipeline)
	}
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, r, http.StatusUnprocessableEntity, resp)
		return
	}

	resp.Findings = append(resp.Findings, pipevet.Lint(pipeline)...)
	resp.Valid = !pipevet.HasErrors(resp.Findings)

	writeJSON(w, r, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.FromContext(r.Context()).Error("failed to encode response", "err", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.FromContext(r.Context()).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// ListenAndServe runs the API until ctx is canceled, then drains in-flight
// requests for up to five seconds
func ListenAndServe(ctx context.Context, addr string) error {
	logger := log.FromContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: NewRouter(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
