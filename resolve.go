// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/pipevet/pipevet/config"
	"github.com/pipevet/pipevet/fetch"
	v1 "github.com/pipevet/pipevet/schema/v1"
)

// RefResolver turns a repository ref into the commit SHA it points at
type RefResolver interface {
	ResolveRef(ctx context.Context, owner, repo, ref string) (string, error)
}

// NewRefResolver builds a resolver for the dialect's hosting platform
//
// The "github.com" entry in cfg.Hosts overrides base URL and token env for
// self-managed instances, a "gitlab.com" entry switches the client entirely
func NewRefResolver(cfg *config.Config, client *http.Client) (RefResolver, error) {
	if host, ok := cfg.Hosts["gitlab.com"]; ok && host.Type == "gitlab" {
		return fetch.NewGitLabClient(client, host.Base, host.TokenFromEnv)
	}

	var base, tokenEnv string
	if host, ok := cfg.Hosts["github.com"]; ok {
		base = host.Base
		tokenEnv = host.TokenFromEnv
	}
	return fetch.NewGitHubClient(client, base, tokenEnv)
}

// ResolveActions verifies that every remote action reference in the pipeline
// exists on its host
//
// Each dangling reference yields an error finding, each resolvable tag an
// info finding carrying the commit SHA it could be pinned to. Local and
// docker references are skipped.
func ResolveActions(ctx context.Context, resolver RefResolver, p v1.Pipeline) []Finding {
	logger := log.FromContext(ctx)

	var findings []Finding
	seen := map[string]bool{}

	for _, jobName := range p.Jobs.OrderedJobNames() {
		job := p.Jobs[jobName]
		for idx, step := range job.Steps {
			if step.Uses == "" {
				continue
			}

			ref, err := v1.ParseActionRef(step.Uses)
			if err != nil || ref.Kind != v1.ActionRemote {
				continue
			}

			if seen[ref.String()] {
				continue
			}
			seen[ref.String()] = true

			path := fmt.Sprintf(".jobs.%s.steps[%d].uses", jobName, idx)

			logger.Debug("resolving", "action", ref.String())

			sha, err := resolver.ResolveRef(ctx, ref.Owner, ref.Repo, ref.Ref)
			if err != nil {
				findings = append(findings, Finding{
					Severity: SeverityError,
					Rule:     "unresolvable-action",
					Path:     path,
					Message:  fmt.Sprintf("%s does not resolve: %v", ref, err),
				})
				continue
			}

			if !ref.Pinned() {
				findings = append(findings, Finding{
					Severity: SeverityInfo,
					Rule:     "pinnable-action",
					Path:     path,
					Message:  fmt.Sprintf("%s currently resolves to %s", ref, sha),
				})
			}
		}
	}

	return findings
}
