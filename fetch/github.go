// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"github.com/package-url/packageurl-go"
)

// GitHubClient is a client for fetching files from GitHub
type GitHubClient struct {
	client *github.Client
}

// NewGitHubClient creates a new GitHub client
func NewGitHubClient(client *http.Client, base string, tokenEnv string) (*GitHubClient, error) {
	c := github.NewClient(client)

	if tokenEnv == "" {
		tokenEnv = "GITHUB_TOKEN"
	}

	token, ok := os.LookupEnv(tokenEnv)
	if tokenEnv != "GITHUB_TOKEN" && !ok {
		return nil, fmt.Errorf("token environment variable %s is not set", tokenEnv)
	}

	if ok {
		c = c.WithAuthToken(token)
	}

	if base != "" {
		baseURL, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		if !strings.HasSuffix(baseURL.Path, "/") {
			baseURL.Path += "/"
		}
		c.BaseURL = baseURL
	}

	return &GitHubClient{client: c}, nil
}

// Fetch downloads a pipeline file from GitHub
func (g *GitHubClient) Fetch(ctx context.Context, uri *URI) (io.ReadCloser, error) {
	if uri == nil || uri.URL == nil {
		return nil, fmt.Errorf("uri is nil")
	}

	pURL, err := packageurl.FromString(uri.String())
	if err != nil {
		return nil, err
	}

	if pURL.Type != packageurl.TypeGithub {
		return nil, fmt.Errorf("purl type is not %q: %q", packageurl.TypeGithub, pURL.Type)
	}

	path := pURL.Subpath
	if path == "" {
		path = DefaultFileName
	}

	version := pURL.Version
	if version == "" {
		version = DefaultVersion
	}

	rc, resp, err := g.client.Repositories.DownloadContents(ctx, pURL.Namespace, pURL.Name, path, &github.RepositoryContentGetOptions{
		Ref: version,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		rc.Close()
		return nil, fmt.Errorf("failed to download %s: %s", pURL, resp.Status)
	}

	return rc, nil
}

// ResolveRef verifies that a repository ref exists, returning the commit SHA it points at
//
// Used by --resolve to confirm action references before a pipeline is trusted
func (g *GitHubClient) ResolveRef(ctx context.Context, owner, repo, ref string) (string, error) {
	commit, resp, err := g.client.Repositories.GetCommit(ctx, owner, repo, ref, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to resolve %s/%s@%s: %s", owner, repo, ref, resp.Status)
	}
	return commit.GetSHA(), nil
}
