// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import (
	"fmt"
	"regexp"
	"strings"
)

// ActionKind discriminates the supported shapes of a uses reference
type ActionKind string

const (
	// ActionRemote is a hosted action, e.g. actions/checkout@v4
	ActionRemote ActionKind = "remote"
	// ActionLocal is an action within the triggering repository, e.g. ./.ci/actions/setup
	ActionLocal ActionKind = "local"
	// ActionDocker is a container image reference, e.g. docker://alpine:3.20
	ActionDocker ActionKind = "docker"
)

var commitSHAPattern = regexp.MustCompile("^[0-9a-f]{40}$")

// ActionRef is a parsed uses reference
type ActionRef struct {
	Kind  ActionKind
	Owner string
	Repo  string
	// Path is the subdirectory within the repository, empty for the root action
	Path string
	Ref  string
	// Image is the image reference for docker actions
	Image string
}

// ParseActionRef parses a step's uses string
//
// Remote references follow owner/repo[/path]@ref, local references start
// with ./ and carry no version, docker references use the docker:// scheme
func ParseActionRef(uses string) (ActionRef, error) {
	if uses == "" {
		return ActionRef{}, fmt.Errorf("uses is empty")
	}

	if strings.HasPrefix(uses, "./") {
		return ActionRef{Kind: ActionLocal, Path: strings.TrimPrefix(uses, "./")}, nil
	}

	if img, ok := strings.CutPrefix(uses, "docker://"); ok {
		if img == "" {
			return ActionRef{}, fmt.Errorf("docker reference %q has no image", uses)
		}
		return ActionRef{Kind: ActionDocker, Image: img}, nil
	}

	base, ref, ok := strings.Cut(uses, "@")
	if !ok || ref == "" {
		return ActionRef{}, fmt.Errorf("reference %q is missing a version (@ref)", uses)
	}

	parts := strings.Split(base, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ActionRef{}, fmt.Errorf("reference %q is not of the form owner/repo[/path]@ref", uses)
	}

	return ActionRef{
		Kind:  ActionRemote,
		Owner: parts[0],
		Repo:  parts[1],
		Path:  strings.Join(parts[2:], "/"),
		Ref:   ref,
	}, nil
}

// Slug returns the owner/repo[/path] portion of a remote reference
func (a ActionRef) Slug() string {
	s := a.Owner + "/" + a.Repo
	if a.Path != "" {
		s += "/" + a.Path
	}
	return s
}

// Pinned reports whether a remote reference is pinned to a full commit SHA
func (a ActionRef) Pinned() bool {
	return a.Kind == ActionRemote && commitSHAPattern.MatchString(a.Ref)
}

// Floating reports whether a remote reference tracks a moving branch head
func (a ActionRef) Floating() bool {
	return a.Kind == ActionRemote && (a.Ref == "main" || a.Ref == "master")
}

// String implements fmt.Stringer
func (a ActionRef) String() string {
	switch a.Kind {
	case ActionLocal:
		return "./" + a.Path
	case ActionDocker:
		return "docker://" + a.Image
	default:
		return a.Slug() + "@" + a.Ref
	}
}
