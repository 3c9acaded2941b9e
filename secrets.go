// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package pipevet

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cast"

	v1 "github.com/pipevet/pipevet/schema/v1"
)

// secretSpan matches a ${{ ... }} interpolation span
var secretSpan = regexp.MustCompile(`\$\{\{([^}]*)\}\}`)

// SecretRef is a single occurrence of a secret reference within a pipeline
type SecretRef struct {
	// Name is the secret's name, never its value
	Name string
	// Path locates the occurrence, e.g. .jobs.deploy.steps[4].env.AWS_ACCESS_KEY_ID
	Path string
}

// SecretRefs collects every ${{ secrets.NAME }} reference in document order
//
// Secrets stay names end to end: the platform injects values at run time and
// nothing here ever resolves one. Malformed spans (an empty or invalid name
// after "secrets.") produce an error naming the offending path.
func SecretRefs(p v1.Pipeline) ([]SecretRef, error) {
	var refs []SecretRef

	scan := func(path, value string) error {
		for _, m := range secretSpan.FindAllStringSubmatch(value, -1) {
			inner := strings.TrimSpace(m[1])
			name, ok := strings.CutPrefix(inner, "secrets.")
			if !ok {
				continue
			}
			if ok := v1.SecretNamePattern.MatchString(name); !ok {
				return fmt.Errorf("%s references a secret with invalid name %q", path, name)
			}
			refs = append(refs, SecretRef{Name: name, Path: path})
		}
		return nil
	}

	scanEnv := func(path string, env map[string]any) error {
		keys := make([]string, 0, len(env))
		for k := range env {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if err := scan(path+"."+k, cast.ToString(env[k])); err != nil {
				return err
			}
		}
		return nil
	}

	if err := scanEnv(".env", p.Env); err != nil {
		return nil, err
	}

	for _, jobName := range p.Jobs.OrderedJobNames() {
		job := p.Jobs[jobName]
		base := ".jobs." + jobName

		if err := scanEnv(base+".env", job.Env); err != nil {
			return nil, err
		}

		for idx, step := range job.Steps {
			stepPath := fmt.Sprintf("%s.steps[%d]", base, idx)

			if err := scan(stepPath+".run", step.Run); err != nil {
				return nil, err
			}
			if err := scanEnv(stepPath+".env", step.Env); err != nil {
				return nil, err
			}
			if err := scanEnv(stepPath+".with", step.With); err != nil {
				return nil, err
			}
			if err := scan(stepPath+".if", step.If); err != nil {
				return nil, err
			}
		}
	}

	return refs, nil
}

// SecretNames returns the deduplicated, ordered set of secret names a
// pipeline requires from the platform
func SecretNames(p v1.Pipeline) ([]string, error) {
	refs, err := SecretRefs(p)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, ref := range refs {
		if !slices.Contains(names, ref.Name) {
			names = append(names, ref.Name)
		}
	}
	return names, nil
}
