// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package v1

import "regexp"

// JobNamePattern is a regular expression for valid job names, it is also used for step IDs
var JobNamePattern = regexp.MustCompile("^[_a-zA-Z][a-zA-Z0-9_-]*$")

// EnvVariablePattern is a regular expression for valid environment variable names
var EnvVariablePattern = regexp.MustCompile("^[a-zA-Z_]+[a-zA-Z0-9_]*$")

// SecretNamePattern is a regular expression for valid secret names
//
// Secrets are injected by the platform at run time, the document only ever
// holds their names
var SecretNamePattern = regexp.MustCompile("^[a-zA-Z_]+[a-zA-Z0-9_]*$")

// BranchNamePattern is a loose regular expression for valid git branch names
var BranchNamePattern = regexp.MustCompile(`^[^\s~^:?*\[\\]+$`)
