// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package main is the entry point for the application
package main

import (
	"os"

	"github.com/pipevet/pipevet/cmd"
)

func main() {
	code := cmd.Main()
	os.Exit(code)
}
