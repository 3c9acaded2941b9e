// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

// Package main is the entry point for the application
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"

	pipevetcmd "github.com/pipevet/pipevet/cmd"
)

func main() {
	ctx := context.Background()
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Level:           log.DebugLevel,
	})
	logger.SetStyles(pipevetcmd.DefaultStyles())
	ctx = log.WithContext(ctx, logger)

	if err := pipevetcmd.NewMigrateCmd().ExecuteContext(ctx); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
