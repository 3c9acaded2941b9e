// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Pipevet Authors

package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pipevet/pipevet/server"
)

// NewServeCmd creates the serve command, exposing linting over HTTP
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lint API over HTTP",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := log.ParseLevel(cmd.Flag("log-level").Value.String())
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "0.0.0.0:4372", "Address and port to listen on")
	cmd.Flags().StringP("log-level", "l", "info", "Set log level")

	return cmd
}
